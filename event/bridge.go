package event

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/c360/shopgateway/model"
)

// DefaultSubject is the NATS subject order snapshots are forwarded to.
const DefaultSubject = "orders.created"

// Publisher is the transport the bridge forwards events over.
// *nats.Conn satisfies it.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Bridge forwards every broadcast OrderCreated snapshot to a message
// subject, fire-and-forget, so out-of-process consumers observe the same
// payload the in-process subscribers do. Forwarding failures are logged and
// never affect the broadcaster or the mutation that published the event.
type Bridge struct {
	sub     *Subscription
	pub     Publisher
	subject string
	logger  *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// NewBridge attaches to the broadcaster and starts forwarding. Close stops it.
func NewBridge(b *Broadcaster, pub Publisher, subject string, logger *slog.Logger) *Bridge {
	if subject == "" {
		subject = DefaultSubject
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	br := &Bridge{
		sub:     b.Subscribe(ctx),
		pub:     pub,
		subject: subject,
		logger:  logger.With("component", "event-bridge"),
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go br.run()
	return br
}

func (br *Bridge) run() {
	defer close(br.done)

	for ev := range br.sub.C {
		br.forward(ev)
	}
}

func (br *Bridge) forward(ev model.OrderCreated) {
	data, err := json.Marshal(ev)
	if err != nil {
		br.logger.Error("event encode failed", "order_id", ev.Order.ID, "error", err)
		return
	}
	if err := br.pub.Publish(br.subject, data); err != nil {
		br.logger.Warn("event forward failed",
			"subject", br.subject, "order_id", ev.Order.ID, "error", err)
	}
}

// Close detaches from the broadcaster and waits for in-flight forwarding to
// finish.
func (br *Bridge) Close() {
	br.cancel()
	br.sub.Cancel()
	<-br.done
}
