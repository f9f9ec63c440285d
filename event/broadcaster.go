// Package event provides the process-wide order event broadcast hub.
//
// The Broadcaster is the only gateway component whose state outlives a
// single request: it is created once at process start, shared by reference
// with every mutation and subscription resolver, and never clears. Publish
// is fire-and-forget from the publisher's perspective; a slow or absent
// subscriber never blocks or fails a publish. A subscriber attached after
// an event was published never observes that event.
package event

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/c360/shopgateway/model"
)

// DefaultSubscriberBuffer is the per-subscriber channel capacity. When a
// subscriber's buffer is full, further events are dropped for that
// subscriber only.
const DefaultSubscriberBuffer = 64

// Subscription is one live event stream. Events arrives on C in publish
// order. C is closed when the subscription's context is cancelled or the
// broadcaster shuts down.
type Subscription struct {
	// ID identifies the subscriber in logs and metrics
	ID string

	// C delivers events in publish order
	C <-chan model.OrderCreated

	cancel func()
}

// Cancel detaches the subscription. Safe to call more than once.
func (s *Subscription) Cancel() {
	s.cancel()
}

// Broadcaster fans out order-created events to all attached subscribers.
type Broadcaster struct {
	mu     sync.RWMutex
	subs   map[string]chan model.OrderCreated
	closed bool

	buffer int
	logger *slog.Logger

	// onDrop, when set, observes per-subscriber drops (tests, metrics)
	onDrop func(subID string)
}

// Option configures a Broadcaster.
type Option func(*Broadcaster)

// WithSubscriberBuffer overrides the per-subscriber channel capacity.
func WithSubscriberBuffer(n int) Option {
	return func(b *Broadcaster) {
		if n > 0 {
			b.buffer = n
		}
	}
}

// WithDropObserver registers a callback invoked whenever an event is
// dropped for a saturated subscriber.
func WithDropObserver(fn func(subID string)) Option {
	return func(b *Broadcaster) {
		b.onDrop = fn
	}
}

// New creates an empty broadcaster.
func New(logger *slog.Logger, opts ...Option) *Broadcaster {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Broadcaster{
		subs:   make(map[string]chan model.OrderCreated),
		buffer: DefaultSubscriberBuffer,
		logger: logger.With("component", "broadcaster"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Publish delivers ev to every currently attached subscriber, in publish
// order, without blocking. Subscribers whose buffer is full miss the event.
func (b *Broadcaster) Publish(ev model.OrderCreated) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	b.logger.Info("broadcasting order event",
		"order_id", ev.Order.ID,
		"subscribers", len(b.subs))

	for id, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			b.logger.Warn("subscriber buffer full, dropping event",
				"subscriber", id, "order_id", ev.Order.ID)
			if b.onDrop != nil {
				b.onDrop(id)
			}
		}
	}
}

// Subscribe attaches a new live subscriber receiving only events published
// after this call. The subscription detaches and its channel closes when
// ctx is cancelled, when Cancel is called, or when the broadcaster closes.
func (b *Broadcaster) Subscribe(ctx context.Context) *Subscription {
	id := uuid.NewString()
	ch := make(chan model.OrderCreated, b.buffer)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return &Subscription{ID: id, C: ch, cancel: func() {}}
	}
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			if _, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(ch)
			}
			b.mu.Unlock()
		})
	}
	stop := context.AfterFunc(ctx, cancel)

	return &Subscription{
		ID: id,
		C:  ch,
		cancel: func() {
			stop()
			cancel()
		},
	}
}

// Subscribers returns the number of currently attached subscribers.
func (b *Broadcaster) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close detaches every subscriber and rejects further publishes. Only used
// at process shutdown and in tests.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
