package event

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/c360/shopgateway/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func orderEvent(id int64) model.OrderCreated {
	return model.OrderCreated{
		Order: model.Order{
			ID:          id,
			UserID:      1,
			Status:      model.OrderPending,
			TotalAmount: decimal.RequireFromString("99.50"),
			ProductIDs:  []int64{1, 5},
		},
		OccurredAt: time.Now(),
	}
}

func TestBroadcaster_DeliversInPublishOrder(t *testing.T) {
	b := New(nil)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub := b.Subscribe(ctx)

	b.Publish(orderEvent(1))
	b.Publish(orderEvent(2))
	b.Publish(orderEvent(3))

	for want := int64(1); want <= 3; want++ {
		select {
		case got := <-sub.C:
			assert.Equal(t, want, got.Order.ID)
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for event %d", want)
		}
	}
}

func TestBroadcaster_LateSubscriberMissesPastEvents(t *testing.T) {
	b := New(nil)
	defer b.Close()

	b.Publish(orderEvent(1))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub := b.Subscribe(ctx)

	b.Publish(orderEvent(2))

	select {
	case got := <-sub.C:
		assert.Equal(t, int64(2), got.Order.ID, "late subscriber must never observe earlier events")
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}

	select {
	case ev := <-sub.C:
		t.Fatalf("unexpected extra event %d", ev.Order.ID)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBroadcaster_MultipleSubscribers(t *testing.T) {
	b := New(nil)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	subA := b.Subscribe(ctx)
	subB := b.Subscribe(ctx)
	require.Equal(t, 2, b.Subscribers())

	b.Publish(orderEvent(7))

	for _, sub := range []*Subscription{subA, subB} {
		select {
		case got := <-sub.C:
			assert.Equal(t, int64(7), got.Order.ID)
		case <-time.After(time.Second):
			t.Fatal("timed out")
		}
	}
}

func TestBroadcaster_PublisherNeverBlocks(t *testing.T) {
	var droppedMu sync.Mutex
	dropped := 0
	b := New(nil,
		WithSubscriberBuffer(1),
		WithDropObserver(func(string) {
			droppedMu.Lock()
			dropped++
			droppedMu.Unlock()
		}))
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub := b.Subscribe(ctx)

	// Nobody reads sub.C; publishes must still complete promptly
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			b.Publish(orderEvent(int64(i)))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}

	droppedMu.Lock()
	assert.Equal(t, 9, dropped, "buffer of 1 keeps one event, drops the rest")
	droppedMu.Unlock()
	_ = sub
}

func TestBroadcaster_ContextCancellationDetaches(t *testing.T) {
	b := New(nil)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	sub := b.Subscribe(ctx)
	require.Equal(t, 1, b.Subscribers())

	cancel()

	assert.Eventually(t, func() bool { return b.Subscribers() == 0 },
		time.Second, 5*time.Millisecond)

	// Channel closes
	select {
	case _, ok := <-sub.C:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel not closed after cancellation")
	}

	// Publishing after detach is harmless
	b.Publish(orderEvent(1))
}

func TestBroadcaster_CancelIsIdempotent(t *testing.T) {
	b := New(nil)
	defer b.Close()

	sub := b.Subscribe(context.Background())
	sub.Cancel()
	sub.Cancel()
	assert.Equal(t, 0, b.Subscribers())
}

func TestBroadcaster_CloseRejectsFurtherActivity(t *testing.T) {
	b := New(nil)

	sub := b.Subscribe(context.Background())
	b.Close()
	b.Close()

	_, ok := <-sub.C
	assert.False(t, ok)

	// Subscribe after close returns a closed subscription
	late := b.Subscribe(context.Background())
	_, ok = <-late.C
	assert.False(t, ok)

	b.Publish(orderEvent(1))
}

// capturePublisher records forwarded messages
type capturePublisher struct {
	mu   sync.Mutex
	msgs []struct {
		subject string
		data    []byte
	}
	err error
}

func (p *capturePublisher) Publish(subject string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, struct {
		subject string
		data    []byte
	}{subject, data})
	return nil
}

func (p *capturePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.msgs)
}

func TestBridge_ForwardsSnapshots(t *testing.T) {
	b := New(nil)
	defer b.Close()

	pub := &capturePublisher{}
	bridge := NewBridge(b, pub, "", nil)
	defer bridge.Close()

	b.Publish(orderEvent(42))

	require.Eventually(t, func() bool { return pub.count() == 1 },
		time.Second, 5*time.Millisecond)

	pub.mu.Lock()
	defer pub.mu.Unlock()
	assert.Equal(t, DefaultSubject, pub.msgs[0].subject)

	var ev model.OrderCreated
	require.NoError(t, json.Unmarshal(pub.msgs[0].data, &ev))
	assert.Equal(t, int64(42), ev.Order.ID)
	assert.True(t, ev.Order.TotalAmount.Equal(decimal.RequireFromString("99.50")))
}

func TestBridge_PublishFailureDoesNotStopForwarding(t *testing.T) {
	b := New(nil)
	defer b.Close()

	pub := &capturePublisher{err: stderrors.New("nats down")}
	bridge := NewBridge(b, pub, "orders.test", nil)
	defer bridge.Close()

	b.Publish(orderEvent(1))

	// Recovery: clear the failure and publish again
	time.Sleep(20 * time.Millisecond)
	pub.mu.Lock()
	pub.err = nil
	pub.mu.Unlock()

	b.Publish(orderEvent(2))
	require.Eventually(t, func() bool { return pub.count() == 1 },
		time.Second, 5*time.Millisecond)
}
