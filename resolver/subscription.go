package resolver

import (
	"context"

	"github.com/c360/shopgateway/event"
)

// OrderCreated attaches a subscriber to the order event stream. The
// subscription delivers only events published after attachment and detaches
// itself when ctx ends. Callers that finish early should Cancel explicitly.
func (r *Resolver) OrderCreated(ctx context.Context) *event.Subscription {
	sub := r.broadcaster.Subscribe(ctx)
	if r.metrics != nil {
		r.metrics.Subscribers.Set(float64(r.broadcaster.Subscribers()))
	}
	return sub
}
