package resolver

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/c360/shopgateway/downstream"
	"github.com/c360/shopgateway/errors"
	"github.com/c360/shopgateway/metric"
	"github.com/c360/shopgateway/model"
	"github.com/c360/shopgateway/pkg/resilience"
)

// CreateOrderInput carries the caller-supplied fields of a new order
type CreateOrderInput struct {
	UserID      int64
	TotalAmount decimal.Decimal
	ProductIDs  []int64
}

// CreateOrder places an order against the order service. The call is never
// retried: a timed-out create may have committed downstream, and replaying
// it would risk a duplicate order. Failures surface to the caller instead
// of degrading to a fallback. On success the confirmed order is broadcast
// to subscribers after the response is in hand.
func (r *Resolver) CreateOrder(ctx context.Context, input CreateOrderInput) (*model.Order, error) {
	start := time.Now()

	if input.UserID <= 0 {
		return nil, errors.WrapInvalid(
			fmt.Errorf("userId %d: %w", input.UserID, errors.ErrInvalidConfig),
			"resolver", "CreateOrder", "input validation")
	}

	resp, err := resilience.Execute(ctx, r.write(downstream.ServiceOrder, "Create"),
		func(c context.Context) (downstream.OrderResponse, error) {
			return r.backends.Orders.Create(c, downstream.CreateOrderRequest{
				UserID:      input.UserID,
				TotalAmount: input.TotalAmount,
				ProductIDs:  input.ProductIDs,
			})
		})

	if err != nil {
		r.observe("createOrder", metric.OutcomeError, start)
		r.logger.Error("order creation failed", "userId", input.UserID, "error", err)
		return nil, errors.Wrap(err, "resolver", "CreateOrder", "order creation")
	}

	order := toOrder(resp)

	if r.broadcaster != nil {
		r.broadcaster.Publish(model.OrderCreated{
			Order:      order,
			OccurredAt: time.Now().UTC(),
		})
		if r.metrics != nil {
			r.metrics.EventsPublished.Inc()
		}
	}

	r.observe("createOrder", metric.OutcomeSuccess, start)
	return &order, nil
}
