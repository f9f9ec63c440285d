package resolver

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/c360/shopgateway/downstream"
	"github.com/c360/shopgateway/errors"
	"github.com/c360/shopgateway/model"
	"github.com/c360/shopgateway/pkg/resilience"
)

// Nested field resolvers. Each relationship is fetched on demand when the
// query selects it, never eagerly with the parent.

// OrderProducts resolves the `products` field of an order by fanning out
// one fetch per referenced product id. Results keep the id-list order;
// products that fail to resolve (missing or exhausted retries) are dropped
// without failing the order.
func (r *Resolver) OrderProducts(ctx context.Context, order *model.Order) []model.Product {
	start := time.Now()

	if len(order.ProductIDs) == 0 {
		r.observe("order.products", readOutcome(nil), start)
		return []model.Product{}
	}

	slots := make([]*model.Product, len(order.ProductIDs))
	g, gctx := errgroup.WithContext(ctx)

	for i, id := range order.ProductIDs {
		g.Go(func() error {
			p, err := resilience.Execute(gctx, r.read(downstream.ServiceProduct, "GetByID"),
				func(c context.Context) (*model.Product, error) {
					resp, err := r.backends.Products.GetByID(c, id)
					if err != nil {
						return nil, err
					}
					prod := toProduct(resp)
					return &prod, nil
				})
			if err != nil {
				if !errors.IsNotFound(err) {
					r.logger.Warn("dropping unresolved product from order",
						"orderId", order.ID, "productId", id, "error", err)
				}
				return nil
			}
			slots[i] = p
			return nil
		})
	}
	_ = g.Wait()

	products := make([]model.Product, 0, len(slots))
	for _, p := range slots {
		if p != nil {
			products = append(products, *p)
		}
	}

	r.observe("order.products", readOutcome(nil), start)
	return products
}

// OrderPayment resolves the `payment` field of an order; nil when the order
// has no payment or the payment service is unavailable.
func (r *Resolver) OrderPayment(ctx context.Context, order *model.Order) *model.Payment {
	start := time.Now()

	payment, err := resilience.Execute(ctx, r.read(downstream.ServicePayment, "GetByOrderID"),
		func(c context.Context) (*model.Payment, error) {
			resp, err := r.backends.Payments.GetByOrderID(c, order.ID)
			if err != nil {
				return nil, err
			}
			p := toPayment(resp)
			return &p, nil
		})

	r.observe("order.payment", readOutcome(err), start)
	switch {
	case err == nil:
		return payment
	case errors.IsNotFound(err):
		return nil
	default:
		r.logger.Warn("payment fallback, returning null", "orderId", order.ID, "error", err)
		return nil
	}
}

// UserOrders resolves the `orders` field of a user
func (r *Resolver) UserOrders(ctx context.Context, user *model.User) []model.Order {
	start := time.Now()

	orders, err := resilience.Execute(ctx, r.read(downstream.ServiceOrder, "GetByUserID"),
		func(c context.Context) ([]model.Order, error) {
			resp, err := r.backends.Orders.GetByUserID(c, user.ID)
			if err != nil {
				return nil, err
			}
			return toOrders(resp), nil
		})

	r.observe("user.orders", readOutcome(err), start)
	if err != nil {
		r.logger.Warn("user orders fallback, returning empty list", "userId", user.ID, "error", err)
		return []model.Order{}
	}
	return orders
}
