package resolver

import (
	"context"
	"time"

	"github.com/c360/shopgateway/downstream"
	"github.com/c360/shopgateway/errors"
	"github.com/c360/shopgateway/model"
	"github.com/c360/shopgateway/pkg/cache"
	"github.com/c360/shopgateway/pkg/resilience"
)

// Root query resolvers. Reads never surface a downstream error: exhausted
// failures are logged and absorbed into the fallback value (empty list or
// nil), and a not-found get-by-id resolves to nil so the query engine
// renders a null field instead of aborting the response.

// Users resolves the `users` root query
func (r *Resolver) Users(ctx context.Context) []model.User {
	start := time.Now()

	compute := func(ctx context.Context) ([]model.User, error) {
		return resilience.Execute(ctx, r.read(downstream.ServiceUser, "GetAll"),
			func(c context.Context) ([]model.User, error) {
				resp, err := r.backends.Users.GetAll(c)
				if err != nil {
					return nil, err
				}
				return toUsers(resp), nil
			})
	}

	var users []model.User
	var err error
	if r.caches != nil {
		users, err = r.caches.Users.GetOrCompute(ctx, cache.Key("users", nil), compute)
	} else {
		users, err = compute(ctx)
	}

	r.observe("users", readOutcome(err), start)
	if err != nil {
		r.logger.Warn("users fallback, returning empty list", "error", err)
		return []model.User{}
	}
	return users
}

// User resolves the `user(id)` root query; nil means absent
func (r *Resolver) User(ctx context.Context, id int64) *model.User {
	start := time.Now()

	compute := func(ctx context.Context) (*model.User, error) {
		return resilience.Execute(ctx, r.read(downstream.ServiceUser, "GetByID"),
			func(c context.Context) (*model.User, error) {
				resp, err := r.backends.Users.GetByID(c, id)
				if err != nil {
					return nil, err
				}
				u := toUser(resp)
				return &u, nil
			})
	}

	var user *model.User
	var err error
	if r.caches != nil {
		user, err = r.caches.User.GetOrCompute(ctx, cache.Key("user", id), compute)
	} else {
		user, err = compute(ctx)
	}

	r.observe("user", readOutcome(err), start)
	switch {
	case err == nil:
		return user
	case errors.IsNotFound(err):
		return nil
	default:
		r.logger.Warn("user fallback, returning null", "id", id, "error", err)
		return nil
	}
}

// Products resolves the `products` root query
func (r *Resolver) Products(ctx context.Context) []model.Product {
	start := time.Now()

	compute := func(ctx context.Context) ([]model.Product, error) {
		return resilience.Execute(ctx, r.read(downstream.ServiceProduct, "GetAll"),
			func(c context.Context) ([]model.Product, error) {
				resp, err := r.backends.Products.GetAll(c)
				if err != nil {
					return nil, err
				}
				return toProducts(resp), nil
			})
	}

	var products []model.Product
	var err error
	if r.caches != nil {
		products, err = r.caches.Products.GetOrCompute(ctx, cache.Key("products", nil), compute)
	} else {
		products, err = compute(ctx)
	}

	r.observe("products", readOutcome(err), start)
	if err != nil {
		r.logger.Warn("products fallback, returning empty list", "error", err)
		return []model.Product{}
	}
	return products
}

// Product resolves the `product(id)` root query; nil means absent
func (r *Resolver) Product(ctx context.Context, id int64) *model.Product {
	start := time.Now()

	compute := func(ctx context.Context) (*model.Product, error) {
		return resilience.Execute(ctx, r.read(downstream.ServiceProduct, "GetByID"),
			func(c context.Context) (*model.Product, error) {
				resp, err := r.backends.Products.GetByID(c, id)
				if err != nil {
					return nil, err
				}
				p := toProduct(resp)
				return &p, nil
			})
	}

	var product *model.Product
	var err error
	if r.caches != nil {
		product, err = r.caches.Product.GetOrCompute(ctx, cache.Key("product", id), compute)
	} else {
		product, err = compute(ctx)
	}

	r.observe("product", readOutcome(err), start)
	switch {
	case err == nil:
		return product
	case errors.IsNotFound(err):
		return nil
	default:
		r.logger.Warn("product fallback, returning null", "id", id, "error", err)
		return nil
	}
}

// Orders resolves the `orders` root query. Order reads are uncached.
func (r *Resolver) Orders(ctx context.Context) []model.Order {
	start := time.Now()

	orders, err := resilience.Execute(ctx, r.read(downstream.ServiceOrder, "GetAll"),
		func(c context.Context) ([]model.Order, error) {
			resp, err := r.backends.Orders.GetAll(c)
			if err != nil {
				return nil, err
			}
			return toOrders(resp), nil
		})

	r.observe("orders", readOutcome(err), start)
	if err != nil {
		r.logger.Warn("orders fallback, returning empty list", "error", err)
		return []model.Order{}
	}
	return orders
}

// Order resolves the `order(id)` root query; nil means absent
func (r *Resolver) Order(ctx context.Context, id int64) *model.Order {
	start := time.Now()

	order, err := resilience.Execute(ctx, r.read(downstream.ServiceOrder, "GetByID"),
		func(c context.Context) (*model.Order, error) {
			resp, err := r.backends.Orders.GetByID(c, id)
			if err != nil {
				return nil, err
			}
			o := toOrder(resp)
			return &o, nil
		})

	r.observe("order", readOutcome(err), start)
	switch {
	case err == nil:
		return order
	case errors.IsNotFound(err):
		return nil
	default:
		r.logger.Warn("order fallback, returning null", "id", id, "error", err)
		return nil
	}
}
