package downstream

import (
	"context"
	"fmt"
	"net/http"
)

// Backend service names, used for error attribution and breaker keys.
const (
	ServiceUser    = "user"
	ServiceProduct = "product"
	ServiceOrder   = "order"
	ServicePayment = "payment"
)

// UserClient talks to the user service.
type UserClient struct {
	c *client
}

// NewUserClient creates a user-service client
func NewUserClient(cfg Config) (*UserClient, error) {
	c, err := newClient(ServiceUser, cfg)
	if err != nil {
		return nil, err
	}
	return &UserClient{c: c}, nil
}

// GetAll fetches every user
func (u *UserClient) GetAll(ctx context.Context) ([]UserResponse, error) {
	var out []UserResponse
	if err := u.c.do(ctx, "GetAll", http.MethodGet, "/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches one user by id
func (u *UserClient) GetByID(ctx context.Context, id int64) (UserResponse, error) {
	var out UserResponse
	if err := u.c.do(ctx, "GetByID", http.MethodGet, fmt.Sprintf("/users/%d", id), nil, &out); err != nil {
		return UserResponse{}, err
	}
	return out, nil
}

// ProductClient talks to the product service.
type ProductClient struct {
	c *client
}

// NewProductClient creates a product-service client
func NewProductClient(cfg Config) (*ProductClient, error) {
	c, err := newClient(ServiceProduct, cfg)
	if err != nil {
		return nil, err
	}
	return &ProductClient{c: c}, nil
}

// GetAll fetches every product
func (p *ProductClient) GetAll(ctx context.Context) ([]ProductResponse, error) {
	var out []ProductResponse
	if err := p.c.do(ctx, "GetAll", http.MethodGet, "/products", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches one product by id
func (p *ProductClient) GetByID(ctx context.Context, id int64) (ProductResponse, error) {
	var out ProductResponse
	if err := p.c.do(ctx, "GetByID", http.MethodGet, fmt.Sprintf("/products/%d", id), nil, &out); err != nil {
		return ProductResponse{}, err
	}
	return out, nil
}

// OrderClient talks to the order service.
type OrderClient struct {
	c *client
}

// NewOrderClient creates an order-service client
func NewOrderClient(cfg Config) (*OrderClient, error) {
	c, err := newClient(ServiceOrder, cfg)
	if err != nil {
		return nil, err
	}
	return &OrderClient{c: c}, nil
}

// GetAll fetches every order
func (o *OrderClient) GetAll(ctx context.Context) ([]OrderResponse, error) {
	var out []OrderResponse
	if err := o.c.do(ctx, "GetAll", http.MethodGet, "/orders", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches one order by id
func (o *OrderClient) GetByID(ctx context.Context, id int64) (OrderResponse, error) {
	var out OrderResponse
	if err := o.c.do(ctx, "GetByID", http.MethodGet, fmt.Sprintf("/orders/%d", id), nil, &out); err != nil {
		return OrderResponse{}, err
	}
	return out, nil
}

// GetByUserID fetches the orders placed by one user
func (o *OrderClient) GetByUserID(ctx context.Context, userID int64) ([]OrderResponse, error) {
	var out []OrderResponse
	if err := o.c.do(ctx, "GetByUserID", http.MethodGet, fmt.Sprintf("/orders/user/%d", userID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create persists a new order. Callers must not retry this automatically.
func (o *OrderClient) Create(ctx context.Context, req CreateOrderRequest) (OrderResponse, error) {
	var out OrderResponse
	if err := o.c.do(ctx, "Create", http.MethodPost, "/orders", req, &out); err != nil {
		return OrderResponse{}, err
	}
	return out, nil
}

// PaymentClient talks to the payment service.
type PaymentClient struct {
	c *client
}

// NewPaymentClient creates a payment-service client
func NewPaymentClient(cfg Config) (*PaymentClient, error) {
	c, err := newClient(ServicePayment, cfg)
	if err != nil {
		return nil, err
	}
	return &PaymentClient{c: c}, nil
}

// GetByOrderID fetches the payment for one order. At most one payment
// exists per order; a missing payment is ErrNotFound.
func (p *PaymentClient) GetByOrderID(ctx context.Context, orderID int64) (PaymentResponse, error) {
	var out PaymentResponse
	if err := p.c.do(ctx, "GetByOrderID", http.MethodGet, fmt.Sprintf("/payments/order/%d", orderID), nil, &out); err != nil {
		return PaymentResponse{}, err
	}
	return out, nil
}
