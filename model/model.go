// Package model defines the gateway's domain types.
//
// All entities are constructed fresh from a backend response, are never
// mutated after construction, and do not outlive the request (or the single
// subscription event) that produced them. Monetary amounts are exact
// decimals end to end; a binary float never touches an amount field.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the closed set of order states owned by the order backend.
type OrderStatus string

// Order status values
const (
	OrderPending   OrderStatus = "PENDING"
	OrderConfirmed OrderStatus = "CONFIRMED"
	OrderShipped   OrderStatus = "SHIPPED"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// User is a gateway view of a user-service record.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// Order is a gateway view of an order-service record.
//
// ProductIDs is the wire-level reference list. The resolved product list and
// payment are lazy relationships: they are resolved on demand by field
// resolvers, never eagerly, and never cached on the Order itself. A resolved
// product list may legitimately be shorter than ProductIDs when individual
// ids were unresolvable.
type Order struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"userId"`
	Status      OrderStatus     `json:"status"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	CreatedAt   time.Time       `json:"createdAt,omitzero"`
	ProductIDs  []int64         `json:"productIds"`
}

// Product is a gateway view of a product-service record.
type Product struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity"`
	Category      string          `json:"category"`
}

// Payment is a gateway view of a payment-service record. At most one
// payment exists per order; the owning backend enforces this.
type Payment struct {
	ID          int64           `json:"id"`
	OrderID     int64           `json:"orderId"`
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method"`
	Status      string          `json:"status"`
	ProcessedAt time.Time       `json:"processedAt,omitzero"`
}

// OrderCreated is the immutable snapshot broadcast to subscribers when a
// mutation creates an order.
type OrderCreated struct {
	Order      Order     `json:"order"`
	OccurredAt time.Time `json:"occurredAt"`
}
