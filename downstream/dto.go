package downstream

import "github.com/shopspring/decimal"

// DTOs matching the exact JSON shape of each backend's contract. They
// decouple the gateway's domain model from the downstream REST responses.

// UserResponse is the user-service record shape.
type UserResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FullName  string `json:"fullName"`
	CreatedAt string `json:"createdAt"`
}

// ProductResponse is the product-service record shape.
type ProductResponse struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity"`
	Category      string          `json:"category"`
}

// OrderResponse is the order-service record shape.
type OrderResponse struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"userId"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	CreatedAt   string          `json:"createdAt"`
	ProductIDs  []int64         `json:"productIds"`
}

// PaymentResponse is the payment-service record shape.
type PaymentResponse struct {
	ID          int64           `json:"id"`
	OrderID     int64           `json:"orderId"`
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method"`
	Status      string          `json:"status"`
	ProcessedAt string          `json:"processedAt"`
}

// CreateOrderRequest is the order-service create payload.
type CreateOrderRequest struct {
	UserID      int64           `json:"userId"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	ProductIDs  []int64         `json:"productIds"`
}
