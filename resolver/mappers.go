package resolver

import (
	"github.com/samber/lo"

	"github.com/c360/shopgateway/downstream"
	"github.com/c360/shopgateway/model"
	"github.com/c360/shopgateway/pkg/timestamp"
)

// DTO -> domain model translation. Entities are constructed fresh per
// response and never mutated afterwards.

func toUser(r downstream.UserResponse) model.User {
	return model.User{
		ID:        r.ID,
		Username:  r.Username,
		Email:     r.Email,
		FullName:  r.FullName,
		CreatedAt: timestamp.Parse(r.CreatedAt),
	}
}

func toUsers(rs []downstream.UserResponse) []model.User {
	return lo.Map(rs, func(r downstream.UserResponse, _ int) model.User {
		return toUser(r)
	})
}

func toProduct(r downstream.ProductResponse) model.Product {
	return model.Product{
		ID:            r.ID,
		Name:          r.Name,
		Description:   r.Description,
		Price:         r.Price,
		StockQuantity: r.StockQuantity,
		Category:      r.Category,
	}
}

func toProducts(rs []downstream.ProductResponse) []model.Product {
	return lo.Map(rs, func(r downstream.ProductResponse, _ int) model.Product {
		return toProduct(r)
	})
}

func toOrder(r downstream.OrderResponse) model.Order {
	return model.Order{
		ID:          r.ID,
		UserID:      r.UserID,
		Status:      model.OrderStatus(r.Status),
		TotalAmount: r.TotalAmount,
		CreatedAt:   timestamp.Parse(r.CreatedAt),
		ProductIDs:  r.ProductIDs,
	}
}

func toOrders(rs []downstream.OrderResponse) []model.Order {
	return lo.Map(rs, func(r downstream.OrderResponse, _ int) model.Order {
		return toOrder(r)
	})
}

func toPayment(r downstream.PaymentResponse) model.Payment {
	return model.Payment{
		ID:          r.ID,
		OrderID:     r.OrderID,
		Amount:      r.Amount,
		Method:      r.Method,
		Status:      r.Status,
		ProcessedAt: timestamp.Parse(r.ProcessedAt),
	}
}
