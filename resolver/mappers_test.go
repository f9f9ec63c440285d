package resolver

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/shopgateway/downstream"
	"github.com/c360/shopgateway/model"
)

func fakeUserResponse(f *gofakeit.Faker) downstream.UserResponse {
	return downstream.UserResponse{
		ID:        int64(f.IntRange(1, 100000)),
		Username:  f.Username(),
		Email:     f.Email(),
		FullName:  f.Name(),
		CreatedAt: f.DateRange(time.Unix(0, 0), time.Now()).Format(time.RFC3339),
	}
}

func fakeOrderResponse(f *gofakeit.Faker) downstream.OrderResponse {
	ids := make([]int64, f.IntRange(0, 5))
	for i := range ids {
		ids[i] = int64(f.IntRange(1, 1000))
	}
	return downstream.OrderResponse{
		ID:          int64(f.IntRange(1, 100000)),
		UserID:      int64(f.IntRange(1, 100000)),
		Status:      f.RandomString([]string{"PENDING", "CONFIRMED", "SHIPPED", "DELIVERED", "CANCELLED"}),
		TotalAmount: decimal.NewFromFloat(f.Price(1, 10000)).Round(2),
		CreatedAt:   f.DateRange(time.Unix(0, 0), time.Now()).Format(time.RFC3339),
		ProductIDs:  ids,
	}
}

func TestUserMappingIsLossless(t *testing.T) {
	f := gofakeit.New(1)

	for i := 0; i < 50; i++ {
		resp := fakeUserResponse(f)
		u := toUser(resp)

		assert.Equal(t, resp.ID, u.ID)
		assert.Equal(t, resp.Username, u.Username)
		assert.Equal(t, resp.Email, u.Email)
		assert.Equal(t, resp.FullName, u.FullName)
		assert.Equal(t, resp.CreatedAt, u.CreatedAt.Format(time.RFC3339))
	}
}

func TestOrderMappingPreservesAmountAndIDs(t *testing.T) {
	f := gofakeit.New(2)

	for i := 0; i < 50; i++ {
		resp := fakeOrderResponse(f)
		o := toOrder(resp)

		assert.Equal(t, resp.ID, o.ID)
		assert.Equal(t, model.OrderStatus(resp.Status), o.Status)
		assert.True(t, o.TotalAmount.Equal(resp.TotalAmount), "amount must survive mapping exactly")
		assert.Equal(t, resp.ProductIDs, o.ProductIDs)
	}
}

func TestOrderMappingToleratesAbsentTimestamp(t *testing.T) {
	o := toOrder(downstream.OrderResponse{ID: 1, Status: "PENDING"})
	assert.True(t, o.CreatedAt.IsZero())

	o = toOrder(downstream.OrderResponse{ID: 2, Status: "PENDING", CreatedAt: "garbage"})
	assert.True(t, o.CreatedAt.IsZero())
}

func TestPaymentMapping(t *testing.T) {
	resp := downstream.PaymentResponse{
		ID: 500, OrderID: 100,
		Amount: decimal.RequireFromString("69.49"),
		Method: "CARD", Status: "COMPLETED",
		ProcessedAt: "2024-03-01T12:00:05Z",
	}
	p := toPayment(resp)
	require.Equal(t, int64(500), p.ID)
	assert.Equal(t, "69.49", p.Amount.String())
	assert.Equal(t, 2024, p.ProcessedAt.Year())
}
