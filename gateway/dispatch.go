package gateway

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/c360/shopgateway/model"
	"github.com/c360/shopgateway/resolver"
)

// queryRequest is the JSON query envelope. Operation selects the root;
// Fields names the nested relationships to resolve. Unselected
// relationships are never fetched.
type queryRequest struct {
	Operation string      `json:"operation"`
	ID        *int64      `json:"id,omitempty"`
	Fields    []string    `json:"fields,omitempty"`
	Input     *orderInput `json:"input,omitempty"`
}

// orderInput is the createOrder payload
type orderInput struct {
	UserID      int64           `json:"userId"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	ProductIDs  []int64         `json:"productIds"`
}

// queryResponse is the GraphQL-style response envelope
type queryResponse struct {
	Data   interface{}   `json:"data"`
	Errors gqlerror.List `json:"errors,omitempty"`
}

// Nested views: the wire shape of an entity plus its selected
// relationships. A nil relationship slice means the field was not selected
// and is omitted from the JSON.

type userView struct {
	model.User
	Orders []orderView `json:"orders,omitempty"`
}

type orderView struct {
	model.Order
	Products []model.Product `json:"products,omitempty"`
	Payment  *model.Payment  `json:"payment,omitempty"`
}

// selection is the set of requested nested fields
type selection map[string]bool

func newSelection(fields []string) selection {
	s := make(selection, len(fields))
	for _, f := range fields {
		s[f] = true
	}
	return s
}

// dispatch routes one query envelope to its resolver and assembles the
// selected view.
func (s *Server) dispatch(ctx context.Context, req queryRequest) (interface{}, *gqlerror.Error) {
	sel := newSelection(req.Fields)

	switch req.Operation {
	case "users":
		return s.userViews(ctx, s.resolver.Users(ctx), sel), nil

	case "user":
		if req.ID == nil {
			return nil, badRequest("user query requires an id", req.Operation)
		}
		u := s.resolver.User(ctx, *req.ID)
		if u == nil {
			return nil, nil
		}
		views := s.userViews(ctx, []model.User{*u}, sel)
		return views[0], nil

	case "products":
		return s.resolver.Products(ctx), nil

	case "product":
		if req.ID == nil {
			return nil, badRequest("product query requires an id", req.Operation)
		}
		p := s.resolver.Product(ctx, *req.ID)
		if p == nil {
			return nil, nil
		}
		return p, nil

	case "orders":
		return s.orderViews(ctx, s.resolver.Orders(ctx), sel), nil

	case "order":
		if req.ID == nil {
			return nil, badRequest("order query requires an id", req.Operation)
		}
		o := s.resolver.Order(ctx, *req.ID)
		if o == nil {
			return nil, nil
		}
		views := s.orderViews(ctx, []model.Order{*o}, sel)
		return views[0], nil

	case "createOrder":
		if req.Input == nil {
			return nil, badRequest("createOrder requires an input", req.Operation)
		}
		order, err := s.resolver.CreateOrder(ctx, resolver.CreateOrderInput{
			UserID:      req.Input.UserID,
			TotalAmount: req.Input.TotalAmount,
			ProductIDs:  req.Input.ProductIDs,
		})
		if err != nil {
			return nil, mapError(err, req.Operation)
		}
		views := s.orderViews(ctx, []model.Order{*order}, sel)
		return views[0], nil

	default:
		return nil, badRequest(fmt.Sprintf("unknown operation %q", req.Operation), req.Operation)
	}
}

// userViews resolves the selected relationships for each user. The orders
// field accepts nested selections using dotted names ("orders.products").
func (s *Server) userViews(ctx context.Context, users []model.User, sel selection) []userView {
	views := make([]userView, len(users))
	nested := sel.narrow("orders")

	for i := range users {
		views[i] = userView{User: users[i]}
		if sel["orders"] {
			orders := s.resolver.UserOrders(ctx, &users[i])
			views[i].Orders = s.orderViews(ctx, orders, nested)
		}
	}
	return views
}

// orderViews resolves the selected relationships for each order
func (s *Server) orderViews(ctx context.Context, orders []model.Order, sel selection) []orderView {
	views := make([]orderView, len(orders))
	for i := range orders {
		views[i] = orderView{Order: orders[i]}
		if sel["products"] {
			views[i].Products = s.resolver.OrderProducts(ctx, &orders[i])
		}
		if sel["payment"] {
			views[i].Payment = s.resolver.OrderPayment(ctx, &orders[i])
		}
	}
	return views
}

// narrow returns the sub-selection under prefix: "orders.products" becomes
// "products" when narrowing by "orders".
func (s selection) narrow(prefix string) selection {
	out := make(selection)
	p := prefix + "."
	for f := range s {
		if len(f) > len(p) && f[:len(p)] == p {
			out[f[len(p):]] = true
		}
	}
	return out
}
