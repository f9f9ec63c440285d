package gateway

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/shopgateway/downstream"
	"github.com/c360/shopgateway/event"
	"github.com/c360/shopgateway/model"
	"github.com/c360/shopgateway/pkg/retry"
	"github.com/c360/shopgateway/resolver"
)

// fakeBackend serves canned JSON per path and records the identity header
// seen on each request.
type fakeBackend struct {
	*httptest.Server

	mu         sync.Mutex
	identities []string
}

func (fb *fakeBackend) seenIdentities() []string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]string(nil), fb.identities...)
}

func newFakeBackend(t *testing.T, routes map[string]interface{}) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{}
	fb.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		fb.identities = append(fb.identities, r.Header.Get(downstream.IdentityHeader))
		fb.mu.Unlock()

		if r.Method == http.MethodPost && r.URL.Path == "/orders" {
			var req downstream.CreateOrderRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(downstream.OrderResponse{
				ID: 42, UserID: req.UserID, Status: "PENDING",
				TotalAmount: req.TotalAmount,
				CreatedAt:   "2024-04-01T09:00:00Z",
				ProductIDs:  req.ProductIDs,
			})
			return
		}

		body, ok := routes[r.URL.Path]
		if !ok {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(fb.Close)
	return fb
}

type gatewayFixture struct {
	server      *Server
	broadcaster *event.Broadcaster
	backend     *fakeBackend
}

func newGatewayFixture(t *testing.T) *gatewayFixture {
	t.Helper()

	backend := newFakeBackend(t, map[string]interface{}{
		"/users": []downstream.UserResponse{
			{ID: 1, Username: "alice", Email: "alice@example.com", CreatedAt: "2024-01-15T10:30:00Z"},
		},
		"/users/1": downstream.UserResponse{
			ID: 1, Username: "alice", Email: "alice@example.com", CreatedAt: "2024-01-15T10:30:00Z",
		},
		"/products/10": downstream.ProductResponse{ID: 10, Name: "widget"},
		"/orders/100": downstream.OrderResponse{
			ID: 100, UserID: 1, Status: "CONFIRMED", CreatedAt: "2024-03-01T12:00:00Z",
			ProductIDs: []int64{10},
		},
		"/orders/user/1": []downstream.OrderResponse{
			{ID: 100, UserID: 1, Status: "CONFIRMED", ProductIDs: []int64{10}},
		},
		"/payments/order/100": downstream.PaymentResponse{
			ID: 500, OrderID: 100, Method: "CARD", Status: "COMPLETED",
		},
	})

	cfg := downstream.Config{BaseURL: backend.URL, Timeout: time.Second}
	users, err := downstream.NewUserClient(cfg)
	require.NoError(t, err)
	products, err := downstream.NewProductClient(cfg)
	require.NoError(t, err)
	orders, err := downstream.NewOrderClient(cfg)
	require.NoError(t, err)
	payments, err := downstream.NewPaymentClient(cfg)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, nil))
	b := event.New(logger)
	t.Cleanup(b.Close)

	res := resolver.New(resolver.Backends{
		Users: users, Products: products, Orders: orders, Payments: payments,
	}, b,
		resolver.WithLogger(logger),
		resolver.WithRetry(retry.Fixed(3, time.Millisecond)),
		resolver.WithCallTimeout(time.Second))

	gwCfg := DefaultConfig()
	gwCfg.UserServiceURL = backend.URL
	gwCfg.ProductServiceURL = backend.URL
	gwCfg.OrderServiceURL = backend.URL
	gwCfg.PaymentServiceURL = backend.URL
	gwCfg.EnablePlayground = false

	srv, err := NewServer(gwCfg, res, b, nil, logger)
	require.NoError(t, err)
	require.NoError(t, srv.Setup())

	return &gatewayFixture{server: srv, broadcaster: b, backend: backend}
}

type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func (f *gatewayFixture) query(t *testing.T, body string, header http.Header) queryResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/query", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)

	var resp queryResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestQueryUsersWithoutNestedFields(t *testing.T) {
	f := newGatewayFixture(t)

	resp := f.query(t, `{"operation":"users"}`, nil)
	require.Empty(t, resp.Errors)

	users, ok := resp.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, users, 1)

	u := users[0].(map[string]interface{})
	assert.Equal(t, "alice", u["username"])
	// orders were not selected, so they were neither fetched nor rendered
	assert.NotContains(t, u, "orders")
	assert.Len(t, f.backend.seenIdentities(), 1)
}

func TestQueryOrderResolvesOnlySelectedFields(t *testing.T) {
	f := newGatewayFixture(t)

	resp := f.query(t, `{"operation":"order","id":100,"fields":["products"]}`, nil)
	require.Empty(t, resp.Errors)

	o := resp.Data.(map[string]interface{})
	products := o["products"].([]interface{})
	require.Len(t, products, 1)
	assert.Equal(t, "widget", products[0].(map[string]interface{})["name"])
	// payment was not selected
	assert.NotContains(t, o, "payment")

	// root order + one product fetch, no payment fetch
	assert.Len(t, f.backend.seenIdentities(), 2)
}

func TestQueryUserNestedOrderProducts(t *testing.T) {
	f := newGatewayFixture(t)

	resp := f.query(t, `{"operation":"user","id":1,"fields":["orders","orders.products"]}`, nil)
	require.Empty(t, resp.Errors)

	u := resp.Data.(map[string]interface{})
	orders := u["orders"].([]interface{})
	require.Len(t, orders, 1)
	products := orders[0].(map[string]interface{})["products"].([]interface{})
	require.Len(t, products, 1)
}

func TestQueryMissingUserIsNullWithoutErrors(t *testing.T) {
	f := newGatewayFixture(t)

	resp := f.query(t, `{"operation":"user","id":999}`, nil)
	assert.Empty(t, resp.Errors)
	assert.Nil(t, resp.Data)
}

func TestQueryUnknownOperationIsBadRequest(t *testing.T) {
	f := newGatewayFixture(t)

	resp := f.query(t, `{"operation":"bogus"}`, nil)
	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0].Message, "unknown operation")
}

func TestIdentityHeaderPropagatesDownstream(t *testing.T) {
	f := newGatewayFixture(t)

	h := http.Header{}
	h.Set(downstream.IdentityHeader, "alice")
	resp := f.query(t, `{"operation":"users"}`, h)
	require.Empty(t, resp.Errors)

	ids := f.backend.seenIdentities()
	require.Len(t, ids, 1)
	assert.Equal(t, "alice", ids[0])
}

func TestCreateOrderDispatch(t *testing.T) {
	f := newGatewayFixture(t)

	resp := f.query(t, `{"operation":"createOrder","input":{"userId":1,"totalAmount":"99.50","productIds":[10]}}`, nil)
	require.Empty(t, resp.Errors)

	o := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(42), o["id"])
	assert.Equal(t, "PENDING", o["status"])
	assert.Equal(t, "99.50", o["totalAmount"])
}

func TestCreateOrderWithoutInputFails(t *testing.T) {
	f := newGatewayFixture(t)

	resp := f.query(t, `{"operation":"createOrder"}`, nil)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "BAD_REQUEST", resp.Errors[0].Extensions["code"])
}

func TestHealthReflectsLifecycle(t *testing.T) {
	f := newGatewayFixture(t)

	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	// not started yet
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSubscriptionStreamsCreatedOrders(t *testing.T) {
	f := newGatewayFixture(t)

	ts := httptest.NewServer(f.server.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/subscriptions"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		defer resp.Body.Close()
	}
	defer conn.Close()

	// give the subscriber loop a moment to attach
	require.Eventually(t, func() bool {
		return f.broadcaster.Subscribers() == 1
	}, time.Second, 10*time.Millisecond)

	f.broadcaster.Publish(model.OrderCreated{
		Order:      model.Order{ID: 42, Status: model.OrderPending},
		OccurredAt: time.Now().UTC(),
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev model.OrderCreated
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, int64(42), ev.Order.ID)
	assert.Equal(t, model.OrderPending, ev.Order.Status)
}
