package metric

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveOperation(t *testing.T) {
	m := New()

	m.ObserveOperation("order", OutcomeSuccess, time.Now())
	m.ObserveOperation("order", OutcomeSuccess, time.Now())
	m.ObserveOperation("order", OutcomeFallback, time.Now())

	assert.Equal(t, float64(2),
		testutil.ToFloat64(m.OperationsTotal.WithLabelValues("order", OutcomeSuccess)))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.OperationsTotal.WithLabelValues("order", OutcomeFallback)))
}

func TestSetBreakerState(t *testing.T) {
	m := New()

	m.SetBreakerState("product.GetByID", 1)
	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.BreakerState.WithLabelValues("product.GetByID")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.EventsPublished.Inc()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	m.Handler().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "shopgateway_events_published_total 1")
}
