package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, ttl time.Duration) *TTL[string] {
	t.Helper()
	c, err := New[string](ttl)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCache_BasicOperations(t *testing.T) {
	c := newTestCache(t, time.Minute)

	_, ok := c.Get("k")
	assert.False(t, ok)

	require.NoError(t, c.Set("k", "v"))
	got, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", got)
	assert.Equal(t, 1, c.Size())

	assert.True(t, c.Delete("k"))
	assert.False(t, c.Delete("k"))
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestCache_RejectsEmptyKey(t *testing.T) {
	c := newTestCache(t, time.Minute)
	assert.Error(t, c.Set("", "v"))
}

func TestCache_Expiry(t *testing.T) {
	c := newTestCache(t, 30*time.Millisecond)

	require.NoError(t, c.Set("k", "v"))
	_, ok := c.Get("k")
	require.True(t, ok)

	time.Sleep(50 * time.Millisecond)
	_, ok = c.Get("k")
	assert.False(t, ok, "expired entry must be a miss")
}

func TestGetOrCompute_LiveEntrySkipsCompute(t *testing.T) {
	c := newTestCache(t, time.Minute)
	ctx := context.Background()

	calls := 0
	compute := func(context.Context) (string, error) {
		calls++
		return "computed", nil
	}

	v1, err := c.GetOrCompute(ctx, "k", compute)
	require.NoError(t, err)
	v2, err := c.GetOrCompute(ctx, "k", compute)
	require.NoError(t, err)

	assert.Equal(t, "computed", v1)
	assert.Equal(t, "computed", v2)
	assert.Equal(t, 1, calls, "second call within TTL must not recompute")
}

func TestGetOrCompute_RecomputesAfterExpiry(t *testing.T) {
	c := newTestCache(t, 30*time.Millisecond)
	ctx := context.Background()

	calls := 0
	compute := func(context.Context) (string, error) {
		calls++
		return "v", nil
	}

	_, err := c.GetOrCompute(ctx, "k", compute)
	require.NoError(t, err)
	_, err = c.GetOrCompute(ctx, "k", compute)
	require.NoError(t, err)
	require.Equal(t, 1, calls)

	time.Sleep(50 * time.Millisecond)
	_, err = c.GetOrCompute(ctx, "k", compute)
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "expired entry must trigger a second backend call")
}

func TestGetOrCompute_FailureNotCached(t *testing.T) {
	c := newTestCache(t, time.Minute)
	ctx := context.Background()

	boom := errors.New("backend down")
	calls := 0

	_, err := c.GetOrCompute(ctx, "k", func(context.Context) (string, error) {
		calls++
		return "", boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Size(), "failed computation must not populate the cache")

	// Next call computes again
	v, err := c.GetOrCompute(ctx, "k", func(context.Context) (string, error) {
		calls++
		return "recovered", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "recovered", v)
	assert.Equal(t, 2, calls)
}

func TestCache_JanitorEvictsExpired(t *testing.T) {
	c, err := New[string](20*time.Millisecond, WithCleanupInterval(10*time.Millisecond))
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	require.NoError(t, c.Set("k", "v"))
	assert.Eventually(t, func() bool { return c.Size() == 0 },
		500*time.Millisecond, 10*time.Millisecond)
	assert.GreaterOrEqual(t, c.Stats().Evictions(), int64(1))
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := newTestCache(t, time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, _ = c.GetOrCompute(ctx, Key("product", int64(j%5)), func(context.Context) (string, error) {
					return "v", nil
				})
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, c.Size())
}

func TestCache_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New[string](time.Minute, WithMetrics(reg, "user-cache"))
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	require.NoError(t, c.Set("k", "v"))
	_, _ = c.Get("k")
	_, _ = c.Get("missing")

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)

	// Duplicate registration for the same prefix must fail
	_, err = New[string](time.Minute, WithMetrics(reg, "user-cache"))
	assert.Error(t, err)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "products", Key("products", nil))
	assert.Equal(t, "product:7", Key("product", int64(7)))
}
