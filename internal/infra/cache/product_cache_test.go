package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"shop-service/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func sampleProducts() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "Mug", Price: decimal.RequireFromString("9.50"), Category: "kitchen", Stock: 3},
		{ID: 2, Name: "Lamp", Price: decimal.RequireFromString("24.00"), Category: "home", Stock: 0},
	}
}

func TestProductCache_GetOrLoad(t *testing.T) {
	mr, client := setupTestRedis(t)
	c := NewProductCache(client, time.Minute)
	ctx := context.Background()

	var calls int32
	load := func(context.Context) ([]domain.Product, error) {
		atomic.AddInt32(&calls, 1)
		return sampleProducts(), nil
	}

	first, err := c.GetOrLoad(ctx, load)
	require.NoError(t, err)
	assert.Len(t, first, 2)
	assert.True(t, mr.Exists(productListKey))

	second, err := c.GetOrLoad(ctx, load)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, "Mug", second[0].Name)
	assert.True(t, decimal.RequireFromString("9.5").Equal(second[0].Price))
}

func TestProductCache_Expiry(t *testing.T) {
	mr, client := setupTestRedis(t)
	c := NewProductCache(client, 10*time.Second)
	ctx := context.Background()

	var calls int32
	load := func(context.Context) ([]domain.Product, error) {
		atomic.AddInt32(&calls, 1)
		return sampleProducts(), nil
	}

	_, err := c.GetOrLoad(ctx, load)
	require.NoError(t, err)

	mr.FastForward(11 * time.Second)

	_, err = c.GetOrLoad(ctx, load)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestProductCache_Invalidate(t *testing.T) {
	mr, client := setupTestRedis(t)
	c := NewProductCache(client, time.Minute)
	ctx := context.Background()

	_, err := c.GetOrLoad(ctx, func(context.Context) ([]domain.Product, error) { return sampleProducts(), nil })
	require.NoError(t, err)

	require.NoError(t, c.Invalidate(ctx))
	assert.False(t, mr.Exists(productListKey))
	gen, err := mr.Get(productGenKey)
	require.NoError(t, err)
	assert.Equal(t, "1", gen)
}

// stockSource simulates the products table; the first load blocks until
// released so an invalidation can land while it is in flight.
type stockSource struct {
	stock   atomic.Int32
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
}

func newStockSource(stock int32) *stockSource {
	s := &stockSource{started: make(chan struct{}), release: make(chan struct{})}
	s.stock.Store(stock)
	return s
}

func (s *stockSource) load(context.Context) ([]domain.Product, error) {
	snapshot := []domain.Product{{ID: 1, Name: "Mug", Price: decimal.RequireFromString("9.50"), Stock: int(s.stock.Load())}}
	if s.calls.Add(1) == 1 {
		close(s.started)
		<-s.release
	}
	return snapshot, nil
}

func TestProductCache_InvalidateDuringFill(t *testing.T) {
	_, client := setupTestRedis(t)
	c := NewProductCache(client, time.Minute)
	ctx := context.Background()
	src := newStockSource(5)

	done := make(chan []domain.Product, 1)
	go func() {
		products, err := c.GetOrLoad(ctx, src.load)
		assert.NoError(t, err)
		done <- products
	}()
	<-src.started

	src.stock.Store(4)
	require.NoError(t, c.Invalidate(ctx))
	close(src.release)
	assert.Equal(t, 5, (<-done)[0].Stock)

	products, err := c.GetOrLoad(ctx, src.load)
	require.NoError(t, err)
	assert.Equal(t, 4, products[0].Stock)
	assert.Equal(t, int32(2), src.calls.Load())

	cached, err := c.GetOrLoad(ctx, src.load)
	require.NoError(t, err)
	assert.Equal(t, 4, cached[0].Stock)
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestProductCache_CallerAfterInvalidateSkipsOldFill(t *testing.T) {
	_, client := setupTestRedis(t)
	c := NewProductCache(client, time.Minute)
	ctx := context.Background()
	src := newStockSource(5)

	done := make(chan []domain.Product, 1)
	go func() {
		products, err := c.GetOrLoad(ctx, src.load)
		assert.NoError(t, err)
		done <- products
	}()
	<-src.started

	src.stock.Store(4)
	require.NoError(t, c.Invalidate(ctx))

	fresh, err := c.GetOrLoad(ctx, src.load)
	require.NoError(t, err)
	assert.Equal(t, 4, fresh[0].Stock)

	close(src.release)
	assert.Equal(t, 5, (<-done)[0].Stock)

	cached, err := c.GetOrLoad(ctx, src.load)
	require.NoError(t, err)
	assert.Equal(t, 4, cached[0].Stock)
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestProductCache_LoadError(t *testing.T) {
	mr, client := setupTestRedis(t)
	c := NewProductCache(client, time.Minute)

	_, err := c.GetOrLoad(context.Background(), func(context.Context) ([]domain.Product, error) {
		return nil, errors.New("database error")
	})
	assert.EqualError(t, err, "database error")
	assert.False(t, mr.Exists(productListKey))
}

func TestProductCache_RedisDown(t *testing.T) {
	mr, client := setupTestRedis(t)
	c := NewProductCache(client, time.Minute)
	mr.Close()

	products, err := c.GetOrLoad(context.Background(), func(context.Context) ([]domain.Product, error) {
		return sampleProducts(), nil
	})
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestProductCache_ConcurrentMisses(t *testing.T) {
	_, client := setupTestRedis(t)
	c := NewProductCache(client, time.Minute)

	var calls int32
	release := make(chan struct{})
	load := func(context.Context) ([]domain.Product, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return sampleProducts(), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			products, err := c.GetOrLoad(context.Background(), load)
			assert.NoError(t, err)
			assert.Len(t, products, 2)
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt32(&calls), int32(10))
	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(1))
}
