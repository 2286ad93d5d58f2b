package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shop-service/internal/domain"

	"github.com/go-redis/redis/v8"
	"golang.org/x/sync/singleflight"
)

const (
	productListKey = "products:all"

	// productGenKey is bumped on every invalidation. A fill only stores its
	// listing while the generation it started under is still current.
	productGenKey = "products:gen"
)

// setIfGen stores the listing only when the generation is unchanged.
var setIfGen = redis.NewScript(`
local gen = redis.call('GET', KEYS[2]) or '0'
if gen ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[1], ARGV[2])
end
return 1
`)

// ProductCache keeps the full product listing in Redis. Concurrent misses
// within one generation share one load through singleflight.
type ProductCache struct {
	rdb   *redis.Client
	ttl   time.Duration
	group singleflight.Group
}

func NewProductCache(rdb *redis.Client, ttl time.Duration) *ProductCache {
	return &ProductCache{rdb: rdb, ttl: ttl}
}

// GetOrLoad returns the cached listing, calling load on a miss and storing its
// result. Redis errors degrade to calling load directly.
func (c *ProductCache) GetOrLoad(ctx context.Context, load func(context.Context) ([]domain.Product, error)) ([]domain.Product, error) {
	if products, ok := c.get(ctx); ok {
		return products, nil
	}

	gen, err := c.generation(ctx)
	if err != nil {
		return load(ctx)
	}

	// callers arriving after an invalidation never join a fill from an older generation
	v, err, _ := c.group.Do(productListKey+":"+gen, func() (any, error) {
		products, err := load(ctx)
		if err != nil {
			return nil, err
		}
		c.set(ctx, gen, products)
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Product), nil
}

// Invalidate drops the listing and starts a new generation, so fills that
// loaded before the mutation cannot write their result back.
func (c *ProductCache) Invalidate(ctx context.Context) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, productGenKey)
		pipe.Del(ctx, productListKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("cache: invalidate products: %w", err)
	}
	return nil
}

func (c *ProductCache) generation(ctx context.Context) (string, error) {
	gen, err := c.rdb.Get(ctx, productGenKey).Result()
	if errors.Is(err, redis.Nil) {
		return "0", nil
	}
	return gen, err
}

func (c *ProductCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *ProductCache) get(ctx context.Context) ([]domain.Product, bool) {
	b, err := c.rdb.Get(ctx, productListKey).Bytes()
	if err != nil {
		return nil, false
	}
	var products []domain.Product
	if err := json.Unmarshal(b, &products); err != nil {
		return nil, false
	}
	return products, true
}

func (c *ProductCache) set(ctx context.Context, gen string, products []domain.Product) {
	data, err := json.Marshal(products)
	if err != nil {
		return
	}
	setIfGen.Run(ctx, c.rdb, []string{productListKey, productGenKey}, gen, data, c.ttl.Milliseconds())
}
