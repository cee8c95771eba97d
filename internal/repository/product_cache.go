package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/ecommerce-backend/internal/model"
)

// featuredKey is the Redis key holding the JSON-encoded featured list.
const featuredKey = "featured_products"

// ProductCache keeps the featured products list in Redis so the public
// storefront endpoint does not hit MongoDB on every page load.  The cache
// is rewritten whenever an admin toggles a product's featured flag.
type ProductCache struct {
	RDB *redis.Client
	TTL time.Duration // zero means no expiry; the writer invalidates explicitly
}

func NewProductCache(rdb *redis.Client) *ProductCache { return &ProductCache{RDB: rdb} }

// Get returns the cached featured list or ErrCacheMiss.
func (c *ProductCache) Get(ctx context.Context) ([]model.Product, error) {
	raw, err := c.RDB.Get(ctx, featuredKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	var out []model.Product
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		// A corrupt entry behaves like a miss so the caller repopulates it.
		return nil, ErrCacheMiss
	}
	return out, nil
}

// Set stores the featured list as JSON.
func (c *ProductCache) Set(ctx context.Context, products []model.Product) error {
	raw, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return c.RDB.Set(ctx, featuredKey, raw, c.TTL).Err()
}
