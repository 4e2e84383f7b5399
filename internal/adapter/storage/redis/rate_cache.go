package redis

import (
	"context"
	"fmt"
	"time"

	"trading-gateway/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// RateCache implements ports.RateCache using Redis. Prices are stored as
// decimal strings so they survive the round trip without float loss.
type RateCache struct {
	client *goredis.Client
	prefix string
}

// NewRateCache creates a new Redis-backed last-known-good price cache.
func NewRateCache(client *goredis.Client) *RateCache {
	return &RateCache{
		client: client,
		prefix: "rate:",
	}
}

// Get returns the cached price and whether one was present.
func (c *RateCache) Get(ctx context.Context, asset string) (decimal.Decimal, bool, error) {
	val, err := c.client.Get(ctx, c.prefix+domain.NormalizeAssetCode(asset)).Result()
	if err != nil {
		if err == goredis.Nil {
			return decimal.Zero, false, nil
		}
		return decimal.Zero, false, fmt.Errorf("redis rate get: %w", err)
	}
	price, err := decimal.NewFromString(val)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("parsing cached rate: %w", err)
	}
	return price, true, nil
}

// Set stores a price for ttl.
func (c *RateCache) Set(ctx context.Context, asset string, price decimal.Decimal, ttl time.Duration) error {
	key := c.prefix + domain.NormalizeAssetCode(asset)
	if err := c.client.Set(ctx, key, price.String(), ttl).Err(); err != nil {
		return fmt.Errorf("redis rate set: %w", err)
	}
	return nil
}
