// Package redis implements the shared price cache. When enabled it becomes
// the first source in the oracle chain, letting concurrent deployments share
// freshly resolved prices.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/clawdbot-glitch003/github-memecoin-trader/internal/domain"
)

const keyPrefix = "memetrader:price:"

// PriceCache stores resolved prices with a short TTL so a stale pool read
// never outlives one cycle.
type PriceCache struct {
	client *redis.Client
	ttl    time.Duration
}

// Options configures the cache connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// NewPriceCache connects to redis and verifies the connection.
func NewPriceCache(ctx context.Context, opts Options) (*PriceCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", opts.Addr, err)
	}
	return &PriceCache{client: client, ttl: opts.TTL}, nil
}

// SetPrice stores the price under the normalized token address.
func (c *PriceCache) SetPrice(ctx context.Context, tokenAddress string, price float64) error {
	key := keyPrefix + domain.NormalizeAddress(tokenAddress)
	if err := c.client.Set(ctx, key, price, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set price: %w", err)
	}
	return nil
}

// GetPrice returns ErrNotFound when the key is missing or expired.
func (c *PriceCache) GetPrice(ctx context.Context, tokenAddress string) (float64, error) {
	key := keyPrefix + domain.NormalizeAddress(tokenAddress)
	raw, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, domain.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("redis: get price: %w", err)
	}
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("redis: parse cached price %q: %w", raw, err)
	}
	return price, nil
}

// Close releases the connection.
func (c *PriceCache) Close() error {
	return c.client.Close()
}

var _ domain.PriceCache = (*PriceCache)(nil)
