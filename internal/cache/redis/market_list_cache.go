package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alanyoungcy/polysheet/internal/domain"
)

// marketListKey holds the JSON-serialized raw market list from the most
// recent successful fetch.
const marketListKey = "polysheet:markets"

// MarketListCache implements domain.MarketListCache on a single Redis key
// with a TTL, so back-to-back export runs can reuse one fetch.
type MarketListCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewMarketListCache creates a MarketListCache backed by the given Client.
func NewMarketListCache(c *Client, ttl time.Duration) *MarketListCache {
	return &MarketListCache{rdb: c.Underlying(), ttl: ttl}
}

// Get returns the cached market list. It returns domain.ErrNotFound when
// the key does not exist or has expired.
func (mc *MarketListCache) Get(ctx context.Context) ([]domain.RawMarket, error) {
	data, err := mc.rdb.Get(ctx, marketListKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("redis: get market list: %w", err)
	}

	var markets []domain.RawMarket
	if err := json.Unmarshal(data, &markets); err != nil {
		return nil, fmt.Errorf("redis: unmarshal market list: %w", err)
	}
	return markets, nil
}

// Set stores the market list with the configured TTL.
func (mc *MarketListCache) Set(ctx context.Context, markets []domain.RawMarket) error {
	data, err := json.Marshal(markets)
	if err != nil {
		return fmt.Errorf("redis: marshal market list: %w", err)
	}
	if err := mc.rdb.Set(ctx, marketListKey, data, mc.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set market list: %w", err)
	}
	return nil
}

// Invalidate removes the cached market list.
func (mc *MarketListCache) Invalidate(ctx context.Context) error {
	if err := mc.rdb.Del(ctx, marketListKey).Err(); err != nil {
		return fmt.Errorf("redis: invalidate market list: %w", err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.MarketListCache = (*MarketListCache)(nil)
