package domain

import "context"

// MarketListCache stores the most recently fetched raw market list so
// consecutive export runs inside the TTL window can skip the network.
type MarketListCache interface {
	// Get returns the cached list, or ErrNotFound when the cache is cold.
	Get(ctx context.Context) ([]RawMarket, error)
	Set(ctx context.Context, markets []RawMarket) error
	Invalidate(ctx context.Context) error
}
