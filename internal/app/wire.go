package app

import (
	"context"
	"fmt"
	"log/slog"

	s3blob "github.com/alanyoungcy/polysheet/internal/blob/s3"
	"github.com/alanyoungcy/polysheet/internal/cache/redis"
	"github.com/alanyoungcy/polysheet/internal/config"
	"github.com/alanyoungcy/polysheet/internal/domain"
	"github.com/alanyoungcy/polysheet/internal/platform/polymarket"
)

// MarketFetcher is the source of raw market records. Satisfied by
// *polymarket.Client; tests substitute a stub.
type MarketFetcher interface {
	FetchMarkets(ctx context.Context) ([]domain.RawMarket, error)
}

// Dependencies bundles everything a run needs. Cache and Archive stay nil
// when the corresponding feature is disabled in the configuration.
type Dependencies struct {
	Fetcher MarketFetcher
	Cache   domain.MarketListCache
	Archive domain.BlobWriter
}

// Wire constructs the concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that
// should be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config) (*Dependencies, func(), error) {
	logger := slog.Default()

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{
		Fetcher: polymarket.NewClient(polymarket.ClientConfig{
			Host:      cfg.Gamma.Host,
			Limit:     cfg.Gamma.Limit,
			Timeout:   cfg.Gamma.Timeout.Duration,
			UserAgent: cfg.Gamma.UserAgent,
		}, logger),
	}

	// --- Redis market-list cache (optional) ---
	if cfg.Cache.Enabled {
		rc, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Cache.Addr,
			Password:   cfg.Cache.Password,
			DB:         cfg.Cache.DB,
			PoolSize:   cfg.Cache.PoolSize,
			MaxRetries: cfg.Cache.MaxRetries,
			TLSEnabled: cfg.Cache.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = rc.Close() })
		deps.Cache = redis.NewMarketListCache(rc, cfg.Cache.TTL.Duration)
	}

	// --- S3 workbook archive (optional) ---
	if cfg.Archive.Enabled {
		sc, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.Archive.Endpoint,
			Region:         cfg.Archive.Region,
			Bucket:         cfg.Archive.Bucket,
			AccessKey:      cfg.Archive.AccessKey,
			SecretKey:      cfg.Archive.SecretKey,
			UseSSL:         cfg.Archive.UseSSL,
			ForcePathStyle: cfg.Archive.ForcePathStyle,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: s3: %w", err)
		}
		deps.Archive = s3blob.NewWriter(sc)
	}

	return deps, cleanup, nil
}
