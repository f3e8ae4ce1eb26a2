// Package app sequences one export run: fetch (or cache hit) → build rows →
// write workbook → optional archive upload.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alanyoungcy/polysheet/internal/config"
	"github.com/alanyoungcy/polysheet/internal/domain"
	"github.com/alanyoungcy/polysheet/internal/export"
)

// xlsxContentType is the MIME type for xlsx workbooks, used on archive
// uploads.
const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// App owns one export run. It wires dependencies from the configuration,
// runs the pipeline, and prints the final confirmation.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
	stdout io.Writer

	// deps is normally built by Wire during Run; tests preset it.
	deps    *Dependencies
	closers []func()
}

// New creates a new App from the given configuration and logger.
func New(cfg *config.Config, logger *slog.Logger) *App {
	return &App{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "app")),
		stdout: os.Stdout,
	}
}

// Run executes one export. On success it prints the output path and row
// count to stdout and returns nil. Fetch and write failures come back as
// *domain.FetchError and *domain.WriteError respectively, which the caller
// maps to exit codes via ExitCode.
func (a *App) Run(ctx context.Context) error {
	runID := uuid.NewString()
	logger := a.logger.With(slog.String("run_id", runID))

	if a.deps == nil {
		deps, cleanup, err := Wire(ctx, a.cfg)
		if err != nil {
			return fmt.Errorf("app: wire dependencies: %w", err)
		}
		a.deps = deps
		a.closers = append(a.closers, cleanup)
	}

	markets, fromCache, err := a.loadMarkets(ctx, logger)
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "markets loaded",
		slog.Int("count", len(markets)),
		slog.Bool("from_cache", fromCache),
	)

	rows := export.BuildRows(markets, a.cfg.Export.IncludeMulti)
	if len(rows) == 0 {
		logger.WarnContext(ctx, "no matching markets to export",
			slog.Bool("include_multi", a.cfg.Export.IncludeMulti),
		)
	}

	output := a.cfg.Export.Output
	if err := export.WriteWorkbook(rows, output, time.Now().UTC()); err != nil {
		return err
	}
	logger.InfoContext(ctx, "workbook written",
		slog.String("path", output),
		slog.Int("rows", len(rows)),
	)

	if a.deps.Archive != nil {
		// Archive failures never fail the run: the local workbook is
		// already on disk.
		if err := a.archive(ctx, output, runID); err != nil {
			logger.WarnContext(ctx, "archive upload failed",
				slog.String("error", err.Error()),
			)
		}
	}

	fmt.Fprintf(a.stdout, "Готово. Записано: %s (строк: %d)\n", output, len(rows))
	return nil
}

// loadMarkets returns the raw market list, from the cache when one is wired
// and warm, otherwise from the Gamma API. Cache errors degrade to a live
// fetch; a fresh fetch is written back to the cache best-effort.
func (a *App) loadMarkets(ctx context.Context, logger *slog.Logger) ([]domain.RawMarket, bool, error) {
	if a.deps.Cache != nil {
		markets, err := a.deps.Cache.Get(ctx)
		switch {
		case err == nil:
			return markets, true, nil
		case errors.Is(err, domain.ErrNotFound):
			// Cold cache, fall through to fetch.
		default:
			logger.WarnContext(ctx, "cache read failed, fetching live",
				slog.String("error", err.Error()),
			)
		}
	}

	markets, err := a.deps.Fetcher.FetchMarkets(ctx)
	if err != nil {
		return nil, false, err
	}

	if a.deps.Cache != nil {
		if err := a.deps.Cache.Set(ctx, markets); err != nil {
			logger.WarnContext(ctx, "cache write failed",
				slog.String("error", err.Error()),
			)
		}
	}
	return markets, false, nil
}

// archive uploads the written workbook to object storage under a dated,
// run-scoped key.
func (a *App) archive(ctx context.Context, output, runID string) error {
	f, err := os.Open(output)
	if err != nil {
		return fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	key := archiveKey(a.cfg.Archive.Prefix, output, runID, time.Now().UTC())
	if err := a.deps.Archive.Put(ctx, key, f, xlsxContentType); err != nil {
		return err
	}
	a.logger.InfoContext(ctx, "workbook archived", slog.String("key", key))
	return nil
}

// archiveKey builds the object key for an archived workbook, e.g.
// "exports/2026/08/polymarket_markets-3f2a....xlsx".
func archiveKey(prefix, output, runID string, now time.Time) string {
	base := filepath.Base(output)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if ext == "" {
		ext = ".xlsx"
	}

	key := fmt.Sprintf("%s/%02d/%s-%s%s", now.Format("2006"), now.Month(), stem, runID, ext)
	if prefix != "" {
		key = strings.TrimSuffix(prefix, "/") + "/" + key
	}
	return key
}

// Close tears down all resources in reverse registration order. It is safe
// to call multiple times; subsequent calls are no-ops.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// Exit codes for the CLI, per failure class.
const (
	ExitOK    = 0
	ExitUsage = 1
	ExitFetch = 2
	ExitWrite = 3
)

// ExitCode maps a Run error to the process exit status: 2 for fetch
// failures, 3 for write failures, 1 for anything else.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var fetchErr *domain.FetchError
	if errors.As(err, &fetchErr) {
		return ExitFetch
	}
	var writeErr *domain.WriteError
	if errors.As(err, &writeErr) {
		return ExitWrite
	}
	return ExitUsage
}
