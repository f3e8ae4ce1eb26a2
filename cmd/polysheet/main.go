// Command polysheet fetches active markets from the Polymarket Gamma API and
// exports them as a two-sheet xlsx workbook. It loads configuration, applies
// CLI overrides, runs one export, and maps failures to exit codes: 2 when
// every Gamma endpoint fails, 3 when the workbook cannot be written.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alanyoungcy/polysheet/internal/app"
	"github.com/alanyoungcy/polysheet/internal/config"
)

const defaultConfigPath = "polysheet.toml"

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	var output string
	flag.StringVar(&output, "output", "", "path to the output xlsx file")
	flag.StringVar(&output, "o", "", "path to the output xlsx file (shorthand)")
	includeMulti := flag.Bool("include-multi", false, "include markets with more than two outcomes (keeps the first two)")
	flag.Parse()

	// Diagnostics go to stderr; stdout carries only the final confirmation.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// A missing config file is only an error when the operator pointed at
	// one explicitly.
	explicit := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			explicit = true
		}
	})

	cfg, err := config.Load(*configPath, explicit)
	if err != nil {
		logger.Error("failed to load config",
			slog.String("path", *configPath),
			slog.String("error", err.Error()),
		)
		return app.ExitUsage
	}

	// CLI flags take precedence over file and environment.
	if output != "" {
		cfg.Export.Output = output
	}
	if *includeMulti {
		cfg.Export.IncludeMulti = true
	}

	// Re-level the logger from config.
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		return app.ExitUsage
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application := app.New(cfg, logger)
	defer application.Close()

	if err := application.Run(ctx); err != nil {
		logger.Error("export failed", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return app.ExitCode(err)
	}
	return app.ExitOK
}
