// Package config defines the configuration for the market exporter and
// provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by POLYSHEET_* environment
// variables; CLI flags take final precedence over both.
type Config struct {
	Gamma    GammaConfig   `toml:"gamma"`
	Export   ExportConfig  `toml:"export"`
	Cache    CacheConfig   `toml:"cache"`
	Archive  ArchiveConfig `toml:"archive"`
	LogLevel string        `toml:"log_level"`
}

// GammaConfig holds Gamma API endpoint parameters.
type GammaConfig struct {
	// Host is the Gamma API root, e.g. "https://gamma-api.polymarket.com".
	Host      string   `toml:"host"`
	Limit     int      `toml:"limit"`
	Timeout   duration `toml:"timeout"`
	UserAgent string   `toml:"user_agent"`
}

// ExportConfig holds workbook output parameters.
type ExportConfig struct {
	Output       string `toml:"output"`
	IncludeMulti bool   `toml:"include_multi"`
}

// CacheConfig holds Redis parameters for the optional market-list cache.
// The cache is off by default; every run then hits the API directly.
type CacheConfig struct {
	Enabled    bool     `toml:"enabled"`
	Addr       string   `toml:"addr"`
	Password   string   `toml:"password"`
	DB         int      `toml:"db"`
	PoolSize   int      `toml:"pool_size"`
	MaxRetries int      `toml:"max_retries"`
	TLSEnabled bool     `toml:"tls_enabled"`
	TTL        duration `toml:"ttl"`
}

// ArchiveConfig holds S3-compatible object storage parameters for the
// optional workbook archive. Off by default.
type ArchiveConfig struct {
	Enabled        bool   `toml:"enabled"`
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"`
	ForcePathStyle bool   `toml:"force_path_style"`
	Prefix         string `toml:"prefix"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "20s", "5m").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "20s" or "5m".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with the default values. These match
// the values in config.example.toml and reproduce the stock export behavior:
// no cache, no archive, binary markets only.
func Defaults() Config {
	return Config{
		Gamma: GammaConfig{
			Host:      "https://gamma-api.polymarket.com",
			Limit:     1000,
			Timeout:   duration{20 * time.Second},
			UserAgent: "Mozilla/5.0 (compatible; PolysheetExporter/1.0)",
		},
		Export: ExportConfig{
			Output:       "polymarket_markets.xlsx",
			IncludeMulti: false,
		},
		Cache: CacheConfig{
			Enabled:    false,
			Addr:       "localhost:6379",
			DB:         0,
			PoolSize:   10,
			MaxRetries: 3,
			TLSEnabled: false,
			TTL:        duration{5 * time.Minute},
		},
		Archive: ArchiveConfig{
			Enabled:        false,
			Endpoint:       "",
			Region:         "us-east-1",
			Bucket:         "",
			UseSSL:         true,
			ForcePathStyle: false,
			Prefix:         "exports",
		},
		LogLevel: "info",
	}
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and returns
// a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Gamma
	if c.Gamma.Host == "" {
		errs = append(errs, "gamma: host must not be empty")
	}
	if c.Gamma.Limit < 1 {
		errs = append(errs, fmt.Sprintf("gamma: limit must be >= 1, got %d", c.Gamma.Limit))
	}
	if c.Gamma.Timeout.Duration <= 0 {
		errs = append(errs, "gamma: timeout must be positive")
	}

	// Export
	if strings.TrimSpace(c.Export.Output) == "" {
		errs = append(errs, "export: output must not be empty")
	}

	// Cache
	if c.Cache.Enabled {
		if c.Cache.Addr == "" {
			errs = append(errs, "cache: addr must not be empty when enabled")
		}
		if c.Cache.PoolSize < 1 {
			errs = append(errs, "cache: pool_size must be >= 1")
		}
		if c.Cache.TTL.Duration <= 0 {
			errs = append(errs, "cache: ttl must be positive when enabled")
		}
	}

	// Archive
	if c.Archive.Enabled {
		if c.Archive.Bucket == "" {
			errs = append(errs, "archive: bucket must not be empty when enabled")
		}
		if c.Archive.Region == "" {
			errs = append(errs, "archive: region must not be empty when enabled")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
