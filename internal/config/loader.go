package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies POLYSHEET_* environment variable overrides, and
// returns the final Config. A missing file is not an error when path is
// empty or explicit=false: the exporter is expected to run with no config
// file at all. The returned Config has NOT been validated; the caller should
// invoke Config.Validate() after Load.
func Load(path string, explicit bool) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			if !errors.Is(err, fs.ErrNotExist) || explicit {
				return nil, err
			}
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known POLYSHEET_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e.
// not empty). This lets operators inject secrets at deploy time without
// touching the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Gamma ──
	setStr(&cfg.Gamma.Host, "POLYSHEET_GAMMA_HOST")
	setInt(&cfg.Gamma.Limit, "POLYSHEET_GAMMA_LIMIT")
	setDuration(&cfg.Gamma.Timeout, "POLYSHEET_GAMMA_TIMEOUT")
	setStr(&cfg.Gamma.UserAgent, "POLYSHEET_GAMMA_USER_AGENT")

	// ── Export ──
	setStr(&cfg.Export.Output, "POLYSHEET_EXPORT_OUTPUT")
	setBool(&cfg.Export.IncludeMulti, "POLYSHEET_EXPORT_INCLUDE_MULTI")

	// ── Cache ──
	setBool(&cfg.Cache.Enabled, "POLYSHEET_CACHE_ENABLED")
	setStr(&cfg.Cache.Addr, "POLYSHEET_CACHE_ADDR")
	setStr(&cfg.Cache.Password, "POLYSHEET_CACHE_PASSWORD")
	setInt(&cfg.Cache.DB, "POLYSHEET_CACHE_DB")
	setInt(&cfg.Cache.PoolSize, "POLYSHEET_CACHE_POOL_SIZE")
	setInt(&cfg.Cache.MaxRetries, "POLYSHEET_CACHE_MAX_RETRIES")
	setBool(&cfg.Cache.TLSEnabled, "POLYSHEET_CACHE_TLS_ENABLED")
	setDuration(&cfg.Cache.TTL, "POLYSHEET_CACHE_TTL")

	// ── Archive ──
	setBool(&cfg.Archive.Enabled, "POLYSHEET_ARCHIVE_ENABLED")
	setStr(&cfg.Archive.Endpoint, "POLYSHEET_ARCHIVE_ENDPOINT")
	setStr(&cfg.Archive.Region, "POLYSHEET_ARCHIVE_REGION")
	setStr(&cfg.Archive.Bucket, "POLYSHEET_ARCHIVE_BUCKET")
	setStr(&cfg.Archive.AccessKey, "POLYSHEET_ARCHIVE_ACCESS_KEY")
	setStr(&cfg.Archive.SecretKey, "POLYSHEET_ARCHIVE_SECRET_KEY")
	setBool(&cfg.Archive.UseSSL, "POLYSHEET_ARCHIVE_USE_SSL")
	setBool(&cfg.Archive.ForcePathStyle, "POLYSHEET_ARCHIVE_FORCE_PATH_STYLE")
	setStr(&cfg.Archive.Prefix, "POLYSHEET_ARCHIVE_PREFIX")

	// ── Top-level ──
	setStr(&cfg.LogLevel, "POLYSHEET_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}
