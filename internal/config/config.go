// Package config holds server options resolved from the environment.
//
// Options are read once at startup. A .env file in the working directory is
// loaded best-effort first, so local setups can override without exporting
// variables; a missing .env is not an error.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Env variable names understood by the server.
const (
	EnvCacheSize       = "PLANFOLD_CACHE_SIZE"
	EnvHistoryDisabled = "PLANFOLD_HISTORY_DISABLED"
)

// DefaultCacheSize is the goal-file parse cache capacity.
const DefaultCacheSize = 256

// Options configures the planfold server.
type Options struct {
	// CacheSize is the number of parsed goal files kept in the extractor's
	// LRU cache. Zero or negative disables caching.
	CacheSize int

	// HistoryDisabled skips the sqlite migration-history store entirely.
	// Rollback then falls back to lexical backup selection.
	HistoryDisabled bool
}

// Load resolves Options from the environment, applying defaults.
func Load() Options {
	_ = godotenv.Load()

	opts := Options{CacheSize: DefaultCacheSize}

	if v := os.Getenv(EnvCacheSize); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			opts.CacheSize = n
		}
	}
	if v := os.Getenv(EnvHistoryDisabled); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			opts.HistoryDisabled = b
		}
	}
	return opts
}
