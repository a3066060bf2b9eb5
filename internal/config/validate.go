package config

import (
	"errors"
	"fmt"
	"strings"

	"reelwrap/internal/services"
)

// Validate ensures the configuration is usable. Every failure is tagged as a
// configuration error so callers halt before touching the network or cache.
func (c *Config) Validate() error {
	if err := c.validateTMDB(); err != nil {
		return fmt.Errorf("%w: %w", services.ErrConfiguration, err)
	}
	if err := c.validateCache(); err != nil {
		return fmt.Errorf("%w: %w", services.ErrConfiguration, err)
	}
	return nil
}

func (c *Config) validateTMDB() error {
	if c.TMDB.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = defaultConfigPath
		}
		return fmt.Errorf("tmdb.api_key is required. Set TMDB_API_KEY env var or edit %s (create with 'reelwrap config init')", defaultPath)
	}
	if c.TMDB.RequestDelayMS < 0 {
		return errors.New("tmdb.request_delay_ms must be >= 0")
	}
	if c.TMDB.TimeoutSeconds <= 0 {
		return errors.New("tmdb.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateCache() error {
	switch c.Cache.Backend {
	case BackendCSV, BackendSQLite:
	default:
		return fmt.Errorf("cache.backend: unsupported value %q (want %q or %q)", c.Cache.Backend, BackendCSV, BackendSQLite)
	}
	if strings.TrimSpace(c.Paths.CacheFile) == "" {
		return errors.New("paths.cache_file must be set")
	}
	return nil
}
