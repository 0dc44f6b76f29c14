// ReadNext - Book Recommendation Service
// Copyright 2026 ReadNext Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/readnext/readnext

// Package config provides layered configuration for ReadNext using Koanf v2.
//
// Sources are merged in precedence order:
//  1. Built-in defaults
//  2. Optional YAML config file (config.yaml, or READNEXT_CONFIG_PATH)
//  3. Environment variables prefixed with READNEXT_ (highest priority)
//
// Environment variable names map to nested keys by lowercasing and
// replacing "__" with ".": READNEXT_SERVER__ADDR -> server.addr.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the service.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Data      DataConfig      `koanf:"data"`
	Recommend RecommendConfig `koanf:"recommend"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Addr is the listen address, host:port.
	Addr string `koanf:"addr"`

	// ReadTimeout and WriteTimeout bound request processing.
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// ShutdownTimeout is the grace period for in-flight requests on stop.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// CORSOrigins lists allowed CORS origins. Empty means CORS is
	// effectively closed; "*" allows any origin.
	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimitRequests per RateLimitWindow, keyed by client IP.
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// DataConfig holds the rating and catalog source settings.
type DataConfig struct {
	// RatingsPath is the CSV dump of rating records (User-ID;ISBN;Rating).
	RatingsPath string `koanf:"ratings_path"`

	// BooksPath is the CSV dump of the item catalog (ISBN;Title;...).
	BooksPath string `koanf:"books_path"`

	// Delimiter is the CSV field separator, a single character.
	Delimiter string `koanf:"delimiter"`

	// MinUserRatings drops users with fewer ratings before indexing.
	// 0 disables pruning.
	MinUserRatings int `koanf:"min_user_ratings"`

	// MinItemRatings drops items with fewer ratings before indexing.
	// 0 disables pruning.
	MinItemRatings int `koanf:"min_item_ratings"`

	// RefreshInterval is how often the snapshot is rebuilt from the
	// source files. 0 disables periodic refresh.
	RefreshInterval time.Duration `koanf:"refresh_interval"`

	// RebuildTimeout bounds a single snapshot build.
	RebuildTimeout time.Duration `koanf:"rebuild_timeout"`
}

// RecommendConfig holds recommendation defaults.
type RecommendConfig struct {
	// K is the default neighborhood size.
	K int `koanf:"k"`

	// TopN is the default result list length.
	TopN int `koanf:"top_n"`

	// Workers is the parallelism of the batch similarity computation.
	Workers int `koanf:"workers"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first and then overridden by file and environment sources.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:              ":8000",
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			CORSOrigins:       []string{},
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Data: DataConfig{
			RatingsPath:     "Ratings.csv",
			BooksPath:       "Books.csv",
			Delimiter:       ";",
			MinUserRatings:  0,
			MinItemRatings:  0,
			RefreshInterval: 0,
			RebuildTimeout:  10 * time.Minute,
		},
		Recommend: RecommendConfig{
			K:       10,
			TopN:    5,
			Workers: 4,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Validate checks the configuration for values that cannot work at runtime.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if !c.Server.RateLimitDisabled && c.Server.RateLimitRequests <= 0 {
		return fmt.Errorf("server.rate_limit_requests must be positive (got %d)", c.Server.RateLimitRequests)
	}
	if !c.Server.RateLimitDisabled && c.Server.RateLimitWindow <= 0 {
		return fmt.Errorf("server.rate_limit_window must be positive (got %s)", c.Server.RateLimitWindow)
	}

	if c.Data.RatingsPath == "" {
		return fmt.Errorf("data.ratings_path must not be empty")
	}
	if c.Data.BooksPath == "" {
		return fmt.Errorf("data.books_path must not be empty")
	}
	if len([]rune(c.Data.Delimiter)) != 1 {
		return fmt.Errorf("data.delimiter must be a single character (got %q)", c.Data.Delimiter)
	}
	if c.Data.MinUserRatings < 0 || c.Data.MinItemRatings < 0 {
		return fmt.Errorf("data pruning thresholds must not be negative")
	}
	if c.Data.RebuildTimeout <= 0 {
		return fmt.Errorf("data.rebuild_timeout must be positive (got %s)", c.Data.RebuildTimeout)
	}

	// K and TopN of 0 are valid: they produce empty recommendation lists.
	if c.Recommend.K < 0 {
		return fmt.Errorf("recommend.k must not be negative (got %d)", c.Recommend.K)
	}
	if c.Recommend.TopN < 0 {
		return fmt.Errorf("recommend.top_n must not be negative (got %d)", c.Recommend.TopN)
	}
	if c.Recommend.Workers <= 0 {
		return fmt.Errorf("recommend.workers must be positive (got %d)", c.Recommend.Workers)
	}

	return nil
}
