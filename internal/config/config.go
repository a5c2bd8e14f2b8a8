// Simplex Analytics - Engagement Sync and Analytics Backend
// Copyright 2026 Zion C. (zioncodeliba)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zioncodeliba/simplex-analytics-backend

// Package config provides layered configuration for the Simplex analytics
// backend: built-in defaults, an optional YAML file, and environment
// variables, in increasing order of precedence.
//
// Sync cadences (hourly incremental, 12-hourly full) are deliberately fixed
// constants in internal/sync, not configuration.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the root configuration for the service.
type Config struct {
	Mongo     MongoConfig     `koanf:"mongo"`
	ClientAPI ClientAPIConfig `koanf:"client_api"`
	Analytics AnalyticsConfig `koanf:"analytics"`
	Sync      SyncConfig      `koanf:"sync"`
	Server    ServerConfig    `koanf:"server"`
	API       APIConfig       `koanf:"api"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// MongoConfig holds document store connection settings.
type MongoConfig struct {
	// URL is the MongoDB connection string.
	URL string `koanf:"url" validate:"required"`

	// Database is the database name holding all collections.
	Database string `koanf:"database" validate:"required"`

	// ConnectTimeout bounds the initial connection attempt.
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
}

// ClientAPIConfig holds settings for the product/auth API the entity sync
// pulls users, projects and reals from.
type ClientAPIConfig struct {
	// BaseURL is the client API root, e.g. https://api.example.com
	BaseURL string `koanf:"base_url" validate:"required,url"`
}

// AnalyticsConfig holds settings for the event-capture API.
type AnalyticsConfig struct {
	// BaseURL is the analytics API root for event queries.
	BaseURL string `koanf:"base_url" validate:"required,url"`

	// APIKey is the bearer credential for the analytics API.
	APIKey string `koanf:"api_key" validate:"required"`
}

// SyncConfig holds sync subject settings. Schedules, page sizes and retry
// caps are fixed constants in internal/sync.
type SyncConfig struct {
	// TargetUserID is the external identifier of the tracked account whose
	// credential drives the entity sync. Sync aborts without it.
	TargetUserID string `koanf:"target_user_id" validate:"required"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port" validate:"gte=1,lte=65535"`

	// Timeout is the per-request read/write timeout.
	Timeout time.Duration `koanf:"timeout"`

	// ShutdownGrace bounds graceful drain on shutdown.
	ShutdownGrace time.Duration `koanf:"shutdown_grace"`
}

// APIConfig holds read-layer settings.
type APIConfig struct {
	DefaultPageSize int           `koanf:"default_page_size" validate:"gte=1"`
	MaxPageSize     int           `koanf:"max_page_size" validate:"gte=1"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
	CORSOrigins     []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// defaultConfig returns a Config with all sensible default values.
// These are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Mongo: MongoConfig{
			URL:            "",
			Database:       "simplex_analytics",
			ConnectTimeout: 10 * time.Second,
		},
		ClientAPI: ClientAPIConfig{
			BaseURL: "",
		},
		Analytics: AnalyticsConfig{
			BaseURL: "",
			APIKey:  "",
		},
		Sync: SyncConfig{
			TargetUserID: "",
		},
		Server: ServerConfig{
			Host:          "0.0.0.0",
			Port:          8000,
			Timeout:       30 * time.Second,
			ShutdownGrace: 10 * time.Second,
		},
		API: APIConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
			RateLimitReqs:   100,
			RateLimitWindow: 15 * time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate checks the configuration for required values and constraints.
// A missing tracked-account id or store URL is a configuration error: the
// process refuses to start rather than attempting partial syncs.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return fmt.Errorf("invalid configuration struct: %w", err)
		}
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}
