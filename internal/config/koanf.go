// Simplex Analytics - Engagement Sync and Analytics Backend
// Copyright 2026 Zion C. (zioncodeliba)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zioncodeliba/simplex-analytics-backend

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/simplex-analytics/config.yaml",
	"/etc/simplex-analytics/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Load loads configuration using koanf v2 with layered sources:
//  1. Defaults: built-in sensible defaults
//  2. Config file: optional YAML file (if present)
//  3. Environment variables: override any setting
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envMappings maps flat environment variable names to koanf config paths.
// Names follow the original deployment's conventions (MONGO_URL, CLIENT_API,
// ADMIN_ID) with canonical aliases for new installs.
var envMappings = map[string]string{
	// Store
	"mongo_url":             "mongo.url",
	"mongo_database":        "mongo.database",
	"mongo_connect_timeout": "mongo.connect_timeout",

	// Client API
	"client_api":     "client_api.base_url",
	"client_api_url": "client_api.base_url",

	// Analytics API
	"analytics_api":     "analytics.base_url",
	"analytics_api_url": "analytics.base_url",
	"analytics_api_key": "analytics.api_key",

	// Sync subject
	"admin_id":            "sync.target_user_id",
	"sync_target_user_id": "sync.target_user_id",

	// Server
	"host":           "server.host",
	"port":           "server.port",
	"server_timeout": "server.timeout",
	"shutdown_grace": "server.shutdown_grace",

	// Read layer
	"api_default_page_size":   "api.default_page_size",
	"api_max_page_size":       "api.max_page_size",
	"rate_limit_max_requests": "api.rate_limit_reqs",
	"rate_limit_window":       "api.rate_limit_window",
	"cors_origins":            "api.cors_origins",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
}

// envTransformFunc converts environment variable names to koanf paths.
// Unmapped variables are dropped so unrelated process environment does not
// leak into the configuration tree.
func envTransformFunc(key string) string {
	mapped, ok := envMappings[strings.ToLower(key)]
	if !ok {
		return ""
	}
	return mapped
}
