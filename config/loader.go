// Copyright (C) 2025 monas-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "CRSL"

// LoadFromFile loads configuration from a YAML or JSON file (format
// inferred from its extension), applies CRSL_-prefixed environment
// overrides on top, and validates the result.
func LoadFromFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadEnv builds a Config from defaults overridden by CRSL_-prefixed
// environment variables (e.g. CRSL_STORAGE_TYPE, CRSL_STORAGE_REDIS_HOST,
// CRSL_MERGE_DEFAULT_POLICY_TYPE). It does not read a file.
func LoadEnv() (*Config, error) {
	v := newViper()

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse environment configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// newViper seeds every known config key with its default value and binds
// CRSL_-prefixed environment variables over them. Seeding defaults is what
// lets viper's AutomaticEnv overrides actually surface through Unmarshal:
// viper only resolves an env var for a key it already knows about.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultConfig()
	v.SetDefault("storage.type", defaults.Storage.Type)
	v.SetDefault("storage.redis.host", defaults.Storage.Redis.Host)
	v.SetDefault("storage.redis.port", defaults.Storage.Redis.Port)
	v.SetDefault("storage.redis.password", defaults.Storage.Redis.Password)
	v.SetDefault("storage.redis.db", defaults.Storage.Redis.DB)
	v.SetDefault("storage.postgres.host", defaults.Storage.Postgres.Host)
	v.SetDefault("storage.postgres.port", defaults.Storage.Postgres.Port)
	v.SetDefault("storage.postgres.user", defaults.Storage.Postgres.User)
	v.SetDefault("storage.postgres.password", defaults.Storage.Postgres.Password)
	v.SetDefault("storage.postgres.database", defaults.Storage.Postgres.Database)
	v.SetDefault("storage.postgres.ssl_mode", defaults.Storage.Postgres.SSLMode)
	v.SetDefault("storage.postgres.max_open_conns", defaults.Storage.Postgres.MaxOpenConns)
	v.SetDefault("storage.postgres.max_idle_conns", defaults.Storage.Postgres.MaxIdleConns)
	v.SetDefault("storage.postgres.conn_max_lifetime", defaults.Storage.Postgres.ConnMaxLifetime)
	v.SetDefault("storage.postgres.auto_migrate", defaults.Storage.Postgres.AutoMigrate)
	v.SetDefault("cache.enabled", defaults.Cache.Enabled)
	v.SetDefault("cache.max_size", defaults.Cache.MaxSize)
	v.SetDefault("cache.default_ttl", defaults.Cache.DefaultTTL)
	v.SetDefault("merge.default_policy_type", defaults.Merge.DefaultPolicyType)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("logging.output", defaults.Logging.Output)
	v.SetDefault("metrics.enabled", defaults.Metrics.Enabled)
	v.SetDefault("metrics.port", defaults.Metrics.Port)
	v.SetDefault("metrics.path", defaults.Metrics.Path)

	return v
}
