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

import "fmt"

// Validate validates the entire configuration.
func (c *Config) Validate() error {
	if err := c.validateStorage(); err != nil {
		return err
	}

	if err := c.validateCache(); err != nil {
		return err
	}

	if err := c.validateMerge(); err != nil {
		return err
	}

	if err := c.validateLogging(); err != nil {
		return err
	}

	if err := c.validateMetrics(); err != nil {
		return err
	}

	return nil
}

// validateStorage validates storage backend configuration.
func (c *Config) validateStorage() error {
	validTypes := map[string]bool{
		"memory":   true,
		"redis":    true,
		"postgres": true,
	}

	if !validTypes[c.Storage.Type] {
		return fmt.Errorf("storage type must be one of: memory, redis, postgres")
	}

	if c.Storage.Type == "redis" {
		if err := c.validateRedis(); err != nil {
			return err
		}
	}

	if c.Storage.Type == "postgres" {
		if err := c.validatePostgres(); err != nil {
			return err
		}
	}

	return nil
}

// validateRedis validates Redis configuration.
func (c *Config) validateRedis() error {
	if c.Storage.Redis.Host == "" {
		return fmt.Errorf("redis host must not be empty")
	}

	if c.Storage.Redis.Port < 1 || c.Storage.Redis.Port > 65535 {
		return fmt.Errorf("redis port must be between 1 and 65535")
	}

	return nil
}

// validatePostgres validates PostgreSQL configuration.
func (c *Config) validatePostgres() error {
	if c.Storage.Postgres.Host == "" {
		return fmt.Errorf("postgres host must not be empty")
	}

	if c.Storage.Postgres.Port < 1 || c.Storage.Postgres.Port > 65535 {
		return fmt.Errorf("postgres port must be between 1 and 65535")
	}

	if c.Storage.Postgres.User == "" {
		return fmt.Errorf("postgres user must not be empty")
	}

	if c.Storage.Postgres.Database == "" {
		return fmt.Errorf("postgres database must not be empty")
	}

	if c.Storage.Postgres.MaxIdleConns > c.Storage.Postgres.MaxOpenConns {
		return fmt.Errorf("postgres max idle conns must not exceed max open conns")
	}

	return nil
}

// validateCache validates the read-through node cache configuration.
func (c *Config) validateCache() error {
	if !c.Cache.Enabled {
		return nil
	}

	if c.Cache.MaxSize <= 0 {
		return fmt.Errorf("cache max size must be positive when cache is enabled")
	}

	if c.Cache.DefaultTTL <= 0 {
		return fmt.Errorf("cache default ttl must be positive when cache is enabled")
	}

	return nil
}

// validateMerge validates the default merge policy name.
//
// It only checks that the name is non-empty: the set of valid policy
// types is owned by the convergence registry, not by config, so a typo'd
// name (which crslctl stores on each genesis it creates without --policy)
// surfaces as an error from Registry.Resolve at merge time instead of here.
func (c *Config) validateMerge() error {
	if c.Merge.DefaultPolicyType == "" {
		return fmt.Errorf("merge default policy type must not be empty")
	}

	return nil
}

// validateLogging validates logging configuration.
func (c *Config) validateLogging() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("logging level must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"json": true,
		"text": true,
	}

	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging format must be one of: json, text")
	}

	return nil
}

// validateMetrics validates metrics exposition configuration.
func (c *Config) validateMetrics() error {
	if !c.Metrics.Enabled {
		return nil
	}

	if c.Metrics.Port < 1 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics port must be between 1 and 65535")
	}

	if c.Metrics.Path == "" {
		return fmt.Errorf("metrics path must not be empty")
	}

	return nil
}
