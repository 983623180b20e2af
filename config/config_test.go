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

import "testing"

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig() should not return nil")
	}

	if cfg.Storage.Type != "memory" {
		t.Errorf("Storage.Type = %q, want memory", cfg.Storage.Type)
	}

	if cfg.Merge.DefaultPolicyType == "" {
		t.Error("Merge.DefaultPolicyType should have a default value")
	}

	if cfg.Logging.Level == "" {
		t.Error("Logging.Level should have a default value")
	}

	if cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled should default to false")
	}
}

func TestConfig_Validate_Success(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil for default config", err)
	}
}

func TestConfig_Validate_StorageType(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Type = "bogus"

	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reject an unknown storage type")
	}
}

func TestConfig_Validate_RedisRequiresHost(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Type = "redis"
	cfg.Storage.Redis.Host = ""

	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reject an empty redis host")
	}
}

func TestConfig_Validate_PostgresRequiresUserAndDatabase(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Type = "postgres"
	cfg.Storage.Postgres.User = ""
	cfg.Storage.Postgres.Database = "crsl"

	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reject a missing postgres user")
	}

	cfg.Storage.Postgres.User = "crsl"
	cfg.Storage.Postgres.Database = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reject a missing postgres database")
	}
}

func TestConfig_Validate_PostgresIdleExceedsOpen(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Type = "postgres"
	cfg.Storage.Postgres.User = "crsl"
	cfg.Storage.Postgres.Database = "crsl"
	cfg.Storage.Postgres.MaxOpenConns = 5
	cfg.Storage.Postgres.MaxIdleConns = 10

	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reject max idle conns greater than max open conns")
	}
}

func TestConfig_Validate_MergePolicyRequired(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Merge.DefaultPolicyType = ""

	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reject an empty default merge policy")
	}
}

func TestConfig_Validate_LoggingLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Level = "verbose"

	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reject an unknown logging level")
	}
}

func TestConfig_Validate_CacheSizeOnlyCheckedWhenEnabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cache.Enabled = false
	cfg.Cache.MaxSize = 0

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() should not check cache size when disabled, got %v", err)
	}

	cfg.Cache.Enabled = true
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reject a non-positive cache size when cache is enabled")
	}

	cfg.Cache.MaxSize = 10000
	cfg.Cache.DefaultTTL = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reject a non-positive cache ttl when cache is enabled")
	}
}

func TestConfig_Validate_MetricsPortOnlyCheckedWhenEnabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Metrics.Enabled = false
	cfg.Metrics.Port = 0

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() should not check metrics port when disabled, got %v", err)
	}

	cfg.Metrics.Enabled = true
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reject an invalid metrics port when metrics are enabled")
	}
}
