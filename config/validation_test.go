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

func TestConfig_Validate_StorageCombinations(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "default config",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name: "redis missing host",
			mutate: func(c *Config) {
				c.Storage.Type = "redis"
				c.Storage.Redis.Host = ""
			},
			wantErr: true,
		},
		{
			name: "redis port out of range",
			mutate: func(c *Config) {
				c.Storage.Type = "redis"
				c.Storage.Redis.Port = 70000
			},
			wantErr: true,
		},
		{
			name: "redis valid",
			mutate: func(c *Config) {
				c.Storage.Type = "redis"
				c.Storage.Redis.Host = "localhost"
				c.Storage.Redis.Port = 6379
			},
			wantErr: false,
		},
		{
			name: "postgres missing user and database",
			mutate: func(c *Config) {
				c.Storage.Type = "postgres"
				c.Storage.Postgres.User = ""
				c.Storage.Postgres.Database = ""
			},
			wantErr: true,
		},
		{
			name: "postgres valid",
			mutate: func(c *Config) {
				c.Storage.Type = "postgres"
				c.Storage.Postgres.User = "crsl"
				c.Storage.Postgres.Database = "crsl"
			},
			wantErr: false,
		},
		{
			name: "unknown storage type",
			mutate: func(c *Config) {
				c.Storage.Type = "filesystem"
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("Validate() error = nil, want error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() error = %v, want nil", err)
			}
		})
	}
}

func TestConfig_Validate_LoggingCombinations(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		format  string
		wantErr bool
	}{
		{name: "debug json", level: "debug", format: "json", wantErr: false},
		{name: "info text", level: "info", format: "text", wantErr: false},
		{name: "unknown level", level: "trace", format: "json", wantErr: true},
		{name: "unknown format", level: "info", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Logging.Level = tt.level
			cfg.Logging.Format = tt.format

			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("Validate() error = nil, want error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() error = %v, want nil", err)
			}
		})
	}
}
