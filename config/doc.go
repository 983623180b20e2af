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

// Package config provides configuration loading for crslctl and other
// processes wiring up a Repository.
//
// # Configuration Structure
//
// The configuration is organized into sections:
//   - Storage: which NodeStore/OperationStore backend to dial
//   - Merge: the default convergence policy for new genesis nodes
//   - Logging: log level, format, and output destination
//   - Metrics: metrics exposition toggles
//
// # Usage
//
// Loading configuration from a file, with environment overrides applied
// automatically:
//
//	cfg, err := config.LoadFromFile("crsl.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Loading configuration purely from the environment:
//
//	cfg, err := config.LoadEnv()
//
// Environment variables are prefixed with CRSL_ and use underscores in
// place of the nested dots, e.g.:
//
//	export CRSL_STORAGE_TYPE=redis
//	export CRSL_STORAGE_REDIS_HOST=localhost
//	export CRSL_MERGE_DEFAULT_POLICY_TYPE=lww
//
// # Validation
//
// All configuration is validated before use; see Config.Validate for the
// complete set of rules.
package config
