// Copyright (C) 2025 monas-project
// SPDX-License-Identifier: LGPL-3.0-or-later

// Package metrics provides a small collector abstraction over commits,
// merges, and commit latency, backed by Prometheus.
package metrics
