// Copyright (C) 2025 monas-project
// SPDX-License-Identifier: LGPL-3.0-or-later

// Package observability groups the logging and metrics subpackages the
// rest of this module depends on.
package observability
