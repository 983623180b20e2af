// Copyright (C) 2025 monas-project
// SPDX-License-Identifier: LGPL-3.0-or-later

// Package logging provides structured, context-propagating logging for the
// content-versioning engine.
//
// # Overview
//
// This package provides structured logging with:
//   - Multiple log levels (DEBUG, INFO, WARN, ERROR, FATAL)
//   - Context-aware logging (request ID, trace ID, genesis, author)
//   - Log sampling for high-volume scenarios (auto-merge checks on every commit)
//   - Field-based structured data
//   - A StructuredLogger (plain JSON) and a ZapLogger (go.uber.org/zap)
//
// # Basic Usage
//
//	logger := logging.NewStructuredLogger(logging.LevelInfo)
//
//	logger.Info(ctx, "operation committed",
//	    logging.String("genesis", genesis.String()),
//	    logging.Int("duration_ms", 42),
//	)
//
// # Context Propagation
//
//	ctx = logging.WithRequestID(ctx, "req-123")
//	ctx = logging.WithGenesisID(ctx, genesis.String())
//
//	logger.Info(ctx, "checking for divergence")
package logging
