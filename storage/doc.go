// Copyright (C) 2025 monas-project
// SPDX-License-Identifier: LGPL-3.0-or-later

// Package storage provides NodeStore and OperationStore backends: an
// in-memory map for tests and single-process deployments, Redis for a
// shared low-latency cache/store, and PostgreSQL for durable storage with
// ad-hoc querying.
//
// All three back the same two contracts (graph.NodeStore,
// crdt.OperationStore); swapping backends is a config.Config decision, not
// a code change at call sites.
package storage
