// Copyright (C) 2025 monas-project
// SPDX-License-Identifier: LGPL-3.0-or-later

// Package errors implements the error taxonomy from the engine design:
// categories, not types. Every returned error carries enough structure for
// a caller to branch on (Category, Code) without string matching, while
// still satisfying the standard error interface and errors.Is/As.
//
// # Categories
//
//   - NotFound: a CID or genesis is absent; returned as an absent result
//     rather than an error where the contract allows it (get_state, latest),
//     else surfaced as an error.
//   - Cycle: add_child_node would close a cycle.
//   - GenesisMismatch: an unknown or foreign-genesis parent.
//   - InvalidOperation: a caller-submitted Merge, or Update/Delete against
//     an empty genesis.
//   - Serialization / IO: storage-layer failures.
//   - Internal: invariant violations that should never trigger under
//     correct use.
//
// # Usage
//
//	if _, err := dag.AddChildNode(ctx, payload, parents, genesis, meta, timestamp); err != nil {
//	    if errors.IsCycle(err) {
//	        // reject the caller's request
//	    }
//	}
package errors
