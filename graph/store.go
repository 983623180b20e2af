// Copyright (C) 2025 monas-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package graph

import (
	"context"

	"github.com/monas-project/crsl/pkg/cid"
)

// NodeStore is the persistence contract the DAG Graph consumes (spec §4.2,
// §6). Implementations must be safe for concurrent use; writes happen only
// through Graph.
type NodeStore interface {
	// Put stores node under its own CID. Writing the same CID twice with a
	// byte-equal node is a no-op success.
	Put(ctx context.Context, node *Node) error

	// Get returns the stored node for id, or (nil, nil) if unknown.
	Get(ctx context.Context, id cid.ID) (*Node, error)

	// Enumerate returns every stored (CID, Node) pair. Ordering is
	// unspecified; the result is conceptually a set.
	Enumerate(ctx context.Context) ([]StoredNode, error)
}

// StoredNode pairs a CID with its node, as returned by NodeStore.Enumerate.
type StoredNode struct {
	CID  cid.ID
	Node *Node
}

// GenesisIndexedStore is an optional capability a NodeStore may implement to
// avoid the full-enumeration scan spec §5 calls out as a scalability limit.
// Graph uses it when available and falls back to Enumerate otherwise.
type GenesisIndexedStore interface {
	// NodesByGenesis returns the CIDs of every stored node belonging to
	// genesis (the genesis node itself and all of its descendants).
	NodesByGenesis(ctx context.Context, genesis cid.ID) ([]cid.ID, error)
}
