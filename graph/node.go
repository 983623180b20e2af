// Copyright (C) 2025 monas-project
// SPDX-License-Identifier: LGPL-3.0-or-later

// Package graph implements the content-addressed DAG: node identity, cycle
// prevention, and genesis-scoped leaf/head/latest computation (spec §4.4).
package graph

import (
	"github.com/monas-project/crsl/pkg/cid"
	"github.com/monas-project/crsl/pkg/codec"
)

// Node is an immutable record in the DAG. Payload and Metadata are
// application-defined and opaque to this package; see DESIGN.md for why
// they are plain `any` rather than generic type parameters.
type Node struct {
	CID       cid.ID   `cbor:"-"`
	Payload   any      `cbor:"payload"`
	Parents   []cid.ID `cbor:"parents"`
	Genesis   *cid.ID  `cbor:"genesis,omitempty"`
	Timestamp uint64   `cbor:"timestamp"`
	Metadata  any      `cbor:"metadata"`
}

// encodable is the canonical encoding shape of a Node: everything except the
// node's own CID, which is derived FROM this encoding and therefore must not
// be part of it.
type encodable struct {
	Payload   any      `cbor:"payload"`
	Parents   []cid.ID `cbor:"parents"`
	Genesis   *cid.ID  `cbor:"genesis,omitempty"`
	Timestamp uint64   `cbor:"timestamp"`
	Metadata  any      `cbor:"metadata"`
}

// IsGenesis reports whether n has no genesis reference.
func (n *Node) IsGenesis() bool {
	return n.Genesis == nil
}

// ComputeCID returns the CID that n ought to have, derived from its
// canonical encoding. Used both to mint a new node's CID and to verify the
// CID-identity invariant (spec §3 invariant 1) on stored nodes.
func (n *Node) ComputeCID() (cid.ID, error) {
	enc := encodable{
		Payload:   n.Payload,
		Parents:   n.Parents,
		Genesis:   n.Genesis,
		Timestamp: n.Timestamp,
		Metadata:  n.Metadata,
	}
	data, err := codec.Encode(enc)
	if err != nil {
		return cid.ID{}, err
	}
	return cid.Of(data)
}

// dedupeParents removes duplicate CIDs, preserving first-occurrence order
// (spec §9 Open Question 2).
func dedupeParents(parents []cid.ID) []cid.ID {
	out := make([]cid.ID, 0, len(parents))
	for _, p := range parents {
		seen := false
		for _, existing := range out {
			if existing.Equal(p) {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, p)
		}
	}
	return out
}
