// Copyright (C) 2025 monas-project
// SPDX-License-Identifier: LGPL-3.0-or-later

// Package crdt projects an append-only operation log into a Last-Write-Wins
// state per genesis (spec §4.5). Convergence across replicas follows from
// ordering operations the same way everywhere: by (timestamp, author, id).
package crdt

import (
	"github.com/google/uuid"

	"github.com/monas-project/crsl/pkg/cid"
	"github.com/monas-project/crsl/pkg/codec"
)

// Kind enumerates the operation kinds the log accepts (spec §4.5).
type Kind string

const (
	// KindCreate establishes a genesis's initial projected value.
	KindCreate Kind = "create"
	// KindUpdate replaces the projected value.
	KindUpdate Kind = "update"
	// KindDelete projects the genesis as absent.
	KindDelete Kind = "delete"
	// KindMerge is synthesized only by convergence auto-merge; external
	// callers submitting KindMerge are rejected (spec §6).
	KindMerge Kind = "merge"
)

// Operation is one entry in the CRDT log.
type Operation struct {
	ID        cid.ID `cbor:"-"`
	Genesis   cid.ID `cbor:"genesis"`
	Kind      Kind   `cbor:"kind"`
	Payload   any    `cbor:"payload"`
	Timestamp uint64 `cbor:"timestamp"`
	Author    string `cbor:"author"`
}

// encodable is Operation's canonical-hash shape: everything but the
// operation's own ID, which the hash of this shape produces.
type encodable struct {
	Genesis   cid.ID `cbor:"genesis"`
	Kind      Kind   `cbor:"kind"`
	Payload   any    `cbor:"payload"`
	Timestamp uint64 `cbor:"timestamp"`
	Author    string `cbor:"author"`
}

// NewExternalID mints a random externally-minted operation id (spec §3:
// "CID of the operation's canonical encoding or an externally-minted
// UUID"), for callers that already mint an idempotency key client-side and
// would rather submit it than have Apply derive one from content. The
// store's only requirement on an id is uniqueness, which a UUIDv4 already
// gives with overwhelming probability; Apply never overrides a non-zero id.
func NewExternalID() (cid.ID, error) {
	id := uuid.New()
	return cid.FromRaw(id[:])
}

// ComputeID returns the CID this operation ought to have, derived from its
// canonical encoding. Mirrors graph.Node.ComputeCID.
func (op *Operation) ComputeID() (cid.ID, error) {
	enc := encodable{
		Genesis:   op.Genesis,
		Kind:      op.Kind,
		Payload:   op.Payload,
		Timestamp: op.Timestamp,
		Author:    op.Author,
	}
	data, err := codec.Encode(enc)
	if err != nil {
		return cid.ID{}, err
	}
	return cid.Of(data)
}

// Less implements the (timestamp, author, id) ordering spec §4.5 requires
// for deterministic LWW resolution: later timestamp wins, ties broken by
// author, remaining ties broken by CID.
func (op *Operation) Less(other *Operation) bool {
	if op.Timestamp != other.Timestamp {
		return op.Timestamp < other.Timestamp
	}
	if op.Author != other.Author {
		return op.Author < other.Author
	}
	return op.ID.Less(other.ID)
}
