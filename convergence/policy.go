// Copyright (C) 2025 monas-project
// SPDX-License-Identifier: LGPL-3.0-or-later

// Package convergence synthesizes merge nodes when a genesis has diverged
// into multiple concurrent heads, selecting a resolution strategy by the
// genesis's policy_type metadata (spec §4.6).
package convergence

import (
	"github.com/monas-project/crsl/crdt"
	"github.com/monas-project/crsl/pkg/cid"
)

// ResolveInput is the input a MergePolicy receives: the diverging heads,
// already sorted ascending by (head timestamp, CID) by
// ConflictResolver.CreateMergeNode for determinism, and the state each head
// resolves to, in that same order.
type ResolveInput struct {
	Genesis    cid.ID
	Heads      []cid.ID
	HeadStates []*crdt.State
}

// MergePolicy picks the winning value when two or more heads diverge.
// Implementations must be deterministic: the same ResolveInput must always
// produce the same resolved payload, regardless of which replica runs it.
type MergePolicy interface {
	// Name returns the policy_type string this policy is registered under.
	Name() string

	// Resolve returns the payload the synthesized merge node should carry.
	Resolve(input ResolveInput) (any, error)
}
