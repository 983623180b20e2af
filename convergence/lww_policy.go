// Copyright (C) 2025 monas-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package convergence

import (
	"github.com/monas-project/crsl/crdt"
	"github.com/monas-project/crsl/pkg/cid"
)

// LwwPolicyName is the policy_type value selecting LwwMergePolicy.
const LwwPolicyName = "lww"

// LwwMergePolicy resolves divergence by picking the head whose winning
// operation has the latest timestamp, ties broken by the head's own CID
// (spec §4.6) rather than any field of the operation that produced it: two
// heads can legitimately share a winning operation's author/id ordering
// while still being distinct nodes, and it is the head CID the spec names
// as the tie-break key. It is the default policy when a genesis's metadata
// names no policy_type.
type LwwMergePolicy struct{}

// Name implements MergePolicy.
func (LwwMergePolicy) Name() string {
	return LwwPolicyName
}

// Resolve implements MergePolicy.
func (LwwMergePolicy) Resolve(input ResolveInput) (any, error) {
	chosen := -1
	for i, state := range input.HeadStates {
		if state == nil || state.Winner == nil {
			continue
		}
		if chosen == -1 || lessHead(input.HeadStates[chosen], input.Heads[chosen], state, input.Heads[i]) {
			chosen = i
		}
	}
	if chosen == -1 {
		return nil, nil
	}
	return input.HeadStates[chosen].Value, nil
}

// lessHead reports whether head a (with winning state aState) sorts before
// head b (with winning state bState): by winning timestamp, then by head CID.
func lessHead(aState *crdt.State, aHead cid.ID, bState *crdt.State, bHead cid.ID) bool {
	if aState.Winner.Timestamp != bState.Winner.Timestamp {
		return aState.Winner.Timestamp < bState.Winner.Timestamp
	}
	return aHead.Less(bHead)
}
