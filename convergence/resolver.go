// Copyright (C) 2025 monas-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package convergence

import (
	"context"
	"sort"

	"github.com/monas-project/crsl/crdt"
	"github.com/monas-project/crsl/graph"
	"github.com/monas-project/crsl/pkg/cid"
	"github.com/monas-project/crsl/pkg/errors"
)

// PolicyTypeKey is the genesis metadata field naming the merge policy to
// use for that genesis (spec §4.6). Metadata is an opaque `any`; this
// package only looks for this one key when it happens to be a
// map[string]any.
const PolicyTypeKey = "policy_type"

// ConflictResolver synthesizes merge nodes for diverging heads.
type ConflictResolver struct {
	graph    *graph.Graph
	crdt     *crdt.Projector
	registry *Registry
}

// NewConflictResolver wires the DAG and CRDT projection into a resolver.
func NewConflictResolver(g *graph.Graph, p *crdt.Projector, registry *Registry) *ConflictResolver {
	return &ConflictResolver{graph: g, crdt: p, registry: registry}
}

// CreateMergeNode resolves heads (>= 2 diverging leaves of genesis) into a
// single merge node with every head as a parent, using the policy named by
// genesis's policy_type metadata (or LwwMergePolicy if unset), and returns
// the new node's CID and the Merge operation synthesized alongside it.
// headStates holds each head's already-projected CRDT state, in the same
// order as heads, as computed by the caller (Repository) while finding the
// heads in the first place.
func (r *ConflictResolver) CreateMergeNode(ctx context.Context, genesis cid.ID, heads []cid.ID, headStates []*crdt.State, timestamp uint64) (cid.ID, *crdt.Operation, error) {
	if len(heads) < 2 {
		return cid.ID{}, nil, errors.ErrInternal.WithMessage("create_merge_node requires at least two heads")
	}
	if len(headStates) != len(heads) {
		return cid.ID{}, nil, errors.ErrInternal.WithMessage("create_merge_node requires one state per head")
	}

	genesisNode, err := r.graph.GetNode(ctx, genesis)
	if err != nil {
		return cid.ID{}, nil, err
	}
	if genesisNode == nil {
		return cid.ID{}, nil, errors.ErrNotFound.WithDetail("genesis", genesis.String())
	}

	heads, headStates, err = r.sortHeadsCanonically(ctx, heads, headStates)
	if err != nil {
		return cid.ID{}, nil, err
	}

	policyType := policyTypeOf(genesisNode.Metadata)
	policy, err := r.registry.Resolve(policyType)
	if err != nil {
		return cid.ID{}, nil, err
	}

	input := ResolveInput{Genesis: genesis, Heads: heads, HeadStates: headStates}
	value, err := policy.Resolve(input)
	if err != nil {
		return cid.ID{}, nil, err
	}

	mergeMetadata := map[string]any{"policy_type": policy.Name()}
	nodeCID, err := r.graph.AddChildNode(ctx, value, heads, genesis, mergeMetadata, timestamp)
	if err != nil {
		return cid.ID{}, nil, err
	}

	op := &crdt.Operation{
		Genesis:   genesis,
		Kind:      crdt.KindMerge,
		Payload:   value,
		Timestamp: timestamp,
		Author:    "convergence",
	}
	if err := r.crdt.Apply(ctx, op); err != nil {
		return cid.ID{}, nil, err
	}

	return nodeCID, op, nil
}

// sortHeadsCanonically orders heads and their paired states ascending by
// (node timestamp, CID), so that any two replicas resolving the same
// divergence feed Resolve and AddChildNode the identical parent order and
// so produce byte-identical merge nodes (spec §4.6, §3 invariant 1).
func (r *ConflictResolver) sortHeadsCanonically(ctx context.Context, heads []cid.ID, headStates []*crdt.State) ([]cid.ID, []*crdt.State, error) {
	type headEntry struct {
		id        cid.ID
		state     *crdt.State
		timestamp uint64
	}

	entries := make([]headEntry, len(heads))
	for i, h := range heads {
		node, err := r.graph.GetNode(ctx, h)
		if err != nil {
			return nil, nil, err
		}
		if node == nil {
			return nil, nil, errors.ErrInternal.WithDetail("head", h.String())
		}
		entries[i] = headEntry{id: h, state: headStates[i], timestamp: node.Timestamp}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].timestamp != entries[j].timestamp {
			return entries[i].timestamp < entries[j].timestamp
		}
		return entries[i].id.Less(entries[j].id)
	})

	sortedHeads := make([]cid.ID, len(entries))
	sortedStates := make([]*crdt.State, len(entries))
	for i, e := range entries {
		sortedHeads[i] = e.id
		sortedStates[i] = e.state
	}
	return sortedHeads, sortedStates, nil
}

func policyTypeOf(metadata any) string {
	m, ok := metadata.(map[string]any)
	if !ok {
		return ""
	}
	v, ok := m[PolicyTypeKey]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
