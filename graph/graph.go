// Copyright (C) 2025 monas-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package graph

import (
	"context"

	"github.com/monas-project/crsl/pkg/cid"
	"github.com/monas-project/crsl/pkg/errors"
)

// Graph is the content-addressed DAG: it mints node CIDs, enforces the
// genesis-closure and acyclicity invariants (spec §3), and answers
// leaf/head/latest queries scoped to a genesis.
type Graph struct {
	store NodeStore
}

// New wraps store in the DAG's structural invariants.
func New(store NodeStore) *Graph {
	return &Graph{store: store}
}

// AddGenesisNode constructs a node with empty parents and no genesis
// reference, stores it, and returns its CID. Idempotent under byte-equal
// inputs.
func (g *Graph) AddGenesisNode(ctx context.Context, payload, metadata any, timestamp uint64) (cid.ID, error) {
	node := &Node{
		Payload:   payload,
		Parents:   nil,
		Genesis:   nil,
		Timestamp: timestamp,
		Metadata:  metadata,
	}

	id, err := node.ComputeCID()
	if err != nil {
		return cid.ID{}, errors.ErrSerialization.Wrap(err)
	}
	node.CID = id

	if err := g.store.Put(ctx, node); err != nil {
		return cid.ID{}, errors.ErrIO.Wrap(err)
	}
	return id, nil
}

// AddChildNode constructs a non-genesis node whose parents must all belong
// to genesis, stores it, and returns its CID. Parents are deduplicated
// preserving first-occurrence order (spec §9 Open Question 2).
func (g *Graph) AddChildNode(ctx context.Context, payload any, parents []cid.ID, genesis cid.ID, metadata any, timestamp uint64) (cid.ID, error) {
	parents = dedupeParents(parents)
	if len(parents) == 0 {
		return cid.ID{}, errors.ErrInternal.WithMessage("add_child_node requires at least one parent")
	}

	genesisNode, err := g.store.Get(ctx, genesis)
	if err != nil {
		return cid.ID{}, errors.ErrIO.Wrap(err)
	}
	if genesisNode == nil || !genesisNode.IsGenesis() {
		return cid.ID{}, errors.ErrUnknownParent.WithDetail("genesis", genesis.String())
	}

	for _, p := range parents {
		if p.Equal(genesis) {
			continue
		}
		parentNode, err := g.store.Get(ctx, p)
		if err != nil {
			return cid.ID{}, errors.ErrIO.Wrap(err)
		}
		if parentNode == nil {
			return cid.ID{}, errors.ErrUnknownParent.WithDetail("parent", p.String())
		}
		parentGenesis := g.genesisOf(parentNode, p)
		if !parentGenesis.Equal(genesis) {
			return cid.ID{}, errors.ErrGenesisMismatch.WithDetail("parent", p.String())
		}
	}

	node := &Node{
		Payload:   payload,
		Parents:   parents,
		Genesis:   &genesis,
		Timestamp: timestamp,
		Metadata:  metadata,
	}

	id, err := node.ComputeCID()
	if err != nil {
		return cid.ID{}, errors.ErrSerialization.Wrap(err)
	}

	cyclic, err := g.wouldCreateCycleWith(ctx, id, parents)
	if err != nil {
		return cid.ID{}, err
	}
	if cyclic {
		return cid.ID{}, errors.ErrCycle.WithDetail("node", id.String())
	}

	node.CID = id
	if err := g.store.Put(ctx, node); err != nil {
		return cid.ID{}, errors.ErrIO.Wrap(err)
	}
	return id, nil
}

// GetNode delegates to the store.
func (g *Graph) GetNode(ctx context.Context, id cid.ID) (*Node, error) {
	node, err := g.store.Get(ctx, id)
	if err != nil {
		return nil, errors.ErrIO.Wrap(err)
	}
	return node, nil
}

// genesisOf returns the node's genesis field, or its own CID (id) if it is
// itself a genesis. Mirrors get_genesis (spec §4.4).
func (g *Graph) genesisOf(node *Node, id cid.ID) cid.ID {
	if node.IsGenesis() {
		return id
	}
	return *node.Genesis
}

// GetGenesis returns the genesis CID for nodeCID: itself if it is a
// genesis, otherwise its genesis field.
func (g *Graph) GetGenesis(ctx context.Context, nodeCID cid.ID) (cid.ID, error) {
	node, err := g.store.Get(ctx, nodeCID)
	if err != nil {
		return cid.ID{}, errors.ErrIO.Wrap(err)
	}
	if node == nil {
		return cid.ID{}, errors.ErrNotFound.WithDetail("cid", nodeCID.String())
	}
	return g.genesisOf(node, nodeCID), nil
}

// GetNodesByGenesis returns every stored CID that is either genesis itself
// or a node whose Genesis equals genesis. Ordering is unspecified; the
// result is conceptually a set.
func (g *Graph) GetNodesByGenesis(ctx context.Context, genesis cid.ID) ([]cid.ID, error) {
	if indexed, ok := g.store.(GenesisIndexedStore); ok {
		ids, err := indexed.NodesByGenesis(ctx, genesis)
		if err != nil {
			return nil, errors.ErrIO.Wrap(err)
		}
		return ids, nil
	}

	all, err := g.store.Enumerate(ctx)
	if err != nil {
		return nil, errors.ErrIO.Wrap(err)
	}

	var out []cid.ID
	for _, sn := range all {
		if sn.CID.Equal(genesis) {
			out = append(out, sn.CID)
			continue
		}
		if sn.Node.Genesis != nil && sn.Node.Genesis.Equal(genesis) {
			out = append(out, sn.CID)
		}
	}
	return out, nil
}

// CollectNodesWithChildren returns the subset of nodes that appear as a
// parent of some element of nodes.
func (g *Graph) CollectNodesWithChildren(ctx context.Context, nodes []cid.ID) (map[cid.ID]bool, error) {
	set := make(map[cid.ID]bool, len(nodes))
	for _, id := range nodes {
		set[id] = true
	}

	parents := make(map[cid.ID]bool)
	for _, id := range nodes {
		node, err := g.store.Get(ctx, id)
		if err != nil {
			return nil, errors.ErrIO.Wrap(err)
		}
		if node == nil {
			continue
		}
		for _, p := range node.Parents {
			if set[p] {
				parents[p] = true
			}
		}
	}
	return parents, nil
}

// LeafNode pairs a leaf's CID with its timestamp, as collect_leaf_nodes
// returns (spec §4.4).
type LeafNode struct {
	CID       cid.ID
	Timestamp uint64
}

// CollectLeafNodes returns the complement of CollectNodesWithChildren over
// nodes, annotated with each leaf's timestamp.
func (g *Graph) CollectLeafNodes(ctx context.Context, nodes []cid.ID) ([]LeafNode, error) {
	withChildren, err := g.CollectNodesWithChildren(ctx, nodes)
	if err != nil {
		return nil, err
	}

	var leaves []LeafNode
	for _, id := range nodes {
		if withChildren[id] {
			continue
		}
		node, err := g.store.Get(ctx, id)
		if err != nil {
			return nil, errors.ErrIO.Wrap(err)
		}
		if node == nil {
			continue
		}
		leaves = append(leaves, LeafNode{CID: id, Timestamp: node.Timestamp})
	}
	return leaves, nil
}

// CalculateLatest implements the algorithm in spec §4.4: the sole node if
// there is only one, else the leaf with the largest timestamp, ties broken
// by ascending CID.
func (g *Graph) CalculateLatest(ctx context.Context, genesis cid.ID) (*cid.ID, error) {
	nodes, err := g.GetNodesByGenesis(ctx, genesis)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, nil
	}
	if len(nodes) == 1 {
		return &nodes[0], nil
	}

	leaves, err := g.CollectLeafNodes(ctx, nodes)
	if err != nil {
		return nil, err
	}
	if len(leaves) == 0 {
		return nil, errors.ErrInternal.WithMessage("calculate_latest: no leaves for non-empty genesis")
	}

	best := leaves[0]
	for _, l := range leaves[1:] {
		if l.Timestamp > best.Timestamp || (l.Timestamp == best.Timestamp && l.CID.Less(best.CID)) {
			best = l
		}
	}
	return &best.CID, nil
}

// wouldCreateCycleWith reports whether newID is reachable by following
// parent edges from any element of parents — the bounded reverse DFS guard
// described in spec §4.4.
func (g *Graph) wouldCreateCycleWith(ctx context.Context, newID cid.ID, parents []cid.ID) (bool, error) {
	visited := make(map[cid.ID]bool)

	var visit func(id cid.ID) (bool, error)
	visit = func(id cid.ID) (bool, error) {
		if id.Equal(newID) {
			return true, nil
		}
		if visited[id] {
			return false, nil
		}
		visited[id] = true

		node, err := g.store.Get(ctx, id)
		if err != nil {
			return false, errors.ErrIO.Wrap(err)
		}
		if node == nil {
			return false, nil
		}
		for _, p := range node.Parents {
			found, err := visit(p)
			if err != nil {
				return false, err
			}
			if found {
				return true, nil
			}
		}
		return false, nil
	}

	for _, p := range parents {
		found, err := visit(p)
		if err != nil {
			return false, err
		}
		if found {
			return true, nil
		}
	}
	return false, nil
}
