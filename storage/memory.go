// Copyright (C) 2025 monas-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package storage

import (
	"context"
	"sync"

	"github.com/monas-project/crsl/crdt"
	"github.com/monas-project/crsl/graph"
	"github.com/monas-project/crsl/pkg/cid"
)

// MemoryNodeStore is a thread-safe in-memory graph.NodeStore, suitable for
// testing and single-instance deployments. Data does not survive a
// process restart.
type MemoryNodeStore struct {
	mu        sync.RWMutex
	nodes     map[cid.ID]*graph.Node
	byGenesis map[cid.ID]map[cid.ID]struct{}
}

// NewMemoryNodeStore returns an empty store.
func NewMemoryNodeStore() *MemoryNodeStore {
	return &MemoryNodeStore{
		nodes:     make(map[cid.ID]*graph.Node),
		byGenesis: make(map[cid.ID]map[cid.ID]struct{}),
	}
}

// Put stores node under its own CID and maintains the genesis index.
func (s *MemoryNodeStore) Put(_ context.Context, node *graph.Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nodes[node.CID] = node

	genesis := node.CID
	if !node.IsGenesis() {
		genesis = *node.Genesis
	}
	if s.byGenesis[genesis] == nil {
		s.byGenesis[genesis] = make(map[cid.ID]struct{})
	}
	s.byGenesis[genesis][node.CID] = struct{}{}
	return nil
}

// Get returns the stored node for id, or (nil, nil) if unknown.
func (s *MemoryNodeStore) Get(_ context.Context, id cid.ID) (*graph.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nodes[id], nil
}

// Enumerate returns every stored (CID, Node) pair.
func (s *MemoryNodeStore) Enumerate(_ context.Context) ([]graph.StoredNode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]graph.StoredNode, 0, len(s.nodes))
	for id, n := range s.nodes {
		out = append(out, graph.StoredNode{CID: id, Node: n})
	}
	return out, nil
}

// NodesByGenesis implements graph.GenesisIndexedStore.
func (s *MemoryNodeStore) NodesByGenesis(_ context.Context, genesis cid.ID) ([]cid.ID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := s.byGenesis[genesis]
	out := make([]cid.ID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out, nil
}

// MemoryOperationStore is a thread-safe in-memory crdt.OperationStore.
type MemoryOperationStore struct {
	mu        sync.RWMutex
	ops       map[cid.ID]*crdt.Operation
	byGenesis map[cid.ID]map[cid.ID]struct{}
}

// NewMemoryOperationStore returns an empty store.
func NewMemoryOperationStore() *MemoryOperationStore {
	return &MemoryOperationStore{
		ops:       make(map[cid.ID]*crdt.Operation),
		byGenesis: make(map[cid.ID]map[cid.ID]struct{}),
	}
}

// Append records op under its own ID.
func (s *MemoryOperationStore) Append(_ context.Context, op *crdt.Operation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ops[op.ID] = op
	if s.byGenesis[op.Genesis] == nil {
		s.byGenesis[op.Genesis] = make(map[cid.ID]struct{})
	}
	s.byGenesis[op.Genesis][op.ID] = struct{}{}
	return nil
}

// Get returns the stored operation for id, or (nil, nil) if unknown.
func (s *MemoryOperationStore) Get(_ context.Context, id cid.ID) (*crdt.Operation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ops[id], nil
}

// LoadByGenesis returns every operation recorded against genesis.
func (s *MemoryOperationStore) LoadByGenesis(_ context.Context, genesis cid.ID) ([]*crdt.Operation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := s.byGenesis[genesis]
	out := make([]*crdt.Operation, 0, len(set))
	for id := range set {
		out = append(out, s.ops[id])
	}
	return out, nil
}
