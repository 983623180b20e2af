// Copyright (C) 2025 monas-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package graph_test

import (
	"context"
	"sync"

	"github.com/monas-project/crsl/graph"
	"github.com/monas-project/crsl/pkg/cid"
)

// testStore is a minimal in-memory NodeStore used only by this package's
// tests. The real store lives in package storage; this one stays local so
// graph tests do not depend on an outer package.
type testStore struct {
	mu    sync.Mutex
	nodes map[cid.ID]*graph.Node
}

func newTestStore() *testStore {
	return &testStore{nodes: make(map[cid.ID]*graph.Node)}
}

func (s *testStore) Put(_ context.Context, node *graph.Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes[node.CID] = node
	return nil
}

func (s *testStore) Get(_ context.Context, id cid.ID) (*graph.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nodes[id], nil
}

func (s *testStore) Enumerate(_ context.Context) ([]graph.StoredNode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]graph.StoredNode, 0, len(s.nodes))
	for id, n := range s.nodes {
		out = append(out, graph.StoredNode{CID: id, Node: n})
	}
	return out, nil
}
