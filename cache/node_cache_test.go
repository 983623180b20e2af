// Copyright (C) 2025 monas-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monas-project/crsl/graph"
	"github.com/monas-project/crsl/pkg/cid"
)

// countingStore wraps a graph.NodeStore and counts calls to Get, so tests
// can assert the cache actually avoids redundant round trips.
type countingStore struct {
	graph.NodeStore
	gets atomic.Int64
}

func (s *countingStore) Get(ctx context.Context, id cid.ID) (*graph.Node, error) {
	s.gets.Add(1)
	return s.NodeStore.Get(ctx, id)
}

func newTestNode(t *testing.T, payload any, timestamp uint64) *graph.Node {
	t.Helper()
	n := &graph.Node{Payload: payload, Timestamp: timestamp}
	id, err := n.ComputeCID()
	require.NoError(t, err)
	n.CID = id
	return n
}

func TestNodeCache_GetMissThenHit(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{NodeStore: newMemoryNodeStore()}
	nc := NewNodeCache(inner, DefaultCacheConfig())

	node := newTestNode(t, "payload", 1)
	require.NoError(t, inner.Put(ctx, node))

	got, err := nc.Get(ctx, node.CID)
	require.NoError(t, err)
	assert.Equal(t, "payload", got.Payload)
	assert.EqualValues(t, 1, inner.gets.Load())

	got, err = nc.Get(ctx, node.CID)
	require.NoError(t, err)
	assert.Equal(t, "payload", got.Payload)
	assert.EqualValues(t, 1, inner.gets.Load(), "second Get should be served from cache")
}

func TestNodeCache_PutPopulatesCache(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{NodeStore: newMemoryNodeStore()}
	nc := NewNodeCache(inner, DefaultCacheConfig())

	node := newTestNode(t, "payload", 1)
	require.NoError(t, nc.Put(ctx, node))

	got, err := nc.Get(ctx, node.CID)
	require.NoError(t, err)
	assert.Equal(t, "payload", got.Payload)
	assert.EqualValues(t, 0, inner.gets.Load(), "Put should have warmed the cache")
}

func TestNodeCache_ConcurrentGetsDeduplicate(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{NodeStore: newMemoryNodeStore()}
	nc := NewNodeCache(inner, DefaultCacheConfig())

	node := newTestNode(t, "payload", 1)
	require.NoError(t, inner.Put(ctx, node))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := nc.Get(ctx, node.CID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, inner.gets.Load(), int64(2), "concurrent Gets for one CID should collapse to ~1 store call")
}

func TestNodeCache_GetUnknownReturnsNilNil(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{NodeStore: newMemoryNodeStore()}
	nc := NewNodeCache(inner, DefaultCacheConfig())

	got, err := nc.Get(ctx, cid.MustOf([]byte("missing")))
	require.NoError(t, err)
	assert.Nil(t, got)
}

// memoryNodeStore is a minimal graph.NodeStore used only by this package's
// tests, to avoid a test-only dependency on the storage package.
type memoryNodeStore struct {
	mu    sync.RWMutex
	nodes map[cid.ID]*graph.Node
}

func newMemoryNodeStore() *memoryNodeStore {
	return &memoryNodeStore{nodes: make(map[cid.ID]*graph.Node)}
}

func (s *memoryNodeStore) Put(_ context.Context, node *graph.Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes[node.CID] = node
	return nil
}

func (s *memoryNodeStore) Get(_ context.Context, id cid.ID) (*graph.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nodes[id], nil
}

func (s *memoryNodeStore) Enumerate(_ context.Context) ([]graph.StoredNode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]graph.StoredNode, 0, len(s.nodes))
	for id, n := range s.nodes {
		out = append(out, graph.StoredNode{CID: id, Node: n})
	}
	return out, nil
}
