// Copyright (C) 2025 monas-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package cache

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/monas-project/crsl/graph"
	"github.com/monas-project/crsl/pkg/cid"
)

// NodeCache wraps a graph.NodeStore with a read-through cache. It
// implements graph.NodeStore itself, so it is a drop-in replacement
// anywhere a NodeStore is accepted. It also implements
// graph.GenesisIndexedStore, answering from the wrapped store (its index
// when it has one, otherwise a full Enumerate scan), since genesis
// membership queries are not something this cache can safely answer from
// a partial set of cached nodes.
type NodeCache struct {
	store Cache
	next  graph.NodeStore
	group singleflight.Group
	ttl   time.Duration
}

// NewNodeCache wraps next in a read-through MemoryCache built from config.
func NewNodeCache(next graph.NodeStore, config CacheConfig) *NodeCache {
	return &NodeCache{
		store: NewMemoryCache(config),
		next:  next,
		ttl:   config.DefaultTTL,
	}
}

// Put writes through to the underlying store and populates the cache, so a
// Get immediately following a Put never has to round-trip.
func (nc *NodeCache) Put(ctx context.Context, node *graph.Node) error {
	if err := nc.next.Put(ctx, node); err != nil {
		return err
	}
	nc.store.Set(ctx, node.CID, node, nc.ttl)
	return nil
}

// Get returns the node for id, serving from cache when present. Concurrent
// Gets for the same uncached id that arrive while a fetch for it is in
// flight are deduplicated via singleflight and share that one fetch from
// the underlying store.
func (nc *NodeCache) Get(ctx context.Context, id cid.ID) (*graph.Node, error) {
	if node, found := nc.store.Get(ctx, id); found {
		return node, nil
	}

	v, err, _ := nc.group.Do(id.String(), func() (interface{}, error) {
		node, err := nc.next.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if node != nil {
			nc.store.Set(ctx, id, node, nc.ttl)
		}
		return node, nil
	})
	if err != nil {
		return nil, err
	}
	node, _ := v.(*graph.Node)
	return node, nil
}

// Enumerate bypasses the cache: it always reflects the underlying store's
// full contents, and populating the cache from a bulk scan would evict
// entries callers are actively relying on for no benefit to this call.
func (nc *NodeCache) Enumerate(ctx context.Context) ([]graph.StoredNode, error) {
	return nc.next.Enumerate(ctx)
}

// NodesByGenesis delegates to the wrapped store's GenesisIndexedStore
// capability, if any, and otherwise filters the wrapped store's Enumerate.
func (nc *NodeCache) NodesByGenesis(ctx context.Context, genesis cid.ID) ([]cid.ID, error) {
	if indexed, ok := nc.next.(graph.GenesisIndexedStore); ok {
		return indexed.NodesByGenesis(ctx, genesis)
	}
	all, err := nc.next.Enumerate(ctx)
	if err != nil {
		return nil, err
	}
	var ids []cid.ID
	for _, sn := range all {
		if sn.CID.Equal(genesis) || (sn.Node.Genesis != nil && sn.Node.Genesis.Equal(genesis)) {
			ids = append(ids, sn.CID)
		}
	}
	return ids, nil
}

// Stats returns the underlying cache's hit/miss statistics.
func (nc *NodeCache) Stats() CacheStats {
	return nc.store.Stats()
}

// Close releases cache resources. It does not close the wrapped store.
func (nc *NodeCache) Close() error {
	return nc.store.Close()
}
