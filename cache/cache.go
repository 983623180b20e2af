// Copyright (C) 2025 monas-project
// SPDX-License-Identifier: LGPL-3.0-or-later

/*
Package cache provides a read-through CID-keyed node cache in front of a
graph.NodeStore.

This package implements caching to avoid repeated round trips to a
NodeStore backend (Redis, Postgres) for nodes that are read far more often
than they are written — content-addressed nodes never change once stored,
so a cache entry never goes stale and needs no invalidation beyond a TTL
safety net.

Features:
  - A CID-keyed Cache interface, with an in-memory LRU implementation
  - TTL-based expiration
  - In-flight request deduplication via singleflight, so concurrent misses
    for the same CID that overlap one in-flight fetch share its single
    NodeStore.Get call

Example:

	import "github.com/monas-project/crsl/cache"

	nodes := cache.NewNodeCache(underlyingStore, cache.DefaultCacheConfig())
	node, err := nodes.Get(ctx, id) // served from cache after the first call
*/
package cache

import (
	"context"
	"time"

	"github.com/monas-project/crsl/graph"
	"github.com/monas-project/crsl/pkg/cid"
)

// Cache is a cache of DAG nodes keyed by content address. Every entry is
// immutable once written: a CID names exactly one node, so Set never needs
// to overwrite an existing entry with different content, only refresh its
// position in the eviction order and its TTL.
type Cache interface {
	// Get retrieves the node stored for id, if any and not yet expired.
	Get(ctx context.Context, id cid.ID) (*graph.Node, bool)

	// Set stores node under id with the given TTL.
	Set(ctx context.Context, id cid.ID, node *graph.Node, ttl time.Duration) error

	// Delete removes the entry for id, if any.
	Delete(ctx context.Context, id cid.ID) error

	// Clear removes all entries from cache.
	Clear(ctx context.Context) error

	// Stats returns cache statistics.
	Stats() CacheStats

	// Close closes the cache.
	Close() error
}

// CacheConfig holds cache configuration.
type CacheConfig struct {
	// MaxSize is the maximum number of entries.
	MaxSize int

	// DefaultTTL is the default time-to-live.
	DefaultTTL time.Duration

	// EvictionPolicy determines how entries are evicted.
	EvictionPolicy EvictionPolicy

	// EnableMetrics enables cache metrics collection.
	EnableMetrics bool
}

// EvictionPolicy determines how cache entries are evicted.
type EvictionPolicy string

const (
	// EvictionPolicyLRU evicts least recently used entries.
	EvictionPolicyLRU EvictionPolicy = "lru"

	// EvictionPolicyLFU evicts least frequently used entries.
	EvictionPolicyLFU EvictionPolicy = "lfu"

	// EvictionPolicyFIFO evicts oldest entries first.
	EvictionPolicyFIFO EvictionPolicy = "fifo"

	// EvictionPolicyTTL evicts based on TTL only.
	EvictionPolicyTTL EvictionPolicy = "ttl"
)

// CacheStats holds cache statistics.
type CacheStats struct {
	Hits          int64
	Misses        int64
	Sets          int64
	Deletes       int64
	Evictions     int64
	Size          int
	MaxSize       int
	HitRate       float64
	MemoryUsageKB int64
}

// DefaultCacheConfig returns a default cache configuration. A content-
// addressed node is immutable once written, so the TTL here exists only as
// a memory-pressure safety net, not a correctness mechanism; 1 hour is
// long enough that working sets stay warm across a typical request burst.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		MaxSize:        10000,
		DefaultTTL:     1 * time.Hour,
		EvictionPolicy: EvictionPolicyLRU,
		EnableMetrics:  true,
	}
}
