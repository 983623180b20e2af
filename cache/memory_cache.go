// Copyright (C) 2025 monas-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/monas-project/crsl/graph"
	"github.com/monas-project/crsl/pkg/cid"
)

// MemoryCache is an in-memory cache of DAG nodes, keyed by CID.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[cid.ID]*cacheEntry
	lru     *list.List
	config  CacheConfig
	stats   CacheStats
}

type cacheEntry struct {
	id          cid.ID
	node        *graph.Node
	expiresAt   time.Time
	element     *list.Element
	accessCount int64
}

// NewMemoryCache creates a new in-memory node cache.
func NewMemoryCache(config CacheConfig) *MemoryCache {
	if config.MaxSize == 0 {
		config = DefaultCacheConfig()
	}

	return &MemoryCache{
		entries: make(map[cid.ID]*cacheEntry),
		lru:     list.New(),
		config:  config,
		stats: CacheStats{
			MaxSize: config.MaxSize,
		},
	}
}

// Get retrieves a node from cache.
func (c *MemoryCache) Get(ctx context.Context, id cid.ID) (*graph.Node, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, found := c.entries[id]
	if !found {
		c.stats.Misses++
		c.updateHitRate()
		return nil, false
	}

	// A node's content never changes once cached, so expiration here is a
	// memory-pressure safety net, not a freshness check.
	if time.Now().After(entry.expiresAt) {
		c.deleteEntry(id)
		c.stats.Misses++
		c.updateHitRate()
		return nil, false
	}

	if c.config.EvictionPolicy == EvictionPolicyLRU {
		c.lru.MoveToFront(entry.element)
	}
	if c.config.EvictionPolicy == EvictionPolicyLFU {
		entry.accessCount++
	}

	c.stats.Hits++
	c.updateHitRate()

	return entry.node, true
}

// Set stores node under id in cache.
func (c *MemoryCache) Set(ctx context.Context, id cid.ID, node *graph.Node, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ttl == 0 {
		ttl = c.config.DefaultTTL
	}

	if entry, found := c.entries[id]; found {
		// Same CID means same content; only the eviction bookkeeping moves.
		entry.expiresAt = time.Now().Add(ttl)
		if c.config.EvictionPolicy == EvictionPolicyLRU {
			c.lru.MoveToFront(entry.element)
		}
		c.stats.Sets++
		return nil
	}

	if len(c.entries) >= c.config.MaxSize {
		c.evict()
	}

	entry := &cacheEntry{
		id:        id,
		node:      node,
		expiresAt: time.Now().Add(ttl),
	}
	entry.element = c.lru.PushFront(id)

	c.entries[id] = entry
	c.stats.Sets++
	c.stats.Size = len(c.entries)

	return nil
}

// Delete removes id's entry from cache.
func (c *MemoryCache) Delete(ctx context.Context, id cid.ID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.deleteEntry(id)
	c.stats.Deletes++
	return nil
}

// Clear removes all entries from cache.
func (c *MemoryCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[cid.ID]*cacheEntry)
	c.lru = list.New()
	c.stats.Size = 0

	return nil
}

// Stats returns cache statistics.
func (c *MemoryCache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.stats
}

// Close releases cache resources.
func (c *MemoryCache) Close() error {
	return c.Clear(context.Background())
}

// deleteEntry removes an entry. Must be called with the lock held.
func (c *MemoryCache) deleteEntry(id cid.ID) {
	if entry, found := c.entries[id]; found {
		c.lru.Remove(entry.element)
		delete(c.entries, id)
		c.stats.Size = len(c.entries)
	}
}

// evict removes one entry according to the configured eviction policy.
func (c *MemoryCache) evict() {
	switch c.config.EvictionPolicy {
	case EvictionPolicyLRU:
		c.evictLRU()
	case EvictionPolicyLFU:
		c.evictLFU()
	case EvictionPolicyFIFO:
		c.evictFIFO()
	case EvictionPolicyTTL:
		c.evictExpired()
	default:
		c.evictLRU()
	}
}

// evictLRU evicts the least recently used entry.
func (c *MemoryCache) evictLRU() {
	if element := c.lru.Back(); element != nil {
		id := element.Value.(cid.ID)
		c.deleteEntry(id)
		c.stats.Evictions++
	}
}

// evictLFU evicts the least frequently used entry.
func (c *MemoryCache) evictLFU() {
	var minAccess int64 = -1
	var victim cid.ID
	haveVictim := false

	for id, entry := range c.entries {
		if minAccess == -1 || entry.accessCount < minAccess {
			minAccess = entry.accessCount
			victim = id
			haveVictim = true
		}
	}

	if haveVictim {
		c.deleteEntry(victim)
		c.stats.Evictions++
	}
}

// evictFIFO evicts the oldest entry.
func (c *MemoryCache) evictFIFO() {
	if element := c.lru.Back(); element != nil {
		id := element.Value.(cid.ID)
		c.deleteEntry(id)
		c.stats.Evictions++
	}
}

// evictExpired removes all expired entries.
func (c *MemoryCache) evictExpired() {
	now := time.Now()
	var toDelete []cid.ID

	for id, entry := range c.entries {
		if now.After(entry.expiresAt) {
			toDelete = append(toDelete, id)
		}
	}

	for _, id := range toDelete {
		c.deleteEntry(id)
		c.stats.Evictions++
	}
}

// updateHitRate recomputes the cache hit rate. Must be called with the lock held.
func (c *MemoryCache) updateHitRate() {
	total := c.stats.Hits + c.stats.Misses
	if total > 0 {
		c.stats.HitRate = float64(c.stats.Hits) / float64(total)
	}
}

// CleanupExpired periodically removes expired entries until ctx is done.
func (c *MemoryCache) CleanupExpired(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.Lock()
			c.evictExpired()
			c.mu.Unlock()
		}
	}
}
