package cache

import (
	"hash/fnv"
	"sync"
	"time"
)

const numShards = 16

// ShardedSnapshotCache is a sharded TTL cache for per-entity snapshots.
// Values are opaque to the cache; callers own the stored type.
type ShardedSnapshotCache struct {
	shards [numShards]*snapshotShard
	ttl    time.Duration
}

type snapshotShard struct {
	mu    sync.RWMutex
	items map[string]snapshotEntry
}

type snapshotEntry struct {
	value     any
	updatedAt time.Time
}

// NewShardedSnapshotCache creates a cache whose entries expire after ttl.
// A non-positive ttl disables expiry.
func NewShardedSnapshotCache(ttl time.Duration) *ShardedSnapshotCache {
	c := &ShardedSnapshotCache{ttl: ttl}
	for i := 0; i < numShards; i++ {
		c.shards[i] = &snapshotShard{
			items: make(map[string]snapshotEntry),
		}
	}
	return c
}

// getShard returns the shard for the given key.
func (c *ShardedSnapshotCache) getShard(key string) *snapshotShard {
	h := fnv.New32a()
	h.Write([]byte(key))
	return c.shards[h.Sum32()%numShards]
}

// Set stores a value for a key.
func (c *ShardedSnapshotCache) Set(key string, value any) {
	shard := c.getShard(key)
	shard.mu.Lock()
	shard.items[key] = snapshotEntry{
		value:     value,
		updatedAt: time.Now(),
	}
	shard.mu.Unlock()
}

// Get retrieves a value for a key; expired entries read as missing.
func (c *ShardedSnapshotCache) Get(key string) (any, bool) {
	shard := c.getShard(key)
	shard.mu.RLock()
	entry, ok := shard.items[key]
	shard.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.ttl > 0 && time.Since(entry.updatedAt) > c.ttl {
		return nil, false
	}
	return entry.value, true
}

// Delete removes a key from the cache.
func (c *ShardedSnapshotCache) Delete(key string) {
	shard := c.getShard(key)
	shard.mu.Lock()
	delete(shard.items, key)
	shard.mu.Unlock()
}

// Len returns total items across all shards, including expired ones.
func (c *ShardedSnapshotCache) Len() int {
	total := 0
	for _, shard := range c.shards {
		shard.mu.RLock()
		total += len(shard.items)
		shard.mu.RUnlock()
	}
	return total
}

// Cleanup removes entries older than the cache TTL and returns the count.
func (c *ShardedSnapshotCache) Cleanup() int {
	if c.ttl <= 0 {
		return 0
	}
	removed := 0
	cutoff := time.Now().Add(-c.ttl)

	for _, shard := range c.shards {
		shard.mu.Lock()
		for key, entry := range shard.items {
			if entry.updatedAt.Before(cutoff) {
				delete(shard.items, key)
				removed++
			}
		}
		shard.mu.Unlock()
	}
	return removed
}
