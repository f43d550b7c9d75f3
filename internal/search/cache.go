package search

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/docfusion/docfusion/pkg/types"
)

const (
	// DefaultCacheSize bounds the number of cached result sets.
	DefaultCacheSize = 512

	// DefaultCacheTTL expires cached result sets even without writes.
	DefaultCacheTTL = 5 * time.Minute
)

// cacheEntry is a cached result set with its expiry.
type cacheEntry struct {
	results   []types.ScoredResult
	expiresAt time.Time
}

// queryCache caches search results with LRU eviction and TTL expiry.
// Invalidation is per collection: each collection carries a generation
// counter baked into the cache key, so bumping it orphans every cached
// entry for that collection.
type queryCache struct {
	mu          sync.Mutex
	entries     *lru.Cache[string, cacheEntry]
	ttl         time.Duration
	generations map[string]uint64
}

func newQueryCache(size int, ttl time.Duration) *queryCache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	entries, err := lru.New[string, cacheEntry](size)
	if err != nil {
		entries, _ = lru.New[string, cacheEntry](DefaultCacheSize)
	}
	return &queryCache{
		entries:     entries,
		ttl:         ttl,
		generations: make(map[string]uint64),
	}
}

// key derives a stable cache key for a request, including the
// collection's current generation.
func (c *queryCache) key(req types.SearchRequest) string {
	c.mu.Lock()
	gen := c.generations[req.Collection]
	c.mu.Unlock()

	h := sha256.New()
	var buf [8]byte

	binary.LittleEndian.PutUint64(buf[:], gen)
	h.Write(buf[:])
	h.Write([]byte(req.Collection))
	h.Write([]byte{0})
	h.Write([]byte(req.Mode))
	h.Write([]byte{0})
	h.Write([]byte(req.QueryText))
	h.Write([]byte{0})

	binary.LittleEndian.PutUint64(buf[:], uint64(req.TopK))
	h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], uint64(int64(req.MinScore*1e9)))
	h.Write(buf[:])

	for _, v := range req.QueryVector {
		binary.LittleEndian.PutUint32(buf[:4], math.Float32bits(v))
		h.Write(buf[:4])
	}

	return hex.EncodeToString(h.Sum(nil))
}

func (c *queryCache) get(key string) ([]types.ScoredResult, bool) {
	entry, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		c.entries.Remove(key)
		return nil, false
	}

	// Copy so callers cannot mutate the cached slice.
	results := make([]types.ScoredResult, len(entry.results))
	copy(results, entry.results)
	return results, true
}

func (c *queryCache) set(key string, results []types.ScoredResult) {
	stored := make([]types.ScoredResult, len(results))
	copy(stored, results)
	c.entries.Add(key, cacheEntry{
		results:   stored,
		expiresAt: time.Now().Add(c.ttl),
	})
}

// invalidate orphans all cached entries for a collection.
func (c *queryCache) invalidate(collection string) {
	c.mu.Lock()
	c.generations[collection]++
	c.mu.Unlock()
}

