package searcher

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/baasilali/2m-backend/pkg/types"
)

// cacheEntry represents a cached response with expiration time
type cacheEntry struct {
	response  *Response
	expiresAt time.Time
}

// resultCache is a bounded LRU of responses with a per-entry TTL
type resultCache struct {
	cache *lru.Cache[[32]byte, *cacheEntry]
	ttl   time.Duration
	mu    sync.RWMutex
}

// newResultCache returns nil when size is not positive, which disables
// caching
func newResultCache(size int, ttl time.Duration) *resultCache {
	if size <= 0 {
		return nil
	}
	cache, err := lru.New[[32]byte, *cacheEntry](size)
	if err != nil {
		// This should never happen with a positive size
		panic(fmt.Sprintf("failed to create LRU cache: %v", err))
	}
	return &resultCache{cache: cache, ttl: ttl}
}

// get returns a copy of the cached response for key
func (c *resultCache) get(key [32]byte) (*Response, bool) {
	if c == nil {
		return nil, false
	}
	now := time.Now()

	c.mu.RLock()
	entry, found := c.cache.Get(key)
	if !found {
		c.mu.RUnlock()
		return nil, false
	}

	if c.ttl > 0 && now.After(entry.expiresAt) {
		c.mu.RUnlock()

		c.mu.Lock()
		c.cache.Remove(key)
		c.mu.Unlock()
		return nil, false
	}

	response := copyResponse(entry.response)
	c.mu.RUnlock()
	return response, true
}

// put stores a copy of response under key
func (c *resultCache) put(key [32]byte, response *Response) {
	if c == nil {
		return
	}
	entry := &cacheEntry{
		response:  copyResponse(response),
		expiresAt: time.Now().Add(c.ttl),
	}

	c.mu.Lock()
	c.cache.Add(key, entry)
	c.mu.Unlock()
}

// purge drops every entry
func (c *resultCache) purge() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.cache.Purge()
	c.mu.Unlock()
}

func (c *resultCache) len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cache.Len()
}

// cacheKey hashes the trimmed query together with the catalog version so
// a reloaded catalog never serves stale answers
func cacheKey(query string, version uint64) [32]byte {
	return sha256.Sum256([]byte(fmt.Sprintf("%s|%d", strings.TrimSpace(query), version)))
}

// copyResponse creates a deep copy of a Response. Items hold only values,
// so copying the match slice is enough.
func copyResponse(src *Response) *Response {
	if src == nil {
		return nil
	}
	dst := *src
	if src.Query != nil {
		q := *src.Query
		dst.Query = &q
	}
	dst.Matches = make([]types.Match, len(src.Matches))
	copy(dst.Matches, src.Matches)
	return &dst
}
