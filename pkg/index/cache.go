package index

import (
	"sync/atomic"

	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"
)

// filterCache keeps recent filter results of one index as option IDs.
// It is owned by the index, so a rebuild starts with an empty cache.
// A nil *filterCache is a valid, disabled cache.
type filterCache struct {
	entries *lru.Cache[string, []int]
	size    int
	hits    atomic.Int64
	misses  atomic.Int64
}

func newFilterCache(size int) *filterCache {
	if size <= 0 {
		return nil
	}
	entries, err := lru.New[string, []int](size)
	if err != nil {
		log.Warnf("Filter cache disabled: %v", err)
		return nil
	}
	return &filterCache{entries: entries, size: size}
}

// Get returns the cached IDs for key. Callers must not modify the slice.
func (c *filterCache) Get(key string) ([]int, bool) {
	if c == nil {
		return nil, false
	}
	ids, ok := c.entries.Get(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return ids, ok
}

func (c *filterCache) Add(key string, ids []int) {
	if c == nil {
		return
	}
	if c.entries.Add(key, ids) {
		log.Debugf("Filter cache full (%d), evicted oldest query", c.size)
	}
}

func (c *filterCache) Stats() map[string]int {
	if c == nil {
		return map[string]int{"cacheEntries": 0, "cacheSize": 0, "cacheHits": 0, "cacheMisses": 0}
	}
	return map[string]int{
		"cacheEntries": c.entries.Len(),
		"cacheSize":    c.size,
		"cacheHits":    int(c.hits.Load()),
		"cacheMisses":  int(c.misses.Load()),
	}
}
