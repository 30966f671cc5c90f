package fs

import (
	"os"
	"sync"
	"time"
)

// cacheEntry remembers the bytes read for a file at a given mtime and size.
type cacheEntry struct {
	modTime time.Time
	size    int64
	data    []byte
}

// cache avoids re-reading snapshot files that have not changed on disk.
// Entries are invalidated by mtime or size changes, so edits made by other
// processes are always picked up.
type cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

func newCache() *cache {
	return &cache{entries: make(map[string]cacheEntry)}
}

func (c *cache) get(key string, info os.FileInfo) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || !e.modTime.Equal(info.ModTime()) || e.size != info.Size() {
		return nil, false
	}
	return append([]byte(nil), e.data...), true
}

func (c *cache) put(key string, info os.FileInfo, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{
		modTime: info.ModTime(),
		size:    info.Size(),
		data:    append([]byte(nil), data...),
	}
}

func (c *cache) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// Len returns the number of cached snapshots.
func (c *cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
