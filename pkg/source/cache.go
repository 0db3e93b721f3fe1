package source

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the number of file contents held by a Cache.
const DefaultCacheSize = 4096

// Cache is a Reader that keeps recently read contents keyed by path, so a
// run that visits a file from several analyzers reads it once. Failed reads
// are not cached.
type Cache struct {
	entries *lru.Cache[string, []byte]
	misses  int
}

// NewCache creates a cache holding up to size files.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create content cache: %w", err)
	}
	return &Cache{entries: entries}, nil
}

// Read returns cached content or reads it through the handle.
func (c *Cache) Read(ctx context.Context, h Handle) ([]byte, error) {
	if data, ok := c.entries.Get(h.Path()); ok {
		return data, nil
	}
	data, err := h.Read(ctx)
	if err != nil {
		return nil, err
	}
	c.misses++
	c.entries.Add(h.Path(), data)
	return data, nil
}

// Reads returns how many reads went through to a handle.
func (c *Cache) Reads() int {
	return c.misses
}

// Purge drops every cached entry.
func (c *Cache) Purge() {
	c.entries.Purge()
}
