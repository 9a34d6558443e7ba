package texture

import (
	"image"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache is a concurrency-safe LRU of decoded textures keyed by file path.
// Failed loads are cached too so a broken file is only read once.
type Cache struct {
	items *lru.Cache[string, cacheEntry]
	loads atomic.Int64
}

type cacheEntry struct {
	img    *image.NRGBA
	format string
	err    error
}

// NewCache returns a cache holding at most size decoded images.
func NewCache(size int) (*Cache, error) {
	items, err := lru.New[string, cacheEntry](size)
	if err != nil {
		return nil, err
	}
	return &Cache{items: items}, nil
}

// Load returns the decoded image at path, reading it on a miss.
func (c *Cache) Load(path string) (*image.NRGBA, string, error) {
	if e, ok := c.items.Get(path); ok {
		return e.img, e.format, e.err
	}
	img, format, err := Load(path)
	c.loads.Add(1)
	c.items.Add(path, cacheEntry{img: img, format: format, err: err})
	return img, format, err
}

// Loads returns how many times the cache went to disk.
func (c *Cache) Loads() int64 {
	return c.loads.Load()
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	return c.items.Len()
}
