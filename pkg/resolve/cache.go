package resolve

import (
	"sync"

	"github.com/hashicorp/golang-lru/v2/simplelru"

	"github.com/hashicorp-forge/wikicli/pkg/models"
)

// DefaultCacheSize is the capacity of each direction of a Cache.
const DefaultCacheSize = 1024

// Cache remembers space id <-> key mappings for the lifetime of a process.
// It is safe for concurrent use. The lock only guards map access and is
// never held while a request is in flight.
type Cache struct {
	mu sync.Mutex

	// keys maps space id to the display key (the space name for personal
	// spaces).
	keys *simplelru.LRU[string, string]

	// ids maps a raw space key to its id.
	ids *simplelru.LRU[string, string]
}

// NewCache returns an empty cache holding up to size entries per direction.
func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	keys, err := simplelru.NewLRU[string, string](size, nil)
	if err != nil {
		panic(err)
	}
	ids, err := simplelru.NewLRU[string, string](size, nil)
	if err != nil {
		panic(err)
	}
	return &Cache{keys: keys, ids: ids}
}

// SpaceKey returns the cached display key for a space id.
func (c *Cache) SpaceKey(id string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.keys.Get(id)
}

// SpaceID returns the cached id for a raw space key.
func (c *Cache) SpaceID(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ids.Get(key)
}

// partition splits ids into the cached display keys and the ids that still
// need a lookup.
func (c *Cache) partition(ids []string) (map[string]string, []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	hits := make(map[string]string, len(ids))
	var misses []string
	for _, id := range ids {
		if key, ok := c.keys.Get(id); ok {
			hits[id] = key
		} else {
			misses = append(misses, id)
		}
	}
	return hits, misses
}

// AddSpace records both directions for s.
func (c *Cache) AddSpace(s models.Space) {
	if s.ID == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.keys.Add(s.ID, s.DisplayKey())
	if s.Key != "" {
		c.ids.Add(s.Key, s.ID)
	}
}

// Len returns the number of id -> key entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.keys.Len()
}
