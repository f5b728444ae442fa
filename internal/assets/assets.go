// Package assets handles game asset loading and caching.
package assets

import (
	"container/list"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
)

// ErrNotFound is returned when no source holds the requested file.
var ErrNotFound = errors.New("asset not found")

// Manager loads assets from a stack of file systems.
type Manager struct {
	sources []fs.FS
	cache   *Cache
	mu      sync.RWMutex
}

// NewManager creates a new asset manager.
func NewManager() *Manager {
	return &Manager{
		cache: NewCache(DefaultCacheBytes),
	}
}

// AddSource adds a file system to the manager.
// Sources are searched in reverse order (last added = highest priority).
func (m *Manager) AddSource(fsys fs.FS) {
	m.mu.Lock()
	m.sources = append(m.sources, fsys)
	m.mu.Unlock()
}

// AddDir adds a directory on disk as a source.
func (m *Manager) AddDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("opening asset dir %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("opening asset dir %s: not a directory", dir)
	}
	m.AddSource(os.DirFS(dir))
	return nil
}

// Load loads a file from the sources.
func (m *Manager) Load(path string) ([]byte, error) {
	if data, ok := m.cache.Get(path); ok {
		return data, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.sources) - 1; i >= 0; i-- {
		data, err := fs.ReadFile(m.sources[i], path)
		if err == nil {
			m.cache.Set(path, data)
			return data, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
}

// FS returns the highest priority source, or nil when there is none.
func (m *Manager) FS() fs.FS {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.sources) == 0 {
		return nil
	}
	return m.sources[len(m.sources)-1]
}

// CachedCount returns the number of cached assets.
func (m *Manager) CachedCount() int {
	return m.cache.Len()
}

// Close drops all sources and cached data.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sources = nil
	m.cache.Clear()
}

// DefaultCacheBytes bounds the decoded asset cache.
const DefaultCacheBytes = 32 << 20

// Cache keeps recently loaded files up to a byte budget, evicting the least
// recently used entry first. A file larger than the budget is not cached.
type Cache struct {
	mu      sync.Mutex
	limit   int
	size    int
	order   *list.List // front = most recent
	entries map[string]*list.Element

	hits   int
	misses int
}

type cacheEntry struct {
	key  string
	data []byte
}

// NewCache creates a cache holding at most limit bytes. A limit <= 0 uses
// DefaultCacheBytes.
func NewCache(limit int) *Cache {
	if limit <= 0 {
		limit = DefaultCacheBytes
	}
	return &Cache{
		limit:   limit,
		order:   list.New(),
		entries: make(map[string]*list.Element),
	}
}

// Get retrieves an item and marks it as recently used.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).data, true
}

// Set stores an item, evicting old ones to stay within the budget.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.remove(el)
	}
	if len(data) > c.limit {
		return
	}
	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, data: data})
	c.size += len(data)
	for c.size > c.limit {
		c.remove(c.order.Back())
	}
}

func (c *Cache) remove(el *list.Element) {
	e := c.order.Remove(el).(*cacheEntry)
	delete(c.entries, e.key)
	c.size -= len(e.data)
}

// Len returns the number of cached items.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Size returns the cached bytes.
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// Clear empties the cache and resets its statistics.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.entries = make(map[string]*list.Element)
	c.size = 0
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
