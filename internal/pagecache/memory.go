package pagecache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is a process-local page cache with expiring entries
type Memory struct {
	cache *gocache.Cache
}

// NewMemory creates a memory cache whose entries expire after ttl
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		cache: gocache.New(ttl, 10*time.Minute),
	}
}

// Get returns the cached body for a URL, if present and unexpired
func (m *Memory) Get(url string) ([]byte, bool) {
	if val, found := m.cache.Get(key(url)); found {
		return val.([]byte), true
	}
	return nil, false
}

// Set stores a page body
func (m *Memory) Set(url string, body []byte) error {
	m.cache.Set(key(url), body, gocache.DefaultExpiration)
	return nil
}

// Clear drops all entries
func (m *Memory) Clear() error {
	m.cache.Flush()
	return nil
}
