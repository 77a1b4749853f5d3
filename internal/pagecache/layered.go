package pagecache

import "time"

// Layered checks a memory cache before falling through to disk, promoting
// disk hits back into memory
type Layered struct {
	memory Cache
	disk   Cache
}

// NewLayered creates the standard memory-over-disk page cache
func NewLayered(memoryTTL time.Duration, dir string, diskTTL time.Duration) *Layered {
	return &Layered{
		memory: NewMemory(memoryTTL),
		disk:   NewDisk(dir, diskTTL),
	}
}

// Get checks memory first, then disk
func (l *Layered) Get(url string) ([]byte, bool) {
	if body, found := l.memory.Get(url); found {
		return body, true
	}
	if body, found := l.disk.Get(url); found {
		_ = l.memory.Set(url, body)
		return body, true
	}
	return nil, false
}

// Set stores the body in both layers
func (l *Layered) Set(url string, body []byte) error {
	if err := l.memory.Set(url, body); err != nil {
		return err
	}
	return l.disk.Set(url, body)
}

// Clear empties both layers
func (l *Layered) Clear() error {
	_ = l.memory.Clear()
	return l.disk.Clear()
}
