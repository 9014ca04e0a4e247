package cache

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// ManagerStats aggregates the metrics of both levels.
type ManagerStats struct {
	Memory     Stats
	Disk       Stats
	Hits       int64
	Misses     int64
	Promotions int64
}

// Manager coordinates the memory and disk levels. Lookups check memory
// first and promote disk hits into memory; writes go to both levels.
type Manager struct {
	memory *MemoryCache
	disk   *DiskCache
	config Config

	mu    sync.Mutex
	stats ManagerStats
}

// NewManager opens a two-level cache. Entries older than config.TTL are
// removed from disk while opening.
func NewManager(config Config) (*Manager, error) {
	if config.DiskPath == "" {
		return nil, errors.New("cache directory is not set")
	}

	disk, err := NewDiskCache(config.DiskPath, config.DiskCapacity, config.CompressionLevel)
	if err != nil {
		return nil, fmt.Errorf("unable to open disk cache: %w", err)
	}

	m := &Manager{
		memory: NewMemoryCache(config.MemoryCapacity),
		disk:   disk,
		config: config,
	}
	if config.TTL > 0 {
		if n := m.Prune(config.TTL); n > 0 {
			log.Debug("pruned expired cache entries", "count", n, "ttl", config.TTL)
		}
	}
	return m, nil
}

// Get returns the document stored under key.
func (m *Manager) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if data, ok := m.memory.Get(key); ok {
		m.stats.Hits++
		return data, true
	}

	if data, ok := m.disk.Get(key); ok {
		m.stats.Hits++
		if err := m.memory.Put(key, data); err == nil {
			m.stats.Promotions++
			log.Debug("promoted cache entry", "key", key, "from", LevelDisk, "to", LevelMemory)
		}
		return data, true
	}

	m.stats.Misses++
	return nil, false
}

// Put stores value under key in both levels. A document too large for
// memory is still written to disk.
func (m *Manager) Put(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.memory.Put(key, value); err != nil && !errors.Is(err, ErrItemTooLarge) {
		return fmt.Errorf("%s: %w", LevelMemory, err)
	}
	if err := m.disk.Put(key, value); err != nil {
		return fmt.Errorf("%s: %w", LevelDisk, err)
	}
	return nil
}

// Delete removes key from both levels.
func (m *Manager) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.memory.Delete(key)
	m.disk.Delete(key)
}

// Contains reports whether either level holds key.
func (m *Manager) Contains(key string) bool {
	return m.memory.Contains(key) || m.disk.Contains(key)
}

// Prune removes entries older than maxAge from both levels and returns the
// number of disk entries removed.
func (m *Manager) Prune(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.memory.Prune(maxAge)
	return m.disk.RemoveOlderThan(m.disk.now().Add(-maxAge))
}

// Clear empties both levels.
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.memory.Clear()
	return m.disk.Clear()
}

// Entries lists the documents stored on disk.
func (m *Manager) Entries() []EntryInfo {
	return m.disk.Entries()
}

// Path returns the disk cache directory.
func (m *Manager) Path() string {
	return m.disk.Path()
}

// Stats returns the combined metrics.
func (m *Manager) Stats() ManagerStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.stats
	s.Memory = m.memory.Stats()
	s.Disk = m.disk.Stats()
	return s
}

// Close persists the disk index.
func (m *Manager) Close() error {
	return m.disk.Close()
}
