package cache

import (
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/zeebo/blake3"
)

// Common errors for cache operations
var (
	// ErrItemTooLarge is returned when an item exceeds the cache capacity
	ErrItemTooLarge = errors.New("item too large for cache")

	// ErrCacheCorrupted is returned when cache data is corrupted
	ErrCacheCorrupted = errors.New("cache data corrupted")
)

// Level represents the cache tier
type Level int

const (
	// LevelMemory is the in-memory cache (fastest)
	LevelMemory Level = iota

	// LevelDisk is the disk cache (persistent)
	LevelDisk
)

// String returns the string representation of the cache level
func (l Level) String() string {
	switch l {
	case LevelMemory:
		return "L1-Memory"
	case LevelDisk:
		return "L2-Disk"
	default:
		return "Unknown"
	}
}

// Stats holds cache performance metrics
type Stats struct {
	Capacity  int64 // Maximum capacity in bytes
	Size      int64 // Current size in bytes
	ItemCount int64 // Number of items in cache

	Hits      int64
	Misses    int64
	Evictions int64
	HitRate   float64 // hits / (hits + misses)
}

func (s *Stats) updateHitRate() {
	if s.Hits+s.Misses > 0 {
		s.HitRate = float64(s.Hits) / float64(s.Hits+s.Misses)
	}
}

// Config holds configuration for a Manager
type Config struct {
	MemoryCapacity   int64         // Bytes
	DiskCapacity     int64         // Bytes
	DiskPath         string        // Directory for cache files
	CompressionLevel int           // Zstd compression level (1-22), 0 disables compression
	TTL              time.Duration // Entries older than this are dropped on open; 0 keeps them
}

// DefaultConfig returns the default cache configuration
func DefaultConfig() Config {
	return Config{
		MemoryCapacity:   16 * 1024 * 1024,  // 16MB
		DiskCapacity:     256 * 1024 * 1024, // 256MB
		CompressionLevel: 3,
		TTL:              30 * 24 * time.Hour,
	}
}

// Key identifies a rendered document by everything that influences it.
type Key struct {
	Text      string
	Locale    string
	Format    string
	Inventory string // inventory digest
	Durations [4]int // consonant, vowel, primary %, secondary %
	Boundary  [2]int // tone, duration
}

// String returns the hashed form of the key used for storage.
func (k Key) String() string {
	data := fmt.Sprintf("%q|%s|%s|%s|%v|%v", k.Text, k.Locale, k.Format, k.Inventory, k.Durations, k.Boundary)
	sum := blake3.Sum256([]byte(data))
	return hex.EncodeToString(sum[:16])
}
