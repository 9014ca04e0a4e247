package cache

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/zstd"
)

const (
	indexFile = "cache.index"

	// documents smaller than this are stored as is
	compressThreshold = 512
)

// EntryInfo describes a stored document.
type EntryInfo struct {
	Key          string
	Size         int64 // on disk
	OriginalSize int64
	StoredAt     time.Time
	LastAccess   time.Time
	Hits         int64
	Compressed   bool
}

// DiskCache is the L2 level. Documents live in one file each under the base
// path, optionally zstd-compressed, with a gob index written on Close.
type DiskCache struct {
	basePath string
	capacity int64
	size     int64

	encoder *zstd.Encoder
	decoder *zstd.Decoder

	index map[string]*EntryInfo

	mu    sync.Mutex
	stats Stats
	now   func() time.Time
}

// NewDiskCache opens or creates a disk cache in basePath. A compressionLevel
// of 0 disables compression.
func NewDiskCache(basePath string, capacity int64, compressionLevel int) (*DiskCache, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("unable to create cache directory: %w", err)
	}

	dc := &DiskCache{
		basePath: basePath,
		capacity: capacity,
		index:    make(map[string]*EntryInfo),
		stats:    Stats{Capacity: capacity},
		now:      time.Now,
	}

	if compressionLevel > 0 {
		var err error
		dc.encoder, err = zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(compressionLevel)))
		if err != nil {
			return nil, fmt.Errorf("unable to create zstd encoder: %w", err)
		}
	}
	// Decoding stays available so entries written with compression can be
	// read back after it is turned off.
	var err error
	dc.decoder, err = zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("unable to create zstd decoder: %w", err)
	}

	if err := dc.loadIndex(); err != nil {
		log.Warn("discarding cache index", "path", basePath, "error", err)
		dc.index = make(map[string]*EntryInfo)
	}
	dc.reconcile()

	return dc, nil
}

// Get reads the document stored under key. Entries whose file is missing or
// unreadable are dropped and reported as misses.
func (dc *DiskCache) Get(key string) ([]byte, bool) {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	entry, ok := dc.index[key]
	if !ok {
		dc.stats.Misses++
		return nil, false
	}

	data, err := dc.read(entry)
	if err != nil {
		log.Debug("dropping unreadable cache entry", "key", key, "error", err)
		dc.drop(key)
		dc.stats.Misses++
		return nil, false
	}

	entry.LastAccess = dc.now()
	entry.Hits++
	dc.stats.Hits++
	return data, true
}

// Put writes value under key, evicting the least recently accessed entries
// until it fits.
func (dc *DiskCache) Put(key string, value []byte) error {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	data, compressed := value, false
	if dc.encoder != nil && len(value) >= compressThreshold {
		if packed := dc.encoder.EncodeAll(value, nil); len(packed) < len(value) {
			data, compressed = packed, true
		}
	}

	n := int64(len(data))
	if n > dc.capacity {
		return ErrItemTooLarge
	}

	if _, ok := dc.index[key]; ok {
		dc.drop(key)
	}
	for dc.size+n > dc.capacity && len(dc.index) > 0 {
		dc.evictOldest()
	}

	if err := writeFileAtomic(dc.path(key), data); err != nil {
		return fmt.Errorf("unable to write cache file: %w", err)
	}

	now := dc.now()
	dc.index[key] = &EntryInfo{
		Key:          key,
		Size:         n,
		OriginalSize: int64(len(value)),
		StoredAt:     now,
		LastAccess:   now,
		Compressed:   compressed,
	}
	dc.size += n
	return nil
}

// Delete removes key. Missing keys are ignored.
func (dc *DiskCache) Delete(key string) {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	if _, ok := dc.index[key]; ok {
		dc.drop(key)
	}
}

// Clear removes every stored document and rewrites an empty index.
func (dc *DiskCache) Clear() error {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	for key := range dc.index {
		_ = os.Remove(dc.path(key))
	}
	dc.index = make(map[string]*EntryInfo)
	dc.size = 0
	return dc.saveIndex()
}

// Contains reports whether key is stored without touching its access time.
func (dc *DiskCache) Contains(key string) bool {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	_, ok := dc.index[key]
	return ok
}

// Size returns the number of bytes on disk.
func (dc *DiskCache) Size() int64 {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	return dc.size
}

// Stats returns a snapshot of the cache metrics.
func (dc *DiskCache) Stats() Stats {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	s := dc.stats
	s.Size = dc.size
	s.ItemCount = int64(len(dc.index))
	s.updateHitRate()
	return s
}

// Entries lists the stored documents, most recently accessed first.
func (dc *DiskCache) Entries() []EntryInfo {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	out := make([]EntryInfo, 0, len(dc.index))
	for _, e := range dc.index {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastAccess.Equal(out[j].LastAccess) {
			return out[i].Key < out[j].Key
		}
		return out[i].LastAccess.After(out[j].LastAccess)
	})
	return out
}

// RemoveOlderThan removes entries stored before cutoff and returns how many
// were removed.
func (dc *DiskCache) RemoveOlderThan(cutoff time.Time) int {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	removed := 0
	for key, entry := range dc.index {
		if entry.StoredAt.Before(cutoff) {
			dc.drop(key)
			removed++
		}
	}
	return removed
}

// Path returns the cache directory.
func (dc *DiskCache) Path() string {
	return dc.basePath
}

// Close writes the index and releases the codecs.
func (dc *DiskCache) Close() error {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	if dc.encoder != nil {
		_ = dc.encoder.Close()
	}
	dc.decoder.Close()
	return dc.saveIndex()
}

func (dc *DiskCache) path(key string) string {
	return filepath.Join(dc.basePath, key+".doc")
}

func (dc *DiskCache) read(entry *EntryInfo) ([]byte, error) {
	data, err := os.ReadFile(dc.path(entry.Key))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) != entry.Size {
		return nil, ErrCacheCorrupted
	}
	if !entry.Compressed {
		return data, nil
	}
	out, err := dc.decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheCorrupted, err)
	}
	return out, nil
}

// drop must be called with the lock held.
func (dc *DiskCache) drop(key string) {
	entry := dc.index[key]
	_ = os.Remove(dc.path(key))
	dc.size -= entry.Size
	delete(dc.index, key)
}

func (dc *DiskCache) evictOldest() {
	var oldest *EntryInfo
	for _, e := range dc.index {
		if oldest == nil || e.LastAccess.Before(oldest.LastAccess) {
			oldest = e
		}
	}
	if oldest != nil {
		dc.drop(oldest.Key)
		dc.stats.Evictions++
	}
}

// reconcile drops index entries whose file has gone and recomputes the size.
func (dc *DiskCache) reconcile() {
	dc.size = 0
	for key, entry := range dc.index {
		info, err := os.Stat(dc.path(key))
		if err != nil || info.Size() != entry.Size {
			delete(dc.index, key)
			continue
		}
		dc.size += entry.Size
	}
}

func (dc *DiskCache) loadIndex() error {
	f, err := os.Open(filepath.Join(dc.basePath, indexFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	return gob.NewDecoder(f).Decode(&dc.index)
}

func (dc *DiskCache) saveIndex() error {
	f, err := os.CreateTemp(dc.basePath, indexFile+".*")
	if err != nil {
		return err
	}
	if err := gob.NewEncoder(f).Encode(dc.index); err != nil {
		f.Close()
		os.Remove(f.Name())
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return err
	}
	return os.Rename(f.Name(), filepath.Join(dc.basePath, indexFile))
}

// writeFileAtomic writes through a temporary file and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
