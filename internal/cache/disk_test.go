package cache

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDiskCache_PersistsAcrossOpen(t *testing.T) {
	dir := t.TempDir()
	small := []byte("<maryxml/>")
	large := bytes.Repeat([]byte("<ph p=\"a\" d=\"100\"/>"), 200)

	dc, err := NewDiskCache(dir, 1<<20, 3)
	if err != nil {
		t.Fatalf("NewDiskCache() error = %v", err)
	}
	for key, value := range map[string][]byte{"small": small, "large": large} {
		if err := dc.Put(key, value); err != nil {
			t.Fatalf("Put(%q) error = %v", key, err)
		}
	}
	if err := dc.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	dc, err = NewDiskCache(dir, 1<<20, 3)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer dc.Close()

	tests := []struct {
		key        string
		want       []byte
		compressed bool
	}{
		{"small", small, false},
		{"large", large, true},
	}
	entries := map[string]EntryInfo{}
	for _, e := range dc.Entries() {
		entries[e.Key] = e
	}
	for _, tt := range tests {
		got, ok := dc.Get(tt.key)
		if !ok || !bytes.Equal(got, tt.want) {
			t.Errorf("Get(%q) = %d bytes, %v, want %d bytes", tt.key, len(got), ok, len(tt.want))
		}
		if e := entries[tt.key]; e.Compressed != tt.compressed || e.OriginalSize != int64(len(tt.want)) {
			t.Errorf("entry %q = %+v, want compressed=%v", tt.key, e, tt.compressed)
		}
	}
	if dc.Size() >= int64(len(small)+len(large)) {
		t.Errorf("Size() = %d, want less than %d", dc.Size(), len(small)+len(large))
	}
}

func TestDiskCache_MissingFile(t *testing.T) {
	dir := t.TempDir()
	dc, err := NewDiskCache(dir, 1<<20, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer dc.Close()

	_ = dc.Put("doc", []byte("hello"))
	if err := os.Remove(filepath.Join(dir, "doc.doc")); err != nil {
		t.Fatal(err)
	}

	if _, ok := dc.Get("doc"); ok {
		t.Error("Get() ok = true for a deleted file")
	}
	if dc.Contains("doc") || dc.Size() != 0 {
		t.Errorf("entry kept after failed read: Contains=%v Size=%d", dc.Contains("doc"), dc.Size())
	}
}

func TestDiskCache_Eviction(t *testing.T) {
	dc, err := NewDiskCache(t.TempDir(), 30, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer dc.Close()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	dc.now = func() time.Time { now = now.Add(time.Second); return now }

	_ = dc.Put("a", make([]byte, 10))
	_ = dc.Put("b", make([]byte, 10))
	_ = dc.Put("c", make([]byte, 10))
	dc.Get("a")
	_ = dc.Put("d", make([]byte, 10))

	if dc.Contains("b") {
		t.Error("least recently accessed entry b was kept")
	}
	for _, key := range []string{"a", "c", "d"} {
		if !dc.Contains(key) {
			t.Errorf("Contains(%q) = false, want true", key)
		}
	}
	if err := dc.Put("huge", make([]byte, 31)); !errors.Is(err, ErrItemTooLarge) {
		t.Errorf("Put(huge) error = %v, want ErrItemTooLarge", err)
	}
}

func TestDiskCache_RemoveOlderThan(t *testing.T) {
	dc, err := NewDiskCache(t.TempDir(), 1<<10, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer dc.Close()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	dc.now = func() time.Time { return now }
	_ = dc.Put("old", []byte("1"))
	now = now.Add(48 * time.Hour)
	_ = dc.Put("new", []byte("2"))

	if n := dc.RemoveOlderThan(now.Add(-24 * time.Hour)); n != 1 {
		t.Errorf("RemoveOlderThan() = %d, want 1", n)
	}
	if dc.Contains("old") || !dc.Contains("new") {
		t.Errorf("old=%v new=%v, want false true", dc.Contains("old"), dc.Contains("new"))
	}
}

func TestDiskCache_Clear(t *testing.T) {
	dir := t.TempDir()
	dc, err := NewDiskCache(dir, 1<<10, 0)
	if err != nil {
		t.Fatal(err)
	}
	_ = dc.Put("doc", []byte("x"))
	if err := dc.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if s := dc.Stats(); s.ItemCount != 0 || s.Size != 0 {
		t.Errorf("Stats() after Clear = %+v", s)
	}
	if _, err := os.Stat(filepath.Join(dir, "doc.doc")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("cache file still present: %v", err)
	}
	_ = dc.Close()
}

func TestDiskCache_CorruptIndex(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, indexFile), []byte("not gob"), 0o644); err != nil {
		t.Fatal(err)
	}

	dc, err := NewDiskCache(dir, 1<<10, 0)
	if err != nil {
		t.Fatalf("NewDiskCache() error = %v, want a fresh cache", err)
	}
	defer dc.Close()
	if n := len(dc.Entries()); n != 0 {
		t.Errorf("Entries() = %d, want 0", n)
	}
}
