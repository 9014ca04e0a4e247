package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dgnsrekt/simplephon/internal/acoustic"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/viper"
)

func withViper(t *testing.T, values map[string]any) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	for key, value := range values {
		viper.Set(key, value)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() error = %v", err)
	}
	if cfg.DurationModel() != acoustic.DefaultDurationModel() {
		t.Errorf("DurationModel() = %+v, want %+v", cfg.DurationModel(), acoustic.DefaultDurationModel())
	}
	if b := cfg.PhraseBoundary(); b.Tone != 4 || b.Duration != 400 {
		t.Errorf("PhraseBoundary() = %+v, want {4 400}", b)
	}
	if cfg.Format != "xml" || cfg.Cache.Enabled {
		t.Errorf("DefaultConfig() = %+v", cfg)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"format alias", func(c *Config) { c.Format = "YML" }, ""},
		{"bad format", func(c *Config) { c.Format = "pdf" }, "unknown output format"},
		{"empty locale", func(c *Config) { c.Locale = "" }, "missing locale"},
		{"bad locale", func(c *Config) { c.Locale = "!!bogus" }, `invalid locale "!!bogus"`},
		{"zero vowel", func(c *Config) { c.Duration.Vowel = 0 }, "vowel duration"},
		{"negative primary", func(c *Config) { c.Duration.Primary = -1 }, "primary stress"},
		{"tone out of range", func(c *Config) { c.Boundary.Tone = 7 }, "boundary tone"},
		{"negative boundary", func(c *Config) { c.Boundary.Duration = -5 }, "boundary duration"},
		{"cache without dir", func(c *Config) { c.Cache.Enabled = true; c.Cache.Dir = "" }, "cache directory"},
		{"cache level", func(c *Config) { c.Cache.Enabled = true; c.Cache.Dir = "/tmp/x"; c.Cache.CompressionLevel = 23 }, "compression level"},
		{"disabled cache is not checked", func(c *Config) { c.Cache.Dir = ""; c.Cache.MemorySize = 0 }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			switch {
			case tt.wantErr == "" && err != nil:
				t.Errorf("Validate() error = %v, want nil", err)
			case tt.wantErr != "" && (err == nil || !strings.Contains(err.Error(), tt.wantErr)):
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}

	cfg := DefaultConfig()
	cfg.Locale = "!!bogus"
	if err := cfg.Validate(); err == nil || strings.Count(err.Error(), "invalid locale") != 1 {
		t.Errorf("Validate() error = %v, want the locale named once", err)
	}

	cfg = DefaultConfig()
	cfg.Format = "YML"
	_ = cfg.Validate()
	if cfg.Format != "yaml" {
		t.Errorf("Validate() normalized format = %q, want yaml", cfg.Format)
	}
}

func TestLoadFromViper(t *testing.T) {
	withViper(t, map[string]any{
		"locale":                  "de",
		"format":                  "json",
		"duration.vowel":          90,
		"duration.primary":        200,
		"boundary.tone":           2,
		"cache.enabled":           true,
		"cache.dir":               t.TempDir(),
		"cache.memory_size":       "1MiB",
		"cache.disk_size":         4096,
		"cache.ttl":               "1h",
		"cache.compression_level": 5,
	})

	cfg, err := LoadFromViper()
	if err != nil {
		t.Fatalf("LoadFromViper() error = %v", err)
	}

	want := acoustic.DurationModel{Consonant: 70, Vowel: 90, PrimaryPercent: 200, SecondaryPercent: 120}
	if diff := cmp.Diff(want, cfg.DurationModel()); diff != "" {
		t.Errorf("DurationModel() mismatch (-want +got):\n%s", diff)
	}
	if cfg.Locale != "de" || cfg.Format != "json" || cfg.Boundary.Tone != 2 || cfg.Boundary.Duration != 400 {
		t.Errorf("LoadFromViper() = %+v", cfg)
	}

	c := cfg.Cache.ToCacheConfig()
	if c.MemoryCapacity != 1<<20 || c.DiskCapacity != 4096 || c.TTL != time.Hour || c.CompressionLevel != 5 {
		t.Errorf("ToCacheConfig() = %+v", c)
	}
}

func TestLoadFromViper_Errors(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]any
	}{
		{"bad size", map[string]any{"cache.memory_size": "lots"}},
		{"bad ttl", map[string]any{"cache.ttl": "soon"}},
		{"bad format", map[string]any{"format": "wav"}},
		{"bad duration", map[string]any{"duration.consonant": 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withViper(t, tt.values)
			if _, err := LoadFromViper(); err == nil {
				t.Error("LoadFromViper() error = nil")
			}
		})
	}
}

func TestLoadFromViper_EnvOverrides(t *testing.T) {
	withViper(t, map[string]any{"locale": "de", "format": "json"})
	t.Setenv("SIMPLEPHON_FORMAT", "msgpack")
	t.Setenv("SIMPLEPHON_DURATION_CONSONANT", "50")
	t.Setenv("SIMPLEPHON_INVENTORY", "$HOME/inventory.xml")

	cfg, err := LoadFromViper()
	if err != nil {
		t.Fatalf("LoadFromViper() error = %v", err)
	}
	if cfg.Format != "msgpack" || cfg.Locale != "de" || cfg.Duration.Consonant != 50 {
		t.Errorf("LoadFromViper() = %+v, want msgpack/de/50", cfg)
	}
	if want := filepath.Join(os.Getenv("HOME"), "inventory.xml"); cfg.Inventory != want {
		t.Errorf("Inventory = %q, want %q", cfg.Inventory, want)
	}
}

func TestLoadFromViper_EnvSizes(t *testing.T) {
	withViper(t, map[string]any{"cache.memory_size": "16MiB", "cache.disk_size": "256MiB"})

	tests := []struct {
		name     string
		env      map[string]string
		wantMem  ByteSize
		wantDisk ByteSize
		wantErr  bool
	}{
		{"human readable", map[string]string{"SIMPLEPHON_CACHE_MEMORY_SIZE": "1MiB", "SIMPLEPHON_CACHE_DISK_SIZE": "2MiB"}, 1 << 20, 2 << 20, false},
		{"plain bytes", map[string]string{"SIMPLEPHON_CACHE_DISK_SIZE": "4096"}, 16 << 20, 4096, false},
		{"memory only", map[string]string{"SIMPLEPHON_CACHE_MEMORY_SIZE": "512 KB"}, 512000, 256 << 20, false},
		{"bad size", map[string]string{"SIMPLEPHON_CACHE_MEMORY_SIZE": "lots"}, 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := LoadFromViper()
			if tt.wantErr {
				if err == nil {
					t.Error("LoadFromViper() error = nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadFromViper() error = %v", err)
			}
			if cfg.Cache.MemorySize != tt.wantMem || cfg.Cache.DiskSize != tt.wantDisk {
				t.Errorf("sizes = %d/%d, want %d/%d", cfg.Cache.MemorySize, cfg.Cache.DiskSize, tt.wantMem, tt.wantDisk)
			}
		})
	}
}

func TestLoadFromViper_OverridesBeatEnv(t *testing.T) {
	withViper(t, map[string]any{"locale": "de"})
	t.Setenv("SIMPLEPHON_LOCALE", "!!bogus")

	if _, err := LoadFromViper(); err == nil {
		t.Fatal("LoadFromViper() error = nil, want the invalid environment locale")
	}

	cfg, err := LoadFromViper(func(c *Config) { c.Locale = "de" })
	if err != nil {
		t.Fatalf("LoadFromViper(override) error = %v", err)
	}
	if cfg.Locale != "de" {
		t.Errorf("Locale = %q, want de", cfg.Locale)
	}
}

func TestByteSize(t *testing.T) {
	var b ByteSize
	if err := b.UnmarshalText([]byte("64MiB")); err != nil {
		t.Fatalf("UnmarshalText() error = %v", err)
	}
	if b != 64<<20 {
		t.Errorf("UnmarshalText(64MiB) = %d, want %d", b, 64<<20)
	}
	if got := b.String(); got != "64 MiB" {
		t.Errorf("String() = %q, want %q", got, "64 MiB")
	}
	if err := b.UnmarshalText([]byte("-1")); err == nil {
		t.Error("UnmarshalText(-1) error = nil")
	}
}

func TestSetDefaults(t *testing.T) {
	withViper(t, nil)
	SetDefaults()

	if got := viper.GetString("locale"); got != "en-US" {
		t.Errorf("locale = %q, want en-US", got)
	}
	if got := viper.GetInt("duration.primary"); got != 150 {
		t.Errorf("duration.primary = %d, want 150", got)
	}
	if got := viper.GetInt("boundary.duration"); got != 400 {
		t.Errorf("boundary.duration = %d, want 400", got)
	}
	if viper.GetBool("cache.enabled") {
		t.Error("cache.enabled = true, want false")
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("SIMPLEPHON_LOG_LEVEL", "debug")
	t.Setenv("NO_COLOR", "true")

	e, err := LoadEnv()
	if err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}
	if e.LogLevel != "debug" || !e.NoColor {
		t.Errorf("LoadEnv() = %+v", e)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	t.Setenv("SIMPLEPHON_TEST_DIR", "/srv/data")

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"~/cache", filepath.Join(home, "cache")},
		{"$SIMPLEPHON_TEST_DIR/en.xml", "/srv/data/en.xml"},
		{"/abs/./path", "/abs/path"},
	}
	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
