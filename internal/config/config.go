// Package config holds the settings shared by every simplephon command and
// loads them from the configuration file and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dgnsrekt/simplephon/internal/acoustic"
	"github.com/dgnsrekt/simplephon/internal/allophones"
	"github.com/dgnsrekt/simplephon/internal/cache"
	"github.com/dgnsrekt/simplephon/internal/render"
	"github.com/dgnsrekt/simplephon/utterance"
	"github.com/dustin/go-humanize"
	"github.com/mitchellh/go-homedir"
	gap "github.com/muesli/go-app-paths"
)

// AppName names the config file, cache directory and environment prefix.
const AppName = "simplephon"

// Config contains all conversion settings.
type Config struct {
	Locale    string `yaml:"locale" env:"SIMPLEPHON_LOCALE"`
	Inventory string `yaml:"inventory" env:"SIMPLEPHON_INVENTORY"`
	Format    string `yaml:"format" env:"SIMPLEPHON_FORMAT"`

	Duration DurationConfig `yaml:"duration"`
	Boundary BoundaryConfig `yaml:"boundary"`
	Cache    CacheConfig    `yaml:"cache"`
}

// DurationConfig sets the phone timing model, in milliseconds and percent.
type DurationConfig struct {
	Consonant int `yaml:"consonant" env:"SIMPLEPHON_DURATION_CONSONANT"`
	Vowel     int `yaml:"vowel" env:"SIMPLEPHON_DURATION_VOWEL"`
	Primary   int `yaml:"primary" env:"SIMPLEPHON_DURATION_PRIMARY"`
	Secondary int `yaml:"secondary" env:"SIMPLEPHON_DURATION_SECONDARY"`
}

// BoundaryConfig sets the boundary closing each phrase.
type BoundaryConfig struct {
	Tone     int `yaml:"tone" env:"SIMPLEPHON_BOUNDARY_TONE"`
	Duration int `yaml:"duration" env:"SIMPLEPHON_BOUNDARY_DURATION"`
}

// CacheConfig controls the rendered document cache.
type CacheConfig struct {
	Enabled          bool          `yaml:"enabled" env:"SIMPLEPHON_CACHE_ENABLED"`
	Dir              string        `yaml:"dir" env:"SIMPLEPHON_CACHE_DIR"`
	MemorySize       ByteSize      `yaml:"memory_size" env:"SIMPLEPHON_CACHE_MEMORY_SIZE"`
	DiskSize         ByteSize      `yaml:"disk_size" env:"SIMPLEPHON_CACHE_DISK_SIZE"`
	CompressionLevel int           `yaml:"compression_level" env:"SIMPLEPHON_CACHE_COMPRESSION_LEVEL"`
	TTL              time.Duration `yaml:"ttl" env:"SIMPLEPHON_CACHE_TTL"`
}

// ByteSize is a size in bytes written either as a plain count or in a human
// readable form such as "64MiB".
type ByteSize int64

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *ByteSize) UnmarshalText(text []byte) error {
	n, err := humanize.ParseBytes(string(text))
	if err != nil {
		return err
	}
	*b = ByteSize(n) //nolint:gosec
	return nil
}

// String formats the size with binary units.
func (b ByteSize) String() string {
	return humanize.IBytes(uint64(b)) //nolint:gosec
}

// DefaultConfig returns a Config with the standard timing model and an
// en-US inventory.
func DefaultConfig() Config {
	model := acoustic.DefaultDurationModel()
	boundary := utterance.DefaultBoundary()
	defaults := cache.DefaultConfig()

	return Config{
		Locale: "en-US",
		Format: string(render.FormatXML),
		Duration: DurationConfig{
			Consonant: model.Consonant,
			Vowel:     model.Vowel,
			Primary:   model.PrimaryPercent,
			Secondary: model.SecondaryPercent,
		},
		Boundary: BoundaryConfig{
			Tone:     boundary.Tone,
			Duration: boundary.Duration,
		},
		Cache: CacheConfig{
			Enabled:          false,
			Dir:              DefaultCacheDir(),
			MemorySize:       ByteSize(defaults.MemoryCapacity),
			DiskSize:         ByteSize(defaults.DiskCapacity),
			CompressionLevel: defaults.CompressionLevel,
			TTL:              defaults.TTL,
		},
	}
}

// DefaultCacheDir returns the per-user cache directory, or an empty string
// when none can be determined.
func DefaultCacheDir() string {
	dir, err := gap.NewScope(gap.User, AppName).CacheDir()
	if err != nil {
		return ""
	}
	return dir
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := allophones.ParseLocale(c.Locale); err != nil {
		return err
	}

	f, err := render.ParseFormat(c.Format)
	if err != nil {
		return err
	}
	c.Format = string(f)

	if err := c.DurationModel().Validate(); err != nil {
		return err
	}

	if c.Boundary.Tone < 0 || c.Boundary.Tone > 6 {
		return fmt.Errorf("boundary tone must be between 0 and 6, got %d", c.Boundary.Tone)
	}
	if c.Boundary.Duration < 0 {
		return fmt.Errorf("boundary duration must not be negative, got %d", c.Boundary.Duration)
	}

	return c.Cache.Validate()
}

// Validate checks the cache settings. They are only enforced when the cache
// is enabled.
func (c *CacheConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Dir == "" {
		return fmt.Errorf("cache directory is not set")
	}
	if c.MemorySize <= 0 || c.DiskSize <= 0 {
		return fmt.Errorf("cache sizes must be positive, got memory %d and disk %d", int64(c.MemorySize), int64(c.DiskSize))
	}
	if c.CompressionLevel < 0 || c.CompressionLevel > 22 {
		return fmt.Errorf("cache compression level must be between 0 and 22, got %d", c.CompressionLevel)
	}
	if c.TTL < 0 {
		return fmt.Errorf("cache ttl must not be negative, got %s", c.TTL)
	}
	return nil
}

// DurationModel converts the duration settings.
func (c Config) DurationModel() acoustic.DurationModel {
	return acoustic.DurationModel{
		Consonant:        c.Duration.Consonant,
		Vowel:            c.Duration.Vowel,
		PrimaryPercent:   c.Duration.Primary,
		SecondaryPercent: c.Duration.Secondary,
	}
}

// PhraseBoundary converts the boundary settings.
func (c Config) PhraseBoundary() utterance.Boundary {
	return utterance.Boundary{Tone: c.Boundary.Tone, Duration: c.Boundary.Duration}
}

// ToCacheConfig converts the cache settings.
func (c CacheConfig) ToCacheConfig() cache.Config {
	return cache.Config{
		MemoryCapacity:   int64(c.MemorySize),
		DiskCapacity:     int64(c.DiskSize),
		DiskPath:         ExpandPath(c.Dir),
		CompressionLevel: c.CompressionLevel,
		TTL:              c.TTL,
	}
}

// String summarizes the cache settings for display.
func (c CacheConfig) String() string {
	if !c.Enabled {
		return "disabled"
	}
	return fmt.Sprintf("%s (memory %s, disk %s)", c.Dir, c.MemorySize, c.DiskSize)
}

// ExpandPath expands a leading ~ and environment variables in path.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	expanded, err := homedir.Expand(os.ExpandEnv(path))
	if err != nil {
		return path
	}
	return filepath.Clean(expanded)
}
