package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

// Env holds process level settings that only come from the environment.
type Env struct {
	LogLevel   string `env:"SIMPLEPHON_LOG_LEVEL" envDefault:"warn"`
	LogFile    string `env:"SIMPLEPHON_LOG_FILE"`
	ConfigHome string `env:"SIMPLEPHON_CONFIG_HOME"`
	NoColor    bool   `env:"NO_COLOR"`
}

// LoadEnv reads Env from the process environment.
func LoadEnv() (Env, error) {
	e, err := env.ParseAs[Env]()
	if err != nil {
		return e, fmt.Errorf("error parsing environment: %w", err)
	}
	return e, nil
}

// Override changes a loaded configuration before it is validated. The
// command line uses it for flags, which win over the environment.
type Override func(*Config)

// LoadFromViper loads the configuration from Viper, then applies
// SIMPLEPHON_* environment overrides and the given overrides, and validates
// the result.
func LoadFromViper(overrides ...Override) (Config, error) {
	cfg := DefaultConfig()

	if viper.IsSet("locale") {
		cfg.Locale = viper.GetString("locale")
	}
	if viper.IsSet("inventory") {
		cfg.Inventory = viper.GetString("inventory")
	}
	if viper.IsSet("format") {
		cfg.Format = viper.GetString("format")
	}

	if viper.IsSet("duration.consonant") {
		cfg.Duration.Consonant = viper.GetInt("duration.consonant")
	}
	if viper.IsSet("duration.vowel") {
		cfg.Duration.Vowel = viper.GetInt("duration.vowel")
	}
	if viper.IsSet("duration.primary") {
		cfg.Duration.Primary = viper.GetInt("duration.primary")
	}
	if viper.IsSet("duration.secondary") {
		cfg.Duration.Secondary = viper.GetInt("duration.secondary")
	}

	if viper.IsSet("boundary.tone") {
		cfg.Boundary.Tone = viper.GetInt("boundary.tone")
	}
	if viper.IsSet("boundary.duration") {
		cfg.Boundary.Duration = viper.GetInt("boundary.duration")
	}

	cache, err := loadCacheConfig(cfg.Cache)
	if err != nil {
		return cfg, err
	}
	cfg.Cache = cache

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("error parsing environment: %w", err)
	}
	for _, o := range overrides {
		o(&cfg)
	}
	cfg.Inventory = ExpandPath(cfg.Inventory)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}

	log.Debug("loaded configuration", "locale", cfg.Locale, "format", cfg.Format, "cache", cfg.Cache)
	return cfg, nil
}

// loadCacheConfig reads the cache section. Sizes accept plain byte counts
// or human readable values such as "64MiB".
func loadCacheConfig(cfg CacheConfig) (CacheConfig, error) {
	if viper.IsSet("cache.enabled") {
		cfg.Enabled = viper.GetBool("cache.enabled")
	}
	if viper.IsSet("cache.dir") {
		cfg.Dir = viper.GetString("cache.dir")
	}
	if viper.IsSet("cache.memory_size") {
		if err := cfg.MemorySize.UnmarshalText([]byte(viper.GetString("cache.memory_size"))); err != nil {
			return cfg, fmt.Errorf("invalid cache.memory_size: %w", err)
		}
	}
	if viper.IsSet("cache.disk_size") {
		if err := cfg.DiskSize.UnmarshalText([]byte(viper.GetString("cache.disk_size"))); err != nil {
			return cfg, fmt.Errorf("invalid cache.disk_size: %w", err)
		}
	}
	if viper.IsSet("cache.compression_level") {
		cfg.CompressionLevel = viper.GetInt("cache.compression_level")
	}
	if viper.IsSet("cache.ttl") {
		d, err := time.ParseDuration(viper.GetString("cache.ttl"))
		if err != nil {
			return cfg, fmt.Errorf("invalid cache.ttl: %w", err)
		}
		cfg.TTL = d
	}
	return cfg, nil
}

// SetDefaults sets default values in Viper.
func SetDefaults() {
	defaults := DefaultConfig()

	viper.SetDefault("locale", defaults.Locale)
	viper.SetDefault("format", defaults.Format)

	viper.SetDefault("duration.consonant", defaults.Duration.Consonant)
	viper.SetDefault("duration.vowel", defaults.Duration.Vowel)
	viper.SetDefault("duration.primary", defaults.Duration.Primary)
	viper.SetDefault("duration.secondary", defaults.Duration.Secondary)

	viper.SetDefault("boundary.tone", defaults.Boundary.Tone)
	viper.SetDefault("boundary.duration", defaults.Boundary.Duration)

	viper.SetDefault("cache.enabled", defaults.Cache.Enabled)
	viper.SetDefault("cache.compression_level", defaults.Cache.CompressionLevel)
	viper.SetDefault("cache.ttl", defaults.Cache.TTL.String())
}
