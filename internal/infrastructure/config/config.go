package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all storage-core configuration.
type Config struct {
	Storage StorageConfig
	Index   IndexConfig
	Search  SearchConfig
	Recycle RecycleConfig
	Logging LogConfig
}

// StorageConfig holds storage root configuration.
type StorageConfig struct {
	// Roots are the directories the index and live search cover.
	Roots []string `envconfig:"STORAGE_ROOTS"`
	// StateDir holds the key-value store; it is the app's private sandbox,
	// exempt from the permission gate.
	StateDir string `envconfig:"STATE_DIR" default:".fmcore"`
}

// IndexConfig holds file index configuration.
type IndexConfig struct {
	// MaxDepth bounds the walk; 0 means unlimited.
	MaxDepth    int           `envconfig:"INDEX_MAX_DEPTH" default:"0"`
	SnapshotTTL time.Duration `envconfig:"INDEX_SNAPSHOT_TTL" default:"5m"`
	Persist     bool          `envconfig:"INDEX_PERSIST" default:"true"`
}

// SearchConfig holds search engine configuration.
type SearchConfig struct {
	Limit       int `envconfig:"SEARCH_LIMIT" default:"100"`
	RecentLimit int `envconfig:"SEARCH_RECENT_LIMIT" default:"5"`
}

// RecycleConfig holds recycle bin configuration.
type RecycleConfig struct {
	HoldingDirName string `envconfig:"RECYCLE_HOLDING_DIR" default:".trashed"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			StateDir: ".fmcore",
		},
		Index: IndexConfig{
			MaxDepth:    0,
			SnapshotTTL: 5 * time.Minute,
			Persist:     true,
		},
		Search: SearchConfig{
			Limit:       100,
			RecentLimit: 5,
		},
		Recycle: RecycleConfig{
			HoldingDirName: ".trashed",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
}
