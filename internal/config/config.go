// Package config loads the application configuration: defaults, then the
// YAML config file, then environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"searchsync/internal/logging"
	"searchsync/internal/syncer"
)

// Config holds the application configuration.
type Config struct {
	Logging logging.Config `yaml:"logging"`
	Mongo   MongoConfig    `yaml:"mongo"`
	Nats    NatsConfig     `yaml:"nats"`
	Sync    syncer.Config  `yaml:"sync"`

	// Watermarks selects the watermark store backend.
	Watermarks WatermarkConfig `yaml:"watermarks"`

	// Engine selects the index engine backend.
	Engine EngineConfig `yaml:"engine"`

	// DefinitionsPath optionally seeds the index registry from a YAML
	// definitions file at startup.
	DefinitionsPath string `yaml:"definitions_path"`

	// MetricsAddr is the listen address for the Prometheus endpoint.
	// Empty disables it.
	MetricsAddr string `yaml:"metrics_addr"`
}

// MongoConfig holds connection settings and collection names.
type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`

	RecordsCollection     string `yaml:"records_collection"`
	TasksCollection       string `yaml:"tasks_collection"`
	CountersCollection    string `yaml:"counters_collection"`
	DefinitionsCollection string `yaml:"definitions_collection"`
	WatermarksCollection  string `yaml:"watermarks_collection"`
	LocksCollection       string `yaml:"locks_collection"`
}

// NatsConfig holds the optional change-notification trigger settings.
type NatsConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// EngineConfig selects the index engine backend. "memory" keeps documents
// in process and loses them on restart; durable engine bindings register
// here as they are added.
type EngineConfig struct {
	Backend string `yaml:"backend"`
}

// WatermarkConfig selects the watermark store backend: "mongo" shares
// progress across instances, "pebble" keeps it in a local embedded store.
type WatermarkConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Logging: logging.DefaultConfig(),
		Mongo: MongoConfig{
			URI:                   "mongodb://localhost:27017",
			Database:              "searchsync",
			RecordsCollection:     "records",
			TasksCollection:       "tasks",
			CountersCollection:    "counters",
			DefinitionsCollection: "index_definitions",
			WatermarksCollection:  "watermarks",
			LocksCollection:       "locks",
		},
		Nats: NatsConfig{
			URL:     "nats://localhost:4222",
			Subject: "searchsync.changes",
		},
		Sync: syncer.DefaultConfig(),
		Watermarks: WatermarkConfig{
			Backend: "mongo",
			Path:    "data/watermarks",
		},
		Engine: EngineConfig{
			Backend: "memory",
		},
		MetricsAddr: ":9090",
	}
}

// Load builds the configuration in order: defaults, the file at path, its
// .local overlay (both skipped when absent), then environment overrides.
// For config.yml the overlay is config.local.yml, kept out of version
// control for per-deployment values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
		if err := loadFile(localOverlayPath(path), cfg); err != nil {
			return nil, err
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.Sync.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// localOverlayPath inserts ".local" before the extension: config.yml
// becomes config.local.yml.
func localOverlayPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".local" + ext
}

// ApplyEnvOverrides applies SEARCHSYNC_* environment variables on top of
// the loaded values.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("SEARCHSYNC_MONGO_URI"); v != "" {
		c.Mongo.URI = v
	}
	if v := os.Getenv("SEARCHSYNC_MONGO_DATABASE"); v != "" {
		c.Mongo.Database = v
	}
	if v := os.Getenv("SEARCHSYNC_NATS_URL"); v != "" {
		c.Nats.URL = v
	}
	if v := os.Getenv("SEARCHSYNC_NATS_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Nats.Enabled = enabled
		}
	}
	if v := os.Getenv("SEARCHSYNC_LOG_LEVEL"); v != "" {
		c.Logging.Console.Level = v
		c.Logging.File.Level = v
	}
	if v := os.Getenv("SEARCHSYNC_METRICS_ADDR"); v != "" {
		c.MetricsAddr = v
	}
}

// Validate checks the configuration for structural problems.
func (c *Config) Validate() error {
	if c.Mongo.URI == "" {
		return fmt.Errorf("mongo.uri is required")
	}
	if c.Mongo.Database == "" {
		return fmt.Errorf("mongo.database is required")
	}
	switch c.Watermarks.Backend {
	case "mongo":
	case "pebble":
		if c.Watermarks.Path == "" {
			return fmt.Errorf("watermarks.path is required for the pebble backend")
		}
	default:
		return fmt.Errorf("unknown watermarks.backend %q", c.Watermarks.Backend)
	}
	switch c.Engine.Backend {
	case "memory":
	default:
		return fmt.Errorf("unknown engine.backend %q", c.Engine.Backend)
	}
	if c.Nats.Enabled && c.Nats.Subject == "" {
		return fmt.Errorf("nats.subject is required when nats is enabled")
	}
	return nil
}
