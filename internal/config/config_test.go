package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "searchsync", cfg.Mongo.Database)
	assert.Equal(t, 100, cfg.Sync.PageSize)
	assert.Equal(t, 30*time.Second, cfg.Sync.Interval)
	assert.Equal(t, "mongo", cfg.Watermarks.Backend)
	assert.Equal(t, "memory", cfg.Engine.Backend)
	assert.False(t, cfg.Nats.Enabled)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)
	assert.Equal(t, "searchsync", cfg.Mongo.Database)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	data := `
mongo:
  uri: mongodb://db:27017
  database: search
sync:
  page_size: 50
  interval: 10s
watermarks:
  backend: pebble
  path: /tmp/wm
nats:
  enabled: true
  subject: changes
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "mongodb://db:27017", cfg.Mongo.URI)
	assert.Equal(t, "search", cfg.Mongo.Database)
	assert.Equal(t, 50, cfg.Sync.PageSize)
	assert.Equal(t, 10*time.Second, cfg.Sync.Interval)
	assert.Equal(t, "pebble", cfg.Watermarks.Backend)
	assert.True(t, cfg.Nats.Enabled)
	// Collections not named in the file keep their defaults.
	assert.Equal(t, "tasks", cfg.Mongo.TasksCollection)
}

func TestLoadLocalOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("mongo:\n  database: base\nsync:\n  page_size: 50\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.local.yml"),
		[]byte("mongo:\n  database: local\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	// The overlay wins where it sets a value; everything else stays.
	assert.Equal(t, "local", cfg.Mongo.Database)
	assert.Equal(t, 50, cfg.Sync.PageSize)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("mongo: ["), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SEARCHSYNC_MONGO_URI", "mongodb://env:27017")
	t.Setenv("SEARCHSYNC_NATS_ENABLED", "true")
	t.Setenv("SEARCHSYNC_METRICS_ADDR", ":9191")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "mongodb://env:27017", cfg.Mongo.URI)
	assert.True(t, cfg.Nats.Enabled)
	assert.Equal(t, ":9191", cfg.MetricsAddr)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.Mongo.URI = ""
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Watermarks.Backend = "redis"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Watermarks.Backend = "pebble"
	cfg.Watermarks.Path = ""
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Engine.Backend = "elastic"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Nats.Enabled = true
	cfg.Nats.Subject = ""
	assert.Error(t, cfg.Validate())
}
