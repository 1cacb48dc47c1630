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
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "memory", cfg.Cache.Driver)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Registry.Strict)
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pagebuilder.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9090"
storage:
  driver: postgres
  dsn: postgres://localhost/pages
cache:
  driver: redis
  ttl: 30s
registry:
  strict: true
  manifests:
    - widgets.yaml
`), 0o600))
	t.Setenv("PAGEBUILDER_SERVER_ADDR", ":7070")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.True(t, cfg.Registry.Strict)
	assert.Equal(t, []string{"widgets.yaml"}, cfg.Registry.Manifests)
}

func TestValidateRejectsPostgresWithoutDSN(t *testing.T) {
	cfg := &Config{
		Storage: StorageConfig{Driver: "postgres"},
		Cache:   CacheConfig{Driver: "none"},
	}
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsUnknownCache(t *testing.T) {
	cfg := &Config{
		Storage: StorageConfig{Driver: "memory"},
		Cache:   CacheConfig{Driver: "memcached"},
	}
	require.Error(t, cfg.Validate())
}
