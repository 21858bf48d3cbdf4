package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		path := writeConfig(t, "store.yaml", `
backend: redis
redis:
  url: redis://localhost:6379
  key_prefix: test
  connect_timeout: 2s
`)
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "redis", cfg.Backend)
		assert.Equal(t, "redis://localhost:6379", cfg.Redis.URL)
		assert.Equal(t, "test", cfg.Redis.KeyPrefix)
		assert.Equal(t, "2s", cfg.Redis.ConnectTimeout.String())
	})

	t.Run("json", func(t *testing.T) {
		path := writeConfig(t, "store.json", `{"backend": "memory"}`)
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "memory", cfg.Backend)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := writeConfig(t, "store.toml", "backend = 'memory'")
		_, err := LoadConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported")
	})

	t.Run("invalid backend", func(t *testing.T) {
		path := writeConfig(t, "store.yaml", "backend: cassandra")
		_, err := LoadConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown backend")
	})

	t.Run("redis without url", func(t *testing.T) {
		path := writeConfig(t, "store.yaml", "backend: redis")
		_, err := LoadConfig(path)
		require.Error(t, err)
	})
}

func TestOpen(t *testing.T) {
	t.Run("defaults to memory", func(t *testing.T) {
		s, err := Open(nil)
		require.NoError(t, err)
		defer s.Close()
		_, ok := s.(*Memory)
		assert.True(t, ok)
	})

	t.Run("memory backend", func(t *testing.T) {
		s, err := Open(&Config{Backend: "memory"})
		require.NoError(t, err)
		defer s.Close()
		_, ok := s.(*Memory)
		assert.True(t, ok)
	})

	t.Run("invalid config", func(t *testing.T) {
		_, err := Open(&Config{Backend: "redis"})
		require.Error(t, err)
	})
}
