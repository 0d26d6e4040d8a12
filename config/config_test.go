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
	t.Setenv("SHELTER_CONFIG", "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 256, cfg.Realtime.SendBufferSize)
	assert.Empty(t, cfg.Realtime.RedisURL)
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shelter.yaml")
	body := []byte(`
server:
  port: "9000"
  env: production
database:
  driver: postgres
  dsn: postgres://localhost/shelter
rate_limit:
  messages_per_window: 5
  window: 30s
`)
	require.NoError(t, os.WriteFile(path, body, 0o600))

	t.Setenv("SHELTER_CONFIG", path)
	t.Setenv("PORT", "9100")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, "production", cfg.Server.Env)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 5, cfg.RateLimit.MessagesPerWindow)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
	assert.Equal(t, 100, cfg.RateLimit.RequestsPerWindow)
	assert.Equal(t, "redis://localhost:6379/1", cfg.Realtime.RedisURL)
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("SHELTER_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := Load()
	assert.Error(t, err)
}
