package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, 5*time.Second, cfg.Worker.PollTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "exports", cfg.Export.Dir)
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cargostow.yaml")
	content := `
redis:
  address: redis.internal:6380
  db: 3
worker:
  poll_timeout: 30s
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "redis.internal:6380", cfg.Redis.Address)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, 30*time.Second, cfg.Worker.PollTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "exports", cfg.Export.Dir, "unset keys keep their defaults")
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("CARGOSTOW_REDIS_ADDRESS", "override:6379")

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "override:6379", cfg.Redis.Address)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
