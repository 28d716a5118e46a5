package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileAndDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
database:
  path: shop.db
shop:
  name: Sleep Well Mattresses
`)

	cfg, err := load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Address, "address falls back to loopback")
	assert.Equal(t, "127.0.0.1:9090", cfg.Addr())
	assert.Equal(t, "shop.db", cfg.Database.Path)
	assert.Equal(t, 1, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5000, cfg.Database.BusyTimeoutMS)
	assert.Equal(t, "Sleep Well Mattresses", cfg.Shop.Name)
	assert.Equal(t, "$", cfg.Shop.Currency)
	assert.Equal(t, 12, cfg.JWT.ExpireHours)
	assert.Equal(t, "data/images", cfg.Images.Dir)
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9090\n")
	t.Setenv("RLS_SERVER_PORT", "7000")
	t.Setenv("RLS_LOG_LEVEL", "debug")

	cfg, err := load(path)
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_NonPositiveConnsClamped(t *testing.T) {
	path := writeConfig(t, "database:\n  max_open_conns: 0\n")
	cfg, err := load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Database.MaxOpenConns)
}
