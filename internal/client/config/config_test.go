package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(New(dir))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.Server)
	assert.Equal(t, filepath.Join(dir, "client.db"), cfg.DBPath)
	assert.False(t, cfg.Debug)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("server = \"http://file:9000\"\ndebug = true\n"), 0o600))

	cfg, err := Load(New(dir))
	require.NoError(t, err)
	assert.Equal(t, "http://file:9000", cfg.Server)
	assert.True(t, cfg.Debug)

	t.Setenv("STOCKRESEARCH_SERVER", "http://env:7000")
	cfg, err = Load(New(dir))
	require.NoError(t, err)
	assert.Equal(t, "http://env:7000", cfg.Server)
}

func TestLoad_BadFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("server = "), 0o600))

	_, err := Load(New(dir))
	assert.Error(t, err)
}
