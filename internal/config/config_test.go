package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	t.Setenv("AWAREE_HOME", "/tmp/awaree-home")
	cfg := DefaultConfig()

	assert.Equal(t, "/tmp/awaree-home", cfg.DataDir)
	assert.Equal(t, filepath.Join("/tmp/awaree-home", "studio.db"), cfg.DBPath)
	assert.Equal(t, filepath.Join("/tmp/awaree-home", "logs", "awaree.log"), cfg.LogFile)
	assert.True(t, cfg.ConfirmDelete)
	assert.True(t, cfg.ConfirmImport)
	assert.Equal(t, "recent", cfg.SortBy)
	assert.Equal(t, "127.0.0.1:4178", cfg.Server.Addr)
	assert.Equal(t, 20*time.Second, cfg.Suggest.Timeout)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("AWAREE_HOME", t.TempDir())
	t.Setenv("GEMINI_API_KEY", "from-env")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, "from-env", cfg.Suggest.APIKey)
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv("AWAREE_HOME", t.TempDir())
	t.Setenv("GEMINI_API_KEY", "")

	cfg := DefaultConfig()
	cfg.SortBy = "deadline"
	cfg.LogLevel = "DEBUG"
	cfg.Suggest.Timeout = 5 * time.Second
	require.NoError(t, cfg.Save())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "deadline", loaded.SortBy)
	assert.Equal(t, "DEBUG", loaded.LogLevel)
	assert.Equal(t, 5*time.Second, loaded.Suggest.Timeout)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("AWAREE_HOME", dir)
	t.Setenv("AWAREE_SUGGEST_ENABLED", "false")

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("confirm_import: false\nserver:\n  addr: 127.0.0.1:9000\n"), 0600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.False(t, cfg.ConfirmImport)
	assert.True(t, cfg.ConfirmDelete)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.False(t, cfg.Suggest.Enabled)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: [unclosed"), 0600))

	_, err := LoadFile(path)
	assert.Error(t, err)
}
