package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	content := "source: /data/archives\nbuffer_size: 4096\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/archives", cfg.Source)
	assert.Equal(t, 4096, cfg.BufferSize)
	assert.Equal(t, "info", cfg.LogLevel, "unset fields keep their defaults")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte("source: [unterminated"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsNegativeBufferSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte("buffer_size: -1"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultBufferSize, cfg.BufferSize)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.Source)
}
