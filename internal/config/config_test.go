package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, DefaultServerURL, cfg.ServerURL)
	assert.Equal(t, time.Duration(0), cfg.API.Timeout)
	assert.Equal(t, DefaultRecitationEdition, cfg.RecitationEdition)
	assert.Equal(t, DefaultTranslationEdition, cfg.TranslationEdition)
	assert.Equal(t, StorageSQLite, cfg.Driver)
	assert.Equal(t, filepath.Join(dir, "mushaf.db"), cfg.SQLitePath)
	assert.False(t, cfg.StrictAlignment)
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, DefaultAudioPlayer, cfg.Player)
	assert.Empty(t, cfg.Args)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := `
api:
  base_url: http://localhost:9000/v1/
  timeout: 5s
  translation_edition: en.sahih
assembler:
  strict_alignment: true
storage:
  driver: memory
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0600))

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000/v1", cfg.ServerURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, "en.sahih", cfg.TranslationEdition)
	assert.Equal(t, DefaultRecitationEdition, cfg.RecitationEdition)
	assert.True(t, cfg.StrictAlignment)
	assert.Equal(t, StorageMemory, cfg.Driver)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log:\n  level: debug\n"), 0600))
	t.Setenv("MUSHAF_LOG_LEVEL", "warn")
	t.Setenv("MUSHAF_STORAGE_DRIVER", "redis")

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Level)
	assert.Equal(t, StorageRedis, cfg.Driver)
}

func TestAudioPlayerFromEnvKeepsArgsEmpty(t *testing.T) {
	t.Setenv("MUSHAF_AUDIO_PLAYER", "ffplay")

	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "ffplay", cfg.Player)
	assert.Empty(t, cfg.Args)
}

func TestSetServerURLPersists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)
	require.NoError(t, cfg.SetServerURL("http://example.test/v1/"))

	reloaded, err := LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, "http://example.test/v1", reloaded.ServerURL)
	assert.FileExists(t, cfg.Path())
}

func TestSetServerURLWritesOnlyFileKeys(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log:\n  level: debug\n"), 0600))
	t.Setenv("MUSHAF_STORAGE_REDIS_PASSWORD", "hunter2")

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)
	require.NoError(t, cfg.SetServerURL("http://example.test/v1"))

	raw, err := os.ReadFile(cfg.Path())
	require.NoError(t, err)
	content := string(raw)
	assert.Contains(t, content, "http://example.test/v1")
	assert.Contains(t, content, "debug")
	assert.NotContains(t, content, "hunter2")
	assert.NotContains(t, content, "sqlite_path")

	reloaded, err := LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, "debug", reloaded.Level)
	assert.Equal(t, "hunter2", reloaded.RedisPassword)
}

func TestInvalidConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("api: [unclosed"), 0600))

	_, err := LoadFrom(dir)
	assert.Error(t, err)
}
