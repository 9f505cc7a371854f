package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenNoConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg, err := NewLoader(dir).Load()
	require.NoError(t, err)
	assert.Equal(t, ".timon/storage", cfg.Storage.Path)
	assert.Equal(t, "timon", cfg.Bucket.Bucket)
	assert.Equal(t, 60, cfg.Sink.IntervalMinutes)
}

func TestLoad_ReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".timon"), 0o755))
	contents := "storage:\n  path: /data/timon\nbucket:\n  bucket: reports\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".timon", "config.yml"), []byte(contents), 0o644))

	cfg, err := NewLoader(dir).Load()
	require.NoError(t, err)
	assert.Equal(t, "/data/timon", cfg.Storage.Path)
	assert.Equal(t, "reports", cfg.Bucket.Bucket)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".timon"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".timon", "config.yml"), []byte("storage:\n  path: /file/storage\n"), 0o644))
	t.Setenv("TIMON_STORAGE_PATH", "/env/storage")
	cfg, err := NewLoader(dir).Load()
	require.NoError(t, err)
	assert.Equal(t, "/env/storage", cfg.Storage.Path)
}

func TestValidate_EmptyStoragePathFails(t *testing.T) {
	cfg := Default()
	cfg.Storage.Path = ""
	err := Validate(cfg)
	assert.ErrorIs(t, err, ErrEmptyStoragePath)
}

func TestValidate_PartialBucketCredentialsFail(t *testing.T) {
	cfg := Default()
	cfg.Bucket.Endpoint = "localhost:9000"
	err := Validate(cfg)
	assert.ErrorIs(t, err, ErrIncompleteBucketCredentials)
}

func TestValidate_DevDefaultsBypassesPartialCheck(t *testing.T) {
	cfg := Default()
	cfg.Bucket.Endpoint = "localhost:9000"
	cfg.Bucket.DevDefaults = true
	assert.NoError(t, Validate(cfg))
}

func TestValidate_NonPositiveSinkIntervalFails(t *testing.T) {
	cfg := Default()
	cfg.Sink.IntervalMinutes = 0
	err := Validate(cfg)
	assert.ErrorIs(t, err, ErrInvalidSinkInterval)
}
