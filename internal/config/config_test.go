package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/go-sif/aggregate/logging"
	"github.com/go-sif/aggregate/partial"
	"github.com/stretchr/testify/require"
)

// inTempDir runs the test from an empty directory, so that no sifagg.yaml is picked up
func inTempDir(t *testing.T) string {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.Nil(t, err)
	require.Nil(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestDefaults(t *testing.T) {
	inTempDir(t)
	cfg, err := Load("")
	require.Nil(t, err)
	require.Equal(t, runtime.NumCPU(), cfg.Partitions)
	require.Equal(t, partial.None, cfg.CompressionAlgorithm())
	require.Equal(t, logging.InfoLevel, cfg.LogLevel())
	require.Equal(t, "", cfg.Log.File)
}

func TestConfigFile(t *testing.T) {
	dir := inTempDir(t)
	yaml := "partitions: 3\ncompression: lz4\nlog:\n  level: debug\n  file: agg.log\n"
	require.Nil(t, os.WriteFile(filepath.Join(dir, "sifagg.yaml"), []byte(yaml), 0o644))

	cfg, err := Load("")
	require.Nil(t, err)
	require.Equal(t, 3, cfg.Partitions)
	require.Equal(t, partial.LZ4, cfg.CompressionAlgorithm())
	require.Equal(t, logging.DebugLevel, cfg.LogLevel())
	require.Equal(t, "agg.log", cfg.Log.File)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	dir := inTempDir(t)
	path := filepath.Join(dir, "custom.yaml")
	require.Nil(t, os.WriteFile(path, []byte("partitions: 3\n"), 0o644))
	t.Setenv("SIFAGG_PARTITIONS", "5")
	t.Setenv("SIFAGG_COMPRESSION", "zstd")
	t.Setenv("SIFAGG_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.Nil(t, err)
	require.Equal(t, 5, cfg.Partitions)
	require.Equal(t, partial.Zstd, cfg.CompressionAlgorithm())
	require.Equal(t, logging.WarnLevel, cfg.LogLevel())
}

func TestMissingExplicitFile(t *testing.T) {
	dir := inTempDir(t)
	_, err := Load(filepath.Join(dir, "nope.yaml"))
	require.NotNil(t, err)
}

func TestValidate(t *testing.T) {
	inTempDir(t)
	t.Setenv("SIFAGG_COMPRESSION", "gzip")
	_, err := Load("")
	require.NotNil(t, err)

	cfg := DefaultConfig()
	cfg.Partitions = 0
	require.NotNil(t, cfg.Validate())
	cfg = DefaultConfig()
	cfg.Log.Level = "loud"
	require.NotNil(t, cfg.Validate())
}
