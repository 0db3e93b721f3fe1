package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rg0now/next-migration-survey/pkg/logger"
	"github.com/rg0now/next-migration-survey/pkg/output"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

// unsetEnv removes key for the duration of the test.
func unsetEnv(t *testing.T, key string) {
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, logger.LevelInfo, cfg.LogLevel())
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "nextmig.yaml", `ignore_dirs: [node_modules, storybook-static]
include_hidden: true
max_file_bytes: 2048
cache_size: 16
output:
  format: JSON
  diff_context: 2
log:
  level: debug
`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"node_modules", "storybook-static"}, cfg.IgnoreDirs)
	assert.True(t, cfg.IncludeHidden)
	assert.Equal(t, int64(2048), cfg.MaxFileBytes)
	assert.Equal(t, 16, cfg.CacheSize)
	assert.Equal(t, output.FormatJSON, cfg.Output.Format)
	assert.Equal(t, 2, cfg.Output.DiffContext)
	assert.Equal(t, logger.LevelDebug, cfg.LogLevel())

	opts := cfg.WalkOptions()
	assert.Equal(t, cfg.IgnoreDirs, opts.IgnoreDirs)
	assert.Equal(t, int64(2048), opts.MaxFileBytes)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "nextmig.yaml", "output:\n  format: json\n")
	t.Setenv("NEXTMIG_OUTPUT_FORMAT", "yaml")
	t.Setenv("NEXTMIG_CACHE_SIZE", "8")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, output.FormatYAML, cfg.Output.Format)
	assert.Equal(t, 8, cfg.CacheSize)
}

func TestLoad_DotEnv(t *testing.T) {
	unsetEnv(t, "NEXTMIG_LOG_LEVEL")
	dir := t.TempDir()
	writeFile(t, dir, ".env", "NEXTMIG_LOG_LEVEL=warn\n")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, logger.LevelWarn, cfg.LogLevel())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"format", "output:\n  format: xml\n", `invalid output.format "xml": expected one of text, json, jsonl, yaml`},
		{"negative size", "max_file_bytes: -1\n", "invalid max_file_bytes -1: must not be negative"},
		{"log level", "log:\n  level: loud\n", `invalid log.level: unknown log level "loud"`},
		{"malformed", "output: [\n", "failed to read nextmig.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, "nextmig.yaml", tt.content)

			_, err := Load(dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
