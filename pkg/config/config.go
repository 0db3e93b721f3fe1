// Package config loads nextmig settings from nextmig.yaml, a project .env
// file and NEXTMIG_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/rg0now/next-migration-survey/pkg/logger"
	"github.com/rg0now/next-migration-survey/pkg/output"
	"github.com/rg0now/next-migration-survey/pkg/source"
)

const (
	// FileName is the config file name without extension.
	FileName = "nextmig"
	// EnvPrefix prefixes every environment override, e.g. NEXTMIG_LOG_LEVEL.
	EnvPrefix = "NEXTMIG"
)

// Config holds the resolved settings.
type Config struct {
	IgnoreDirs    []string
	IncludeHidden bool
	MaxFileBytes  int64
	CacheSize     int
	Output        OutputConfig
	Log           LogConfig
}

// OutputConfig controls how results are rendered.
type OutputConfig struct {
	Format      string
	DiffContext int
}

// LogConfig controls the logger.
type LogConfig struct {
	Level string
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{
		IgnoreDirs:   append([]string(nil), source.DefaultIgnoreDirs...),
		MaxFileBytes: 1 << 20,
		CacheSize:    source.DefaultCacheSize,
		Output: OutputConfig{
			Format:      output.FormatText,
			DiffContext: output.DefaultDiffContext,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads nextmig.yaml from projectDir or the working directory. A
// missing config file yields the defaults; a .env file in projectDir is
// loaded first so its variables act as overrides.
func Load(projectDir string) (*Config, error) {
	if err := loadDotEnv(projectDir); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	if projectDir != "" {
		v.AddConfigPath(projectDir)
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := Default()
	v.SetDefault("ignore_dirs", def.IgnoreDirs)
	v.SetDefault("include_hidden", def.IncludeHidden)
	v.SetDefault("max_file_bytes", def.MaxFileBytes)
	v.SetDefault("cache_size", def.CacheSize)
	v.SetDefault("output.format", def.Output.Format)
	v.SetDefault("output.diff_context", def.Output.DiffContext)
	v.SetDefault("log.level", def.Log.Level)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read %s.yaml: %w", FileName, err)
		}
	} else {
		logger.Debug("Loaded config", logger.F("file", v.ConfigFileUsed()))
	}

	cfg := &Config{
		IgnoreDirs:    v.GetStringSlice("ignore_dirs"),
		IncludeHidden: v.GetBool("include_hidden"),
		MaxFileBytes:  v.GetInt64("max_file_bytes"),
		CacheSize:     v.GetInt("cache_size"),
		Output: OutputConfig{
			Format:      strings.ToLower(v.GetString("output.format")),
			DiffContext: v.GetInt("output.diff_context"),
		},
		Log: LogConfig{Level: v.GetString("log.level")},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings no command can honor.
func (c *Config) Validate() error {
	if !output.ValidFormat(c.Output.Format) {
		return fmt.Errorf("invalid output.format %q: expected one of %s",
			c.Output.Format, strings.Join(output.Formats, ", "))
	}
	if c.MaxFileBytes < 0 {
		return fmt.Errorf("invalid max_file_bytes %d: must not be negative", c.MaxFileBytes)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("invalid cache_size %d: must not be negative", c.CacheSize)
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log.level: %w", err)
	}
	return nil
}

// WalkOptions converts the settings into directory traversal options.
func (c *Config) WalkOptions() source.WalkOptions {
	return source.WalkOptions{
		IgnoreDirs:    c.IgnoreDirs,
		IncludeHidden: c.IncludeHidden,
		MaxFileBytes:  c.MaxFileBytes,
	}
}

// LogLevel returns the parsed log level.
func (c *Config) LogLevel() logger.Level {
	level, _ := logger.ParseLevel(c.Log.Level)
	return level
}

func loadDotEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
