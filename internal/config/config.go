// Package config loads outliner configuration from TOML or YAML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/tsawler/outliner/export"
	"github.com/tsawler/outliner/internal/logger"
	"github.com/tsawler/outliner/layout"
)

const appName = "outliner"

// Config is the top-level configuration.
type Config struct {
	Core   CoreConfig   `toml:"core" yaml:"core"`
	Batch  BatchConfig  `toml:"batch" yaml:"batch"`
	Cache  CacheConfig  `toml:"cache" yaml:"cache"`
	Server ServerConfig `toml:"server" yaml:"server"`
	Log    LogConfig    `toml:"log" yaml:"log"`
}

// CoreConfig holds the extraction limits and detection thresholds.
type CoreConfig struct {
	MaxItems               int     `toml:"max_items" yaml:"max_items"`
	MaxPages               int     `toml:"max_pages" yaml:"max_pages"`
	PrimaryThreshold       float64 `toml:"primary_threshold" yaml:"primary_threshold"`
	ShortDocumentThreshold float64 `toml:"short_document_threshold" yaml:"short_document_threshold"`
	ShortDocumentLines     int     `toml:"short_document_lines" yaml:"short_document_lines"`
	FallbackMinHeadings    int     `toml:"fallback_min_headings" yaml:"fallback_min_headings"`
	FallbackLimit          int     `toml:"fallback_limit" yaml:"fallback_limit"`
}

// BatchConfig controls directory processing.
type BatchConfig struct {
	Workers   int    `toml:"workers" yaml:"workers"`
	Format    string `toml:"format" yaml:"format"`
	Recursive bool   `toml:"recursive" yaml:"recursive"`
}

// CacheConfig controls the result cache.
type CacheConfig struct {
	Enabled bool          `toml:"enabled" yaml:"enabled"`
	Path    string        `toml:"path" yaml:"path"`
	MaxAge  time.Duration `toml:"max_age" yaml:"max_age"` // 0 keeps entries forever
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Listen         string        `toml:"listen" yaml:"listen"`
	MaxUploadBytes int64         `toml:"max_upload_bytes" yaml:"max_upload_bytes"`
	ReadTimeout    time.Duration `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout   time.Duration `toml:"write_timeout" yaml:"write_timeout"`
}

// LogConfig controls logging. An empty File logs to stderr.
type LogConfig struct {
	Level string `toml:"level" yaml:"level"`
	File  string `toml:"file" yaml:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	heading := layout.DefaultHeadingConfig()
	return &Config{
		Core: CoreConfig{
			MaxItems:               heading.MaxItems,
			MaxPages:               50,
			PrimaryThreshold:       heading.PrimaryThreshold,
			ShortDocumentThreshold: heading.ShortDocumentThreshold,
			ShortDocumentLines:     heading.ShortDocumentLines,
			FallbackMinHeadings:    heading.FallbackMinHeadings,
			FallbackLimit:          heading.FallbackLimit,
		},
		Batch: BatchConfig{
			Workers: 8,
			Format:  export.FormatJSON.String(),
		},
		Cache: CacheConfig{
			Enabled: false,
			Path:    filepath.Join(xdg.CacheHome, appName, "outlines.db"),
			MaxAge:  30 * 24 * time.Hour,
		},
		Server: ServerConfig{
			Listen:         ":8080",
			MaxUploadBytes: 50 << 20,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   2 * time.Minute,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads a configuration file over the defaults. The format follows the
// extension (.toml, .yaml or .yml). An empty path or a missing file yields
// the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil // no config file, return defaults
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("failed to decode TOML config: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode YAML config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file type %q", filepath.Ext(path))
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Find returns the first outliner/config.toml or outliner/config.yaml found
// in the XDG config directories, or "" when there is none.
func Find() string {
	for _, name := range []string{"config.toml", "config.yaml", "config.yml"} {
		if path, err := xdg.SearchConfigFile(filepath.Join(appName, name)); err == nil {
			return path
		}
	}
	return ""
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if c.Core.MaxItems < 0 {
		errs = append(errs, fmt.Errorf("core.max_items must not be negative"))
	}
	if c.Core.MaxPages < 0 {
		errs = append(errs, fmt.Errorf("core.max_pages must not be negative"))
	}
	if c.Core.PrimaryThreshold <= 0 || c.Core.ShortDocumentThreshold <= 0 {
		errs = append(errs, fmt.Errorf("core thresholds must be positive"))
	}
	if c.Core.ShortDocumentLines < 0 || c.Core.FallbackMinHeadings < 0 || c.Core.FallbackLimit < 0 {
		errs = append(errs, fmt.Errorf("core line and fallback counts must not be negative"))
	}
	if c.Batch.Workers < 1 {
		errs = append(errs, fmt.Errorf("batch.workers must be at least 1"))
	}
	if _, err := export.ParseFormat(c.Batch.Format); err != nil {
		errs = append(errs, fmt.Errorf("batch.format: %w", err))
	}
	if c.Cache.Enabled && c.Cache.Path == "" {
		errs = append(errs, fmt.Errorf("cache.path is required when the cache is enabled"))
	}
	if c.Cache.MaxAge < 0 {
		errs = append(errs, fmt.Errorf("cache.max_age must not be negative"))
	}
	if c.Server.MaxUploadBytes <= 0 {
		errs = append(errs, fmt.Errorf("server.max_upload_bytes must be positive"))
	}
	if _, ok := logger.LevelFromString(c.Log.Level); !ok {
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	return errors.Join(errs...)
}

// Heading returns the detector configuration for the core settings
func (c CoreConfig) Heading() layout.HeadingConfig {
	return layout.HeadingConfig{
		MaxItems:               c.MaxItems,
		PrimaryThreshold:       c.PrimaryThreshold,
		ShortDocumentThreshold: c.ShortDocumentThreshold,
		ShortDocumentLines:     c.ShortDocumentLines,
		FallbackMinHeadings:    c.FallbackMinHeadings,
		FallbackLimit:          c.FallbackLimit,
	}
}
