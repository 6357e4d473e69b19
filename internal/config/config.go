package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/docsite/internal/site"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the project file name used when -c is not given.
const DefaultConfigFile = "docsite.yaml"

// Config is a docsite project file: the authored site description plus
// settings for the build front-end.
type Config struct {
	site.RawConfig `yaml:",inline"`
	Build          BuildConfig `yaml:"build,omitempty"`

	// path is the file the config was loaded from, empty for in-memory configs.
	path string
}

// BuildConfig controls how content is located and where output goes.
// Relative paths resolve against Root, and Root against the config file's directory.
type BuildConfig struct {
	Root        string `yaml:"root,omitempty"`
	ContentDir  string `yaml:"content_dir,omitempty"`
	OutputDir   string `yaml:"output_dir,omitempty"`
	LastUpdated bool   `yaml:"last_updated,omitempty"`
	MetricsFile string `yaml:"metrics_file,omitempty"`
}

// Path returns the file the config was loaded from.
func (c *Config) Path() string { return c.path }

// Load reads a project file. Environment variables from .env/.env.local next
// to the file are loaded first, then ${VAR} references are expanded.
func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	baseDir := filepath.Dir(configPath)
	if loaded, err := loadEnvFiles(baseDir); err != nil {
		slog.Warn("Failed to load environment file", "error", err)
	} else if len(loaded) > 0 {
		slog.Debug("Loaded environment files", "files", loaded)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(bytes.NewReader(expandEnv(data)), baseDir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	cfg.path = configPath
	return cfg, nil
}

// Parse decodes a project file. Unknown keys are rejected. A relative
// build.root is taken relative to baseDir.
func Parse(r io.Reader, baseDir string) (*Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("configuration is empty")
		}
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	applyBuildDefaults(&cfg.Build, baseDir)
	return &cfg, nil
}

// Resolve runs the site resolver over the authored site description.
func (c *Config) Resolve() (*site.SiteConfig, error) {
	return site.Resolve(c.RawConfig)
}

// ContentPath is the absolute-or-relative content directory on disk.
func (c *Config) ContentPath() string {
	return c.under(c.Build.ContentDir)
}

// OutputPath is the output directory on disk.
func (c *Config) OutputPath() string {
	return c.under(c.Build.OutputDir)
}

// MetricsPath is the Prometheus textfile path, or empty when disabled.
func (c *Config) MetricsPath() string {
	if c.Build.MetricsFile == "" {
		return ""
	}
	return c.under(c.Build.MetricsFile)
}

func (c *Config) under(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Build.Root, p)
}
