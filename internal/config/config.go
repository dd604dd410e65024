// Package config loads the doccollect YAML configuration.
package config

import (
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/doccollect/internal/foundation/errors"
	"git.home.luguber.info/inful/doccollect/internal/markdown"
)

// DefaultConfigFile is read when no configuration path is given.
const DefaultConfigFile = "doccollect.yaml"

// CurrentVersion is the configuration format version written by Init.
const CurrentVersion = "1"

// Config is the complete doccollect configuration.
type Config struct {
	Version  string           `yaml:"version"`
	Markdown markdown.Options `yaml:"markdown"`
	Output   OutputConfig     `yaml:"output"`
	Logging  LoggingConfig    `yaml:"logging"`
	Metrics  MetricsConfig    `yaml:"metrics"`
	Collect  CollectConfig    `yaml:"collect"`
}

// OutputConfig controls how records are written.
type OutputConfig struct {
	Format OutputFormat `yaml:"format"`
	// Render fills the rendered HTML of prose fields.
	Render bool `yaml:"render"`
	// Dir receives one page per record when Format is pages.
	Dir string `yaml:"dir,omitempty"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// MetricsConfig controls metrics export.
type MetricsConfig struct {
	// Textfile, when set, receives the Prometheus metrics after each run.
	Textfile string `yaml:"textfile,omitempty"`
}

// CollectConfig tunes file collection.
type CollectConfig struct {
	// Concurrency bounds parallel file processing; 0 means GOMAXPROCS.
	Concurrency int `yaml:"concurrency"`
	// WatchDebounce delays re-collection after file changes in watch mode.
	WatchDebounce string `yaml:"watch_debounce"`
}

// WatchDebounceDuration returns the parsed watch debounce.
func (c CollectConfig) WatchDebounceDuration() time.Duration {
	d, err := time.ParseDuration(c.WatchDebounce)
	if err != nil {
		return defaultWatchDebounce
	}
	return d
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{Version: CurrentVersion}
	_ = applyDefaults(cfg)
	return cfg
}

// Load reads, normalizes, defaults and validates the configuration at path.
func Load(path string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		slog.Debug("No .env file loaded", slog.String("reason", err.Error()))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundError("configuration file not found").
				WithContext("path", path).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read config file").
			WithContext("path", path).
			Build()
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to parse config file").
			WithContext("path", path).
			Build()
	}

	res := NormalizeConfig(&cfg)
	for _, w := range res.Warnings {
		slog.Warn("Config normalization", slog.String("detail", w))
	}
	if err := applyDefaults(&cfg); err != nil {
		return nil, err
	}
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields Default.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if envErr := loadEnvFile(); envErr != nil {
			slog.Debug("No .env file loaded", slog.String("reason", envErr.Error()))
		}
		return Default(), nil
	}
	return Load(path)
}

// Init writes an example configuration file.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", path).
			Build()
	}

	example := Default()
	example.Markdown.Extensions = []string{"gfm"}
	example.Markdown.Neutralize.Deny = []string{"ng:include", "ng:view"}
	example.Metrics.Textfile = "${DOCCOLLECT_METRICS_TEXTFILE}"

	data, err := yaml.Marshal(example)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal example config").Build()
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write config file").
			WithContext("path", path).
			Build()
	}
	return nil
}
