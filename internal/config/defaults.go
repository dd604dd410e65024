package config

import (
	"fmt"
	"time"
)

const (
	defaultWatchDebounce = 300 * time.Millisecond
	defaultPagesDir      = "docs/api"
)

// DefaultApplier applies defaults for one configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// OutputDefaultApplier handles output defaults.
type OutputDefaultApplier struct{}

func (OutputDefaultApplier) Domain() string { return "output" }

func (OutputDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Output.Format == "" {
		cfg.Output.Format = OutputFormatYAML
	}
	if cfg.Output.Format == OutputFormatPages && cfg.Output.Dir == "" {
		cfg.Output.Dir = defaultPagesDir
	}
	return nil
}

// LoggingDefaultApplier handles logging defaults.
type LoggingDefaultApplier struct{}

func (LoggingDefaultApplier) Domain() string { return "logging" }

func (LoggingDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LogLevelInfo
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = LogFormatText
	}
	return nil
}

// CollectDefaultApplier handles collection defaults.
type CollectDefaultApplier struct{}

func (CollectDefaultApplier) Domain() string { return "collect" }

func (CollectDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Collect.WatchDebounce == "" {
		cfg.Collect.WatchDebounce = defaultWatchDebounce.String()
	}
	return nil
}

// VersionDefaultApplier fills the configuration version.
type VersionDefaultApplier struct{}

func (VersionDefaultApplier) Domain() string { return "version" }

func (VersionDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Version == "" {
		cfg.Version = CurrentVersion
	}
	return nil
}

var defaultAppliers = []DefaultApplier{
	VersionDefaultApplier{},
	OutputDefaultApplier{},
	LoggingDefaultApplier{},
	CollectDefaultApplier{},
}

func applyDefaults(cfg *Config) error {
	for _, a := range defaultAppliers {
		if err := a.ApplyDefaults(cfg); err != nil {
			return fmt.Errorf("applying defaults for %s: %w", a.Domain(), err)
		}
	}
	return nil
}
