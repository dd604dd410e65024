package config

import (
	"slices"
	"time"

	"git.home.luguber.info/inful/doccollect/internal/foundation/errors"
	"git.home.luguber.info/inful/doccollect/internal/markdown"
)

// ValidateConfig checks a normalized, defaulted configuration.
func ValidateConfig(cfg *Config) error {
	if cfg.Version != CurrentVersion {
		return errors.ConfigError("unsupported configuration version").
			WithContext("version", cfg.Version).
			WithContext("expected", CurrentVersion).
			Build()
	}
	if _, err := ParseOutputFormat(string(cfg.Output.Format)); err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "invalid output.format").Fatal().Build()
	}

	known := markdown.ExtensionNames()
	for _, ext := range cfg.Markdown.Extensions {
		if !slices.Contains(known, ext) {
			return errors.ConfigError("unknown markdown extension").
				WithContext("extension", ext).
				WithContext("valid", known).
				Build()
		}
	}
	for _, name := range cfg.Markdown.Neutralize.Allow {
		if slices.Contains(cfg.Markdown.Neutralize.Deny, name) {
			return errors.ConfigError("tag is both allowed and denied").
				WithContext("tag", name).
				Build()
		}
	}

	if d, err := time.ParseDuration(cfg.Collect.WatchDebounce); err != nil || d < 0 {
		return errors.ConfigError("invalid collect.watch_debounce").
			WithContext("value", cfg.Collect.WatchDebounce).
			Build()
	}
	return nil
}
