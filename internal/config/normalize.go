package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// NormalizationResult captures adjustments and warnings from the normalization pass.
type NormalizationResult struct {
	Warnings []string
}

// NormalizeConfig canonicalizes enumerated and list fields in place before
// defaults are applied.
func NormalizeConfig(c *Config) *NormalizationResult {
	res := &NormalizationResult{}
	if c == nil {
		return res
	}
	normalizeLogging(&c.Logging, res)
	normalizeOutput(&c.Output, res)
	c.Markdown.Extensions = normalizeStringSlice("markdown.extensions", c.Markdown.Extensions, res)
	c.Markdown.Neutralize.Allow = normalizeStringSlice("markdown.neutralize.allow", c.Markdown.Neutralize.Allow, res)
	c.Markdown.Neutralize.Deny = normalizeStringSlice("markdown.neutralize.deny", c.Markdown.Neutralize.Deny, res)
	if c.Collect.Concurrency < 0 {
		res.Warnings = append(res.Warnings, warnChanged("collect.concurrency", c.Collect.Concurrency, 0))
		c.Collect.Concurrency = 0
	}
	return res
}

func normalizeLogging(l *LoggingConfig, res *NormalizationResult) {
	if raw := string(l.Level); raw != "" {
		lvl := NormalizeLogLevel(raw)
		if _, err := logLevelNormalizer.NormalizeWithError(raw); err != nil {
			res.Warnings = append(res.Warnings, warnUnknown("logging.level", raw, string(lvl)))
		} else if lvl != l.Level {
			res.Warnings = append(res.Warnings, warnChanged("logging.level", l.Level, lvl))
		}
		l.Level = lvl
	}
	if raw := string(l.Format); raw != "" {
		f := NormalizeLogFormat(raw)
		if _, err := logFormatNormalizer.NormalizeWithError(raw); err != nil {
			res.Warnings = append(res.Warnings, warnUnknown("logging.format", raw, string(f)))
		} else if f != l.Format {
			res.Warnings = append(res.Warnings, warnChanged("logging.format", l.Format, f))
		}
		l.Format = f
	}
}

func normalizeOutput(o *OutputConfig, res *NormalizationResult) {
	if raw := string(o.Format); raw != "" {
		// Unknown formats are left for validation to reject.
		if f, err := ParseOutputFormat(raw); err == nil && f != o.Format {
			res.Warnings = append(res.Warnings, warnChanged("output.format", o.Format, f))
			o.Format = f
		}
	}
	if o.Dir != "" {
		cleaned := filepath.Clean(strings.TrimSpace(o.Dir))
		if cleaned != o.Dir {
			res.Warnings = append(res.Warnings, warnChanged("output.dir", o.Dir, cleaned))
			o.Dir = cleaned
		}
	}
}

// normalizeStringSlice trims and dedupes a list, keeping first-seen order.
func normalizeStringSlice(label string, in []string, res *NormalizationResult) []string {
	if len(in) == 0 {
		return in
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		t := strings.ToLower(strings.TrimSpace(v))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	if len(out) != len(in) {
		res.Warnings = append(res.Warnings, fmt.Sprintf("normalized %s list (%d -> %d entries)", label, len(in), len(out)))
	}
	return out
}

func warnChanged(field string, from, to any) string {
	return fmt.Sprintf("normalized %s from '%v' to '%v'", field, from, to)
}

func warnUnknown(field, value, def string) string {
	return fmt.Sprintf("unknown %s '%s', defaulting to %s", field, value, def)
}
