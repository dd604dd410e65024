package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyFile       = "file"
	KeyLine       = "line"
	KeyTag        = "tag"
	KeyField      = "field"
	KeyFormat     = "format"
	KeyCount      = "count"
	KeyPath       = "path"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func File(path string) slog.Attr      { return slog.String(KeyFile, path) }
func Line(n int) slog.Attr            { return slog.Int(KeyLine, n) }
func Tag(name string) slog.Attr       { return slog.String(KeyTag, name) }
func Field(name string) slog.Attr     { return slog.String(KeyField, name) }
func Format(f string) slog.Attr       { return slog.String(KeyFormat, f) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
