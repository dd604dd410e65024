package errors

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, 0},
		{"validation error", ValidationError("invalid flag").Build(), 2},
		{"not found", NotFoundError("no such file").Build(), 3},
		{"config error", ConfigError("bad config").Build(), 7},
		{"filesystem error", FileSystemError("read failed").Build(), 11},
		{"internal error", InternalError("boom").Build(), 10},
		{"unclassified error", errors.New("unknown error"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := adapter.ExitCodeFor(tt.err); got != tt.expected {
				t.Errorf("ExitCodeFor() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	err := WrapError(errors.New("no such file or directory"), CategoryFileSystem, "failed to read source").
		WithContext("path", "src/filters.js").
		Build()
	got := adapter.FormatError(err)
	if !strings.Contains(got, "failed to read source") || !strings.Contains(got, "src/filters.js") {
		t.Errorf("unexpected formatted error %q", got)
	}

	if got := adapter.FormatError(InternalError("boom").Build()); !strings.Contains(got, "use -v") {
		t.Errorf("expected internal errors to be hidden without verbose, got %q", got)
	}
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var out bytes.Buffer
	var logs bytes.Buffer
	code := -1

	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(&logs, nil)))
	adapter.out = &out
	adapter.exit = func(c int) { code = c }

	adapter.HandleError(ConfigError("configuration file not found").WithContext("path", "x.yaml").Build())

	if code != 7 {
		t.Errorf("expected exit code 7, got %d", code)
	}
	if !strings.Contains(out.String(), "configuration file not found") {
		t.Errorf("expected message on stderr, got %q", out.String())
	}
	if !strings.Contains(logs.String(), "category=config") {
		t.Errorf("expected fatal error to be logged, got %q", logs.String())
	}
}
