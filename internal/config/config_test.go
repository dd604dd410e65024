package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/doccollect/internal/foundation/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doccollect.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("DOC_OUT", "site/api")
	path := writeConfig(t, `
version: "1"
markdown:
  extensions: [GFM, table, gfm]
  hard_wraps: true
  neutralize:
    deny: ["ng:view"]
output:
  format: PAGES
  render: true
  dir: ${DOC_OUT}/
logging:
  level: WARNING
  format: json
collect:
  concurrency: 4
  watch_debounce: 1s
metrics:
  textfile: metrics.prom
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"gfm", "table"}, cfg.Markdown.Extensions)
	assert.True(t, cfg.Markdown.HardWraps)
	assert.Equal(t, []string{"ng:view"}, cfg.Markdown.Neutralize.Deny)
	assert.Equal(t, OutputFormatPages, cfg.Output.Format)
	assert.True(t, cfg.Output.Render)
	assert.Equal(t, "site/api", cfg.Output.Dir)
	assert.Equal(t, LogLevelWarn, cfg.Logging.Level)
	assert.Equal(t, LogFormatJSON, cfg.Logging.Format)
	assert.Equal(t, 4, cfg.Collect.Concurrency)
	assert.Equal(t, time.Second, cfg.Collect.WatchDebounceDuration())
	assert.Equal(t, "metrics.prom", cfg.Metrics.Textfile)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "version: \"1\"\n"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, OutputFormatYAML, cfg.Output.Format)
	assert.Equal(t, LogLevelInfo, cfg.Logging.Level)
	assert.Equal(t, defaultWatchDebounce, cfg.Collect.WatchDebounceDuration())
	assert.Empty(t, cfg.Markdown.Extensions)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		category errors.ErrorCategory
	}{
		{name: "bad yaml", content: "version: [", category: errors.CategoryConfig},
		{name: "bad version", content: "version: \"9\"", category: errors.CategoryConfig},
		{name: "bad format", content: "output:\n  format: xml", category: errors.CategoryConfig},
		{name: "bad extension", content: "markdown:\n  extensions: [mermaid]", category: errors.CategoryConfig},
		{name: "allow and deny", content: "markdown:\n  neutralize:\n    allow: [x-y]\n    deny: [X-Y]", category: errors.CategoryConfig},
		{name: "bad debounce", content: "collect:\n  watch_debounce: soon", category: errors.CategoryConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Equal(t, tt.category, errors.GetCategory(err))
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	_, err := Load(missing)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))

	cfg, err := LoadOrDefault(missing)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(".env", []byte("DOCCOLLECT_TEST_FMT=json\nDOCCOLLECT_TEST_KEEP=fromfile\n"), 0o600))
	t.Setenv("DOCCOLLECT_TEST_KEEP", "fromenv")
	t.Setenv("DOCCOLLECT_TEST_FMT", "")
	require.NoError(t, os.Unsetenv("DOCCOLLECT_TEST_FMT"))

	path := filepath.Join(dir, "doccollect.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  format: ${DOCCOLLECT_TEST_FMT}\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, OutputFormatJSON, cfg.Output.Format)
	assert.Equal(t, "fromenv", os.Getenv("DOCCOLLECT_TEST_KEEP"))
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doccollect.yaml")
	require.NoError(t, Init(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"gfm"}, cfg.Markdown.Extensions)

	err = Init(path, false)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
	require.NoError(t, Init(path, true))
}

func TestNormalizeConfigWarnings(t *testing.T) {
	cfg := &Config{
		Logging: LoggingConfig{Level: "verbose", Format: "JSON"},
		Collect: CollectConfig{Concurrency: -2},
	}
	res := NormalizeConfig(cfg)
	assert.Equal(t, LogLevelInfo, cfg.Logging.Level)
	assert.Equal(t, LogFormatJSON, cfg.Logging.Format)
	assert.Zero(t, cfg.Collect.Concurrency)
	assert.Len(t, res.Warnings, 3)
}

func TestLogLevelSlogLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", LogLevelDebug.SlogLevel().String())
	assert.Equal(t, "INFO", LogLevel("other").SlogLevel().String())
}
