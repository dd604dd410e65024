package pages

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/inful/mdfp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/doccollect/internal/docrecord"
	"git.home.luguber.info/inful/doccollect/internal/foundation"
)

func numberRecord() *docrecord.Record {
	return &docrecord.Record{
		Name:        "angular.filter.number",
		Kind:        "filter",
		Description: "Formats a number as text.",
		Param: []docrecord.Parameter{
			{Type: "(number|string)", Name: "number", Description: "Number to format."},
			{Type: "(number|string)", Name: "fractionSize", Default: foundation.Some("2"), Description: "Decimal places.", Optional: true},
		},
		Returns: &docrecord.Returns{Type: "string", Description: "Number rounded."},
		Example: "<div>{{ 1234.5678 | number:2 }}</div>",
		UID:     "9b1c8d36-0000-5000-8000-000000000000",
		Source:  &docrecord.Source{File: "src/number.js", Line: 12},
	}
}

func TestBuild(t *testing.T) {
	page, err := Build(numberRecord())
	require.NoError(t, err)

	fm, body, had, err := split(page)
	require.NoError(t, err)
	require.True(t, had)

	var fields map[string]any
	require.NoError(t, yaml.Unmarshal(fm, &fields))
	assert.Equal(t, "angular.filter.number", fields["name"])
	assert.Equal(t, "filter", fields["kind"])
	assert.Equal(t, "src/number.js:12", fields["source"])
	assert.Equal(t, "string", fields["returns"])
	assert.NotEmpty(t, fields[mdfp.FingerprintField])

	params, ok := fields["params"].([]any)
	require.True(t, ok)
	require.Len(t, params, 2)
	assert.Equal(t, map[string]any{"name": "number", "type": "(number|string)"}, params[0])
	assert.Equal(t, map[string]any{"name": "fractionSize", "type": "(number|string)", "default": "2", "optional": true}, params[1])

	text := string(body)
	assert.True(t, strings.HasPrefix(text, "# angular.filter.number\n\nFormats a number as text.\n"))
	assert.Contains(t, text, "| fractionSize | `(number\\|string)` | 2 | Decimal places. |")
	assert.Contains(t, text, "```html\n<div>{{ 1234.5678 | number:2 }}</div>\n```")
}

func TestBuildIsDeterministic(t *testing.T) {
	a, err := Build(numberRecord())
	require.NoError(t, err)
	b, err := Build(numberRecord())
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestBuildPrefersRenderedProse(t *testing.T) {
	rec := numberRecord()
	rec.Rendered = &docrecord.Rendered{
		Description: "<p>Formats a number as text.</p>",
		Param:       []string{"<p>Number to format.</p>", ""},
	}
	page, err := Build(rec)
	require.NoError(t, err)
	assert.Contains(t, string(page), "\n<p>Formats a number as text.</p>\n")
	assert.Contains(t, string(page), "| number | `(number\\|string)` |  | <p>Number to format.</p> |")
	assert.Contains(t, string(page), "| Decimal places. |")
}

func TestFingerprint(t *testing.T) {
	fields := Fields(numberRecord())
	body := Body(numberRecord())

	fp, err := Fingerprint(fields, body)
	require.NoError(t, err)

	t.Run("ignores uid and fingerprint", func(t *testing.T) {
		other := Fields(numberRecord())
		other["uid"] = "different"
		other[mdfp.FingerprintField] = "stale"
		got, err := Fingerprint(other, body)
		require.NoError(t, err)
		assert.Equal(t, fp, got)
	})

	t.Run("changes with content", func(t *testing.T) {
		got, err := Fingerprint(fields, body+"more")
		require.NoError(t, err)
		assert.NotEqual(t, fp, got)
	})

	t.Run("stored in page", func(t *testing.T) {
		page, err := Build(numberRecord())
		require.NoError(t, err)
		stored, err := ReadFingerprint(page)
		require.NoError(t, err)
		assert.Equal(t, fp, stored)
	})
}

func TestReadFingerprint(t *testing.T) {
	fp, err := ReadFingerprint([]byte("no frontmatter"))
	require.NoError(t, err)
	assert.Empty(t, fp)

	_, err = ReadFingerprint([]byte("---\ntitle: x\n"))
	require.ErrorIs(t, err, errMissingClosingDelimiter)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "angular.filter.number.md", FileName(&docrecord.Record{Name: "angular.filter.number"}))
	assert.Equal(t, "ng-model-directive.md", FileName(&docrecord.Record{Name: "ng:model directive"}))
	assert.Equal(t, "abc.md", FileName(&docrecord.Record{UID: "abc"}))
	assert.Equal(t, "untitled.md", FileName(&docrecord.Record{Name: "../"}))
}

func TestWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	path, changed, err := Write(dir, numberRecord())
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, filepath.Join(dir, "angular.filter.number.md"), path)

	_, changed, err = Write(dir, numberRecord())
	require.NoError(t, err)
	assert.False(t, changed, "unchanged content must not be rewritten")

	rec := numberRecord()
	rec.Description = "Updated."
	_, changed, err = Write(dir, rec)
	require.NoError(t, err)
	assert.True(t, changed)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Updated.")
}

func TestBodyEscapesTableCells(t *testing.T) {
	rec := &docrecord.Record{
		Name: "join",
		Param: []docrecord.Parameter{
			{Type: "string", Name: "sep", Default: foundation.Some("|"), Description: "a | b"},
		},
	}
	assert.Contains(t, Body(rec), "| sep | `string` | \\| | a \\| b |\n")
}

func TestFileNamesDisambiguatesCollisions(t *testing.T) {
	recs := []*docrecord.Record{
		{Name: "format", UID: "11111111-aaaa"},
		{Name: "format", UID: "22222222-bbbb"},
		{Name: "parse", UID: "33333333-cccc"},
		{Name: "dup"},
		{Name: "dup"},
	}
	assert.Equal(t, []string{
		"format-11111111.md",
		"format-22222222.md",
		"parse.md",
		"dup-4.md",
		"dup-5.md",
	}, FileNames(recs))
}

func TestWriteAllKeepsCollidingRecords(t *testing.T) {
	dir := t.TempDir()
	a, b := numberRecord(), numberRecord()
	b.UID = "7f000000-0000-5000-8000-000000000000"
	b.Description = "From another file."

	results, err := WriteAll(dir, []*docrecord.Record{a, b})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.NotEqual(t, results[0].Path, results[1].Path)
	assert.True(t, results[0].Changed)
	assert.True(t, results[1].Changed)

	content, err := os.ReadFile(results[1].Path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "From another file.")

	results, err = WriteAll(dir, []*docrecord.Record{a, b})
	require.NoError(t, err)
	assert.False(t, results[0].Changed)
	assert.False(t, results[1].Changed)
}

func TestSerializeYAMLSortsKeys(t *testing.T) {
	out, err := serializeYAML(map[string]any{
		"b": 1,
		"a": map[string]any{"z": true, "y": []string{"q"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "a:\n  y:\n    - q\n  z: true\nb: 1\n", string(out))

	_, err = serializeYAML(map[string]any{"x": 1.5})
	require.Error(t, err)
}
