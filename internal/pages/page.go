// Package pages assembles documentation records into markdown pages with
// YAML frontmatter and a content fingerprint.
package pages

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/inful/mdfp"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/doccollect/internal/docrecord"
	"git.home.luguber.info/inful/doccollect/internal/foundation/errors"
)

// Fields returns the frontmatter of rec without the fingerprint.
func Fields(rec *docrecord.Record) map[string]any {
	fields := map[string]any{"title": rec.Title()}
	if rec.Name != "" {
		fields["name"] = rec.Name
	}
	if rec.Kind != "" {
		fields["kind"] = rec.Kind
	}
	if rec.Element != "" {
		fields["element"] = rec.Element
	}
	if rec.UID != "" {
		fields["uid"] = rec.UID
	}
	if rec.Source != nil && rec.Source.File != "" {
		fields["source"] = fmt.Sprintf("%s:%d", rec.Source.File, rec.Source.Line)
	}
	if len(rec.Param) > 0 {
		params := make([]map[string]any, 0, len(rec.Param))
		for _, p := range rec.Param {
			entry := map[string]any{"name": p.Name, "type": p.Type}
			if def, ok := p.Default.Get(); ok {
				entry["default"] = def
			}
			if p.Optional {
				entry["optional"] = true
			}
			params = append(params, entry)
		}
		fields["params"] = params
	}
	if rec.Returns != nil && rec.Returns.Type != "" {
		fields["returns"] = rec.Returns.Type
	}
	if len(rec.Requires) > 0 {
		fields["requires"] = rec.Requires
	}
	if note, ok := rec.Deprecated.Get(); ok {
		fields["deprecated"] = note
		if note == "" {
			fields["deprecated"] = true
		}
	}
	return fields
}

// Body returns the markdown body of rec. Rendered HTML is preferred over the
// source text of prose fields when present.
func Body(rec *docrecord.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", rec.Title())

	if desc := prose(rec.Description, rec.Rendered, func(r *docrecord.Rendered) string { return r.Description }); desc != "" {
		fmt.Fprintf(&b, "\n%s\n", desc)
	}

	if len(rec.Param) > 0 {
		b.WriteString("\n## Parameters\n\n| Name | Type | Default | Description |\n|---|---|---|---|\n")
		for i, p := range rec.Param {
			desc := p.Description
			if rec.Rendered != nil && i < len(rec.Rendered.Param) && rec.Rendered.Param[i] != "" {
				desc = rec.Rendered.Param[i]
			}
			fmt.Fprintf(&b, "| %s | `%s` | %s | %s |\n",
				tableCell(p.Name), tableCell(p.Type), tableCell(p.Default.UnwrapOr("")), tableCell(desc))
		}
	}

	if rec.Returns != nil {
		desc := prose(rec.Returns.Description, rec.Rendered, func(r *docrecord.Rendered) string { return r.Returns })
		fmt.Fprintf(&b, "\n## Returns\n\n`%s` %s\n", rec.Returns.Type, desc)
	}

	if rec.Example != "" {
		fmt.Fprintf(&b, "\n## Example\n\n```html\n%s\n```\n", rec.Example)
	}

	if len(rec.See) > 0 {
		b.WriteString("\n## See also\n\n")
		for _, s := range rec.See {
			fmt.Fprintf(&b, "- %s\n", s)
		}
	}
	return b.String()
}

func prose(src string, rendered *docrecord.Rendered, pick func(*docrecord.Rendered) string) string {
	if rendered != nil {
		if html := pick(rendered); html != "" {
			return html
		}
	}
	return src
}

func tableCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.Join(strings.Fields(s), " ")
}

// Fingerprint computes the content fingerprint of a page. The fingerprint
// and uid fields are excluded from the hash.
func Fingerprint(fields map[string]any, body string) (string, error) {
	forHash := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == mdfp.FingerprintField || k == "uid" {
			continue
		}
		forHash[k] = v
	}
	serialized, err := serializeYAML(forHash)
	if err != nil {
		return "", err
	}
	return mdfp.CalculateFingerprintFromParts(strings.TrimSuffix(string(serialized), "\n"), body), nil
}

// Build renders rec as a markdown page with YAML frontmatter.
func Build(rec *docrecord.Record) ([]byte, error) {
	fields := Fields(rec)
	body := Body(rec)

	fp, err := Fingerprint(fields, body)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryOutput, "failed to fingerprint page").
			WithContext("name", rec.Title()).
			Build()
	}
	fields[mdfp.FingerprintField] = fp

	fm, err := serializeYAML(fields)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryOutput, "failed to serialize frontmatter").
			WithContext("name", rec.Title()).
			Build()
	}
	return join(fm, []byte(body)), nil
}

// ReadFingerprint returns the fingerprint stored in a page's frontmatter, or
// "" when the page has none.
func ReadFingerprint(content []byte) (string, error) {
	fm, _, had, err := split(content)
	if err != nil || !had {
		return "", err
	}
	var fields map[string]any
	if err := yaml.Unmarshal(fm, &fields); err != nil {
		return "", err
	}
	fp, _ := fields[mdfp.FingerprintField].(string)
	return fp, nil
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// FileName returns the page file name for rec.
func FileName(rec *docrecord.Record) string {
	base := rec.Name
	if base == "" {
		base = rec.UID
	}
	base = strings.Trim(unsafeFileChars.ReplaceAllString(base, "-"), "-.")
	if base == "" {
		base = "untitled"
	}
	return base + ".md"
}

// FileNames assigns page file names to recs, index for index. Records whose
// FileName collides with another record's get the first eight characters of
// their UID appended, so no page overwrites another.
func FileNames(recs []*docrecord.Record) []string {
	names := make([]string, len(recs))
	seen := make(map[string]int, len(recs))
	for i, rec := range recs {
		names[i] = FileName(rec)
		seen[names[i]]++
	}
	for i, rec := range recs {
		if seen[names[i]] < 2 {
			continue
		}
		suffix := rec.UID
		if len(suffix) > 8 {
			suffix = suffix[:8]
		}
		if suffix == "" {
			suffix = strconv.Itoa(i + 1)
		}
		names[i] = strings.TrimSuffix(names[i], ".md") + "-" + suffix + ".md"
	}
	return names
}

// Result reports one page handled by WriteAll.
type Result struct {
	Path    string
	Changed bool
}

// WriteAll writes one page per record into dir using FileNames.
func WriteAll(dir string, recs []*docrecord.Record) ([]Result, error) {
	names := FileNames(recs)
	results := make([]Result, 0, len(recs))
	for i, rec := range recs {
		path, changed, err := writePage(dir, names[i], rec)
		if err != nil {
			return results, err
		}
		results = append(results, Result{Path: path, Changed: changed})
	}
	return results, nil
}

// Write writes the page of rec into dir. An existing page with the same
// fingerprint is left untouched and changed is false.
func Write(dir string, rec *docrecord.Record) (path string, changed bool, err error) {
	return writePage(dir, FileName(rec), rec)
}

func writePage(dir, name string, rec *docrecord.Record) (path string, changed bool, err error) {
	content, err := Build(rec)
	if err != nil {
		return "", false, err
	}
	path = filepath.Join(dir, name)

	if existing, readErr := os.ReadFile(path); readErr == nil {
		oldFP, _ := ReadFingerprint(existing)
		newFP, _ := ReadFingerprint(content)
		if oldFP != "" && oldFP == newFP {
			return path, false, nil
		}
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", false, errors.WrapError(err, errors.CategoryFileSystem, "failed to create output directory").
			WithContext("path", dir).
			Build()
	}
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return "", false, errors.WrapError(err, errors.CategoryFileSystem, "failed to write page").
			WithContext("path", path).
			Build()
	}
	return path, true, nil
}
