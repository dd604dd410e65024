package comment

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Block is one documentation comment.
type Block struct {
	// Line is the 1-based source line of the opening /**.
	Line int
	// Text is the comment body with the '*' gutter removed, NFC-normalized.
	Text string
	// Lead is the free text before the first tag.
	Lead string
	Tags []Tag
}

// Tag is one tag marker and the text that follows it up to the next tag.
type Tag struct {
	Name string
	Text string
	// Line is the 1-based source line of the marker. SplitTags reports it
	// relative to the text it was given.
	Line int
}

// Scan returns the documentation comments of src in source order. An
// unterminated comment ends the scan.
func Scan(src []byte) []Block {
	text := strings.ReplaceAll(string(src), "\r\n", "\n")

	blocks := make([]Block, 0)
	line, counted := 1, 0
	for pos := 0; pos < len(text); {
		i := strings.Index(text[pos:], "/**")
		if i < 0 {
			break
		}
		start := pos + i
		bodyStart := start + 3
		if bodyStart < len(text) && (text[bodyStart] == '/' || text[bodyStart] == '*') {
			pos = bodyStart
			continue
		}
		j := strings.Index(text[bodyStart:], "*/")
		if j < 0 {
			break
		}
		end := bodyStart + j

		line += strings.Count(text[counted:start], "\n")
		counted = start

		body := norm.NFC.String(stripGutter(text[bodyStart:end]))
		lead, tags := SplitTags(body)
		for k := range tags {
			tags[k].Line += line - 1
		}
		blocks = append(blocks, Block{Line: line, Text: body, Lead: lead, Tags: tags})
		pos = end + 2
	}
	return blocks
}

// stripGutter removes the leading "*" and one following blank from every
// line that has one. Lines without a gutter are kept as written.
func stripGutter(body string) string {
	lines := strings.Split(body, "\n")
	for i, l := range lines {
		trimmed := strings.TrimLeft(l, " \t")
		switch {
		case strings.HasPrefix(trimmed, "*"):
			lines[i] = trimOneBlank(trimmed[1:])
		case i == 0:
			lines[i] = trimOneBlank(l)
		}
	}
	return strings.Join(lines, "\n")
}

func trimOneBlank(s string) string {
	if s != "" && (s[0] == ' ' || s[0] == '\t') {
		return s[1:]
	}
	return s
}

// tagLine matches a tag marker; up to three spaces of indentation are allowed
// so indented example code such as decorators is not taken for a tag.
var tagLine = regexp.MustCompile(`^ {0,3}@([A-Za-z][\w-]*)`)

// SplitTags splits comment text into the free text before the first tag and
// the tags in source order. A tag's text runs from after its name to the next
// tag line; leading blank lines and trailing whitespace are dropped.
func SplitTags(text string) (lead string, tags []Tag) {
	type pending struct {
		tag   Tag
		lines []string
	}

	var (
		leadLines []string
		cur       *pending
	)
	flush := func() {
		if cur != nil {
			cur.tag.Text = tidy(cur.lines)
			tags = append(tags, cur.tag)
		}
	}

	for i, l := range strings.Split(text, "\n") {
		m := tagLine.FindStringSubmatchIndex(l)
		if m == nil {
			if cur != nil {
				cur.lines = append(cur.lines, l)
			} else {
				leadLines = append(leadLines, l)
			}
			continue
		}
		flush()
		cur = &pending{
			tag:   Tag{Name: l[m[2]:m[3]], Line: i + 1},
			lines: []string{trimOneBlank(l[m[3]:])},
		}
	}
	flush()

	return tidy(leadLines), tags
}

func tidy(lines []string) string {
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	return strings.TrimRightFunc(strings.Join(lines, "\n"), unicode.IsSpace)
}
