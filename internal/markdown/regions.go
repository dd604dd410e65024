package markdown

import (
	"strings"

	"golang.org/x/net/html/atom"
)

// span is a byte range [start, end) of the source.
type span struct {
	start int
	end   int
	// html marks a raw HTML block that may hold pre, script, style or
	// textarea elements whose content is emitted verbatim.
	html bool
}

type htmlBlockKind int

const (
	htmlBlockNone htmlBlockKind = iota
	// htmlBlockRaw starts with <pre, <script, <style or <textarea and ends
	// on the line holding one of their end tags.
	htmlBlockRaw
	// htmlBlockComment starts with <!-- and ends on the line holding -->.
	htmlBlockComment
)

// proseSpans returns the ranges of text that markdown treats as prose: fenced
// and indented code blocks and inline code spans are excluded. Raw HTML
// blocks that may span blank lines are returned whole with html set.
func proseSpans(text string) []span {
	out := make([]span, 0)

	var (
		fenceChar byte
		fenceLen  int
		prevBlank = true
		prevCode  = false
		paraStart = -1
		paraEnd   = -1
		htmlStart = -1
		htmlKind  htmlBlockKind
	)
	flushPara := func() {
		if paraStart >= 0 {
			out = append(out, excludeCodeSpans(text, paraStart, paraEnd)...)
		}
		paraStart, paraEnd = -1, -1
	}

	for pos := 0; pos < len(text); {
		lineEnd := strings.IndexByte(text[pos:], '\n')
		next := len(text)
		if lineEnd >= 0 {
			lineEnd += pos
			next = lineEnd + 1
		} else {
			lineEnd = len(text)
		}
		line := text[pos:lineEnd]
		blank := strings.TrimSpace(line) == ""

		switch {
		case htmlStart >= 0:
			if closesHTMLBlock(line, htmlKind) {
				out = append(out, span{start: htmlStart, end: next, html: true})
				htmlStart = -1
				prevCode, prevBlank = false, true
			}
		case fenceLen > 0:
			// No paragraph is open after a closing fence.
			prevCode, prevBlank = false, true
			if c, n, ok := fenceMarker(line); ok && c == fenceChar && n >= fenceLen && strings.TrimSpace(line[leadingSpaces(line)+n:]) == "" {
				fenceChar, fenceLen = 0, 0
			}
		case isFenceOpen(line):
			flushPara()
			fenceChar, fenceLen, _ = fenceMarker(line)
			prevCode, prevBlank = false, false
		case htmlBlockStart(line) != htmlBlockNone:
			flushPara()
			kind := htmlBlockStart(line)
			opener := line[leadingSpaces(line)+2:]
			if closesHTMLBlock(opener, kind) {
				out = append(out, span{start: pos, end: next, html: true})
				prevCode, prevBlank = false, true
			} else {
				htmlStart, htmlKind = pos, kind
			}
		case !blank && isIndentedCode(line) && (prevBlank || prevCode):
			flushPara()
			prevCode, prevBlank = true, false
		case blank:
			// prevCode is kept: blank lines do not close an indented code block.
			flushPara()
			prevBlank = true
		default:
			if paraStart < 0 {
				paraStart = pos
			}
			paraEnd = next
			prevCode, prevBlank = false, false
		}
		pos = next
	}
	flushPara()
	if htmlStart >= 0 {
		out = append(out, span{start: htmlStart, end: len(text), html: true})
	}

	return out
}

func leadingSpaces(line string) int {
	n := 0
	for n < len(line) && line[n] == ' ' {
		n++
	}
	return n
}

func isIndentedCode(line string) bool {
	return strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t")
}

// fenceMarker reports the fence character and run length at the start of
// line, allowing up to three spaces of indentation.
func fenceMarker(line string) (byte, int, bool) {
	indent := leadingSpaces(line)
	if indent > 3 || indent >= len(line) {
		return 0, 0, false
	}
	c := line[indent]
	if c != '`' && c != '~' {
		return 0, 0, false
	}
	n := 0
	for indent+n < len(line) && line[indent+n] == c {
		n++
	}
	if n < 3 {
		return 0, 0, false
	}
	return c, n, true
}

func isFenceOpen(line string) bool {
	c, n, ok := fenceMarker(line)
	if !ok {
		return false
	}
	// A backtick fence's info string may not contain backticks.
	if c == '`' && strings.Contains(line[leadingSpaces(line)+n:], "`") {
		return false
	}
	return true
}

// excludeCodeSpans splits text[start:end] around inline code spans. A
// backtick run without a matching closing run of the same length is literal.
func excludeCodeSpans(text string, start, end int) []span {
	out := make([]span, 0, 1)
	segStart := start

	for i := start; i < end; {
		if text[i] != '`' {
			i++
			continue
		}
		run := 1
		for i+run < end && text[i+run] == '`' {
			run++
		}
		closeAt := findBacktickRun(text[i+run:end], run)
		if closeAt < 0 {
			i += run
			continue
		}
		if i > segStart {
			out = append(out, span{start: segStart, end: i})
		}
		i = i + run + closeAt + run
		segStart = i
	}
	if segStart < end {
		out = append(out, span{start: segStart, end: end})
	}
	return out
}

// findBacktickRun returns the offset of the first run of exactly n backticks.
func findBacktickRun(s string, n int) int {
	for i := 0; i < len(s); {
		if s[i] != '`' {
			i++
			continue
		}
		run := 1
		for i+run < len(s) && s[i+run] == '`' {
			run++
		}
		if run == n {
			return i
		}
		i += run
	}
	return -1
}

// htmlBlockStart reports which verbatim HTML block, if any, line opens.
func htmlBlockStart(line string) htmlBlockKind {
	indent := leadingSpaces(line)
	if indent > 3 {
		return htmlBlockNone
	}
	rest := line[indent:]
	if strings.HasPrefix(rest, "<!--") {
		return htmlBlockComment
	}
	if !strings.HasPrefix(rest, "<") {
		return htmlBlockNone
	}
	n := 1
	for n < len(rest) && isASCIILetter(rest[n]) {
		n++
	}
	if !isRawTextElement(rest[1:n]) {
		return htmlBlockNone
	}
	if n < len(rest) && rest[n] != ' ' && rest[n] != '\t' && rest[n] != '>' {
		return htmlBlockNone
	}
	return htmlBlockRaw
}

func closesHTMLBlock(line string, kind htmlBlockKind) bool {
	if kind == htmlBlockComment {
		return strings.Contains(line, "-->")
	}
	lower := strings.ToLower(line)
	for _, end := range []string{"</pre>", "</script>", "</style>", "</textarea>"} {
		if strings.Contains(lower, end) {
			return true
		}
	}
	return false
}

// isRawTextElement reports whether name is an element whose content markdown
// HTML blocks pass through untouched.
func isRawTextElement(name string) bool {
	switch atom.Lookup([]byte(strings.ToLower(name))) {
	case atom.Pre, atom.Script, atom.Style, atom.Textarea:
		return true
	}
	return false
}

func isASCIILetter(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}
