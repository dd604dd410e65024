package markdown

import (
	"regexp"
	"strings"
)

// NeutralizeOptions adjusts which tags count as custom elements.
type NeutralizeOptions struct {
	// Allow lists tag names that are never rewritten, even when they look custom.
	Allow []string `yaml:"allow" json:"allow,omitempty"`
	// Deny lists tag names that are always rewritten, even when they are known HTML.
	Deny []string `yaml:"deny" json:"deny,omitempty"`
}

// Neutralizer rewrites custom-element tags in markdown prose into inert
// teletype text so the HTML renderer shows them literally.
type Neutralizer struct {
	allow map[string]struct{}
	deny  map[string]struct{}
}

// NewNeutralizer builds a Neutralizer. Tag names are compared case-insensitively.
func NewNeutralizer(opts NeutralizeOptions) *Neutralizer {
	return &Neutralizer{
		allow: nameSet(opts.Allow),
		deny:  nameSet(opts.Deny),
	}
}

func nameSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

// IsCustom reports whether a tag name is treated as a custom element.
func (n *Neutralizer) IsCustom(name string) bool {
	name = strings.ToLower(name)
	if _, ok := n.allow[name]; ok {
		return false
	}
	if _, ok := n.deny[name]; ok {
		return true
	}
	if strings.ContainsAny(name, "-:") {
		return true
	}
	return !isKnownElement(name)
}

// Neutralize rewrites every custom tag in the prose parts of text as
// <tt>escaped-tag</tt> and reports how many tags were rewritten. A tag is
// recognized with the CommonMark raw HTML grammar, so exactly the tags the
// markdown engine would emit as markup are candidates. Code blocks, code
// spans, comments, escaped tags, autolinks and the contents of pre, script,
// style and textarea HTML blocks are left as written.
func (n *Neutralizer) Neutralize(text string) (string, int) {
	if !strings.Contains(text, "<") {
		return text, 0
	}

	edits := make([]Edit, 0)
	for _, s := range proseSpans(text) {
		edits = n.scan(text, s, edits)
	}

	if len(edits) == 0 {
		return text, 0
	}
	out, err := ApplyEdits(text, edits)
	if err != nil {
		return text, 0
	}
	return out, len(edits)
}

// scan appends the edits for the custom tags in s. Each '<' is matched on its
// own, so text that fails to parse as a tag never hides the tags after it.
func (n *Neutralizer) scan(text string, s span, edits []Edit) []Edit {
	for i := s.start; i < s.end; {
		next := strings.IndexByte(text[i:s.end], '<')
		if next < 0 {
			break
		}
		i += next
		rest := text[i:s.end]

		if !s.html && escapedAt(text, i) {
			i++
			continue
		}

		if strings.HasPrefix(rest, "<!--") {
			if end := strings.Index(rest[2:], "-->"); end >= 0 {
				i += 2 + end + len("-->")
				continue
			}
			if s.html {
				break
			}
			i++
			continue
		}

		if loc := closeTag.FindStringSubmatchIndex(rest); loc != nil {
			raw, name := rest[:loc[1]], rest[loc[2]:loc[3]]
			if n.IsCustom(name) && n.rewritable(raw, name) {
				edits = append(edits, Edit{Start: i, End: i + len(raw), Replacement: teletype(raw)})
			}
			i += len(raw)
			continue
		}

		if loc := openTag.FindStringSubmatchIndex(rest); loc != nil {
			raw, name := rest[:loc[1]], rest[loc[2]:loc[3]]
			i += len(raw)
			if n.IsCustom(name) && n.rewritable(raw, name) {
				edits = append(edits, Edit{Start: i - len(raw), End: i, Replacement: teletype(raw)})
				continue
			}
			if s.html && isRawTextElement(name) {
				i += rawTextEnd(text[i:s.end], name)
			}
			continue
		}

		if loc := uriAutolink.FindStringIndex(rest); loc != nil {
			raw := rest[:loc[1]]
			if n.denied(autolinkName(raw)) {
				edits = append(edits, Edit{Start: i, End: i + len(raw), Replacement: teletype(raw)})
			}
			i += len(raw)
			continue
		}

		if loc := emailAutolink.FindStringIndex(rest); loc != nil {
			i += loc[1]
			continue
		}
		i++
	}
	return edits
}

// rewritable reports whether a custom tag is to be rewritten. Tags that also
// read as URI autolinks are kept unless their name is denied.
func (n *Neutralizer) rewritable(raw, name string) bool {
	return n.denied(name) || !isAutolink(raw)
}

func (n *Neutralizer) denied(name string) bool {
	_, ok := n.deny[strings.ToLower(name)]
	return ok
}

// escapedAt reports whether the byte at pos is preceded by an odd number of backslashes.
func escapedAt(text string, pos int) bool {
	count := 0
	for i := pos - 1; i >= 0 && text[i] == '\\'; i-- {
		count++
	}
	return count%2 == 1
}

const (
	tagName        = `[A-Za-z][A-Za-z0-9:-]*`
	attribute      = `\s+[A-Za-z_:][A-Za-z0-9_.:-]*(?:\s*=\s*(?:[^\s"'=<>` + "`" + `]+|'[^']*'|"[^"]*"))?`
	emailLocalPart = `[A-Za-z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+`
	emailDomain    = `[A-Za-z0-9](?:[A-Za-z0-9-]{0,61}[A-Za-z0-9])?(?:\.[A-Za-z0-9](?:[A-Za-z0-9-]{0,61}[A-Za-z0-9])?)*`
)

// Tag names additionally accept ':' so namespaced elements such as <ng:view>
// are recognized.
var (
	openTag       = regexp.MustCompile(`^<(` + tagName + `)(?:` + attribute + `)*\s*/?>`)
	closeTag      = regexp.MustCompile(`^</(` + tagName + `)\s*>`)
	uriAutolink   = regexp.MustCompile(`^<[A-Za-z][A-Za-z0-9+.-]{1,31}:[^\s<>]*>`)
	emailAutolink = regexp.MustCompile(`^<` + emailLocalPart + `@` + emailDomain + `>`)
)

// isAutolink reports whether raw is a markdown URI or email autolink. URI
// autolinks must carry an address after the scheme ('/', '.' or '@'), so
// namespaced elements such as <ng:view> stay custom tags.
func isAutolink(raw string) bool {
	if loc := emailAutolink.FindStringIndex(raw); loc != nil && loc[1] == len(raw) {
		return true
	}
	loc := uriAutolink.FindStringIndex(raw)
	if loc == nil || loc[1] != len(raw) {
		return false
	}
	rest := raw[strings.IndexByte(raw, ':')+1 : len(raw)-1]
	return strings.ContainsAny(rest, "/.@")
}

// autolinkName returns the element name an autolink-shaped tag would carry,
// which is the text up to the first '/'.
func autolinkName(raw string) string {
	name := raw[1 : len(raw)-1]
	if i := strings.IndexByte(name, '/'); i >= 0 {
		name = name[:i]
	}
	return name
}

// rawTextEnd returns the offset just past the end tag of the raw text
// element name in s, or len(s) when the element is not closed.
func rawTextEnd(s, name string) int {
	lower := strings.ToLower(s)
	closing := "</" + strings.ToLower(name)
	for from := 0; ; {
		i := strings.Index(lower[from:], closing)
		if i < 0 {
			return len(s)
		}
		at := from + i
		if loc := closeTag.FindStringSubmatchIndex(s[at:]); loc != nil && strings.EqualFold(s[at+loc[2]:at+loc[3]], name) {
			return at + loc[1]
		}
		from = at + len(closing)
	}
}

var teletypeEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func teletype(raw string) string {
	return "<tt>" + teletypeEscaper.Replace(raw) + "</tt>"
}
