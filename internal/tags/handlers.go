package tags

import (
	"strings"

	"git.home.luguber.info/inful/doccollect/internal/docrecord"
	"git.home.luguber.info/inful/doccollect/internal/foundation"
)

// Param appends a parameter entry. Text without a name adds a diagnostic instead.
func Param(rec *docrecord.Record, tag, text string) {
	p, ok := ParseParam(text)
	if !ok {
		rec.Diagnose(tag, "missing parameter name")
		return
	}
	rec.AddParam(p)
}

// Property appends a property entry using the @param grammar.
func Property(rec *docrecord.Record, tag, text string) {
	p, ok := ParseParam(text)
	if !ok {
		rec.Diagnose(tag, "missing property name")
		return
	}
	rec.AddProperty(p)
}

// Description stores text verbatim; the last occurrence wins. Markdown is
// rendered later, never here.
func Description(rec *docrecord.Record, _ string, text string) {
	rec.Description = text
}

// Example stores text with surrounding whitespace trimmed. Template
// placeholders such as {{ expr }} are kept as written.
func Example(rec *docrecord.Record, _ string, text string) {
	rec.Example = strings.TrimSpace(text)
}

// Returns stores the {type} description pair.
func Returns(rec *docrecord.Record, _ string, text string) {
	r := ParseReturns(text)
	rec.Returns = &r
}

// Name stores the first line of text as the record name.
func Name(rec *docrecord.Record, _ string, text string) {
	rec.Name = firstLine(text)
}

// Kind stores the documented kind (function, directive, filter, ...).
func Kind(rec *docrecord.Record, _ string, text string) {
	rec.Kind = firstLine(text)
}

// Element stores the element usage name of a directive.
func Element(rec *docrecord.Record, _ string, text string) {
	rec.Element = firstLine(text)
}

// Requires appends one dependency per tag.
func Requires(rec *docrecord.Record, tag, text string) {
	if v := firstLine(text); v != "" {
		rec.Requires = append(rec.Requires, v)
		return
	}
	rec.Diagnose(tag, "empty requirement")
}

// See appends one reference per tag.
func See(rec *docrecord.Record, tag, text string) {
	if v := strings.TrimSpace(text); v != "" {
		rec.See = append(rec.See, v)
		return
	}
	rec.Diagnose(tag, "empty reference")
}

// Deprecated marks the record deprecated with an optional note.
func Deprecated(rec *docrecord.Record, _ string, text string) {
	rec.Deprecated = foundation.Some(strings.TrimSpace(text))
}

func firstLine(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	return strings.TrimSpace(text)
}
