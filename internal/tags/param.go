package tags

import (
	"strings"
	"unicode"

	"git.home.luguber.info/inful/doccollect/internal/docrecord"
	"git.home.luguber.info/inful/doccollect/internal/foundation"
)

// ParseParam parses the text of a @param or @property tag:
//
//	{TYPE} NAME DESC
//	{TYPE=} [NAME=DEFAULT] DESC
//
// The type ends at the '}' balancing the opening brace, so nested record
// types survive; unbalanced types fall back to the first '}' followed by
// whitespace. A trailing '=' inside
// the braces marks the parameter optional and is not part of Type.
// ok is false when no name could be found.
func ParseParam(text string) (p docrecord.Parameter, ok bool) {
	typ, rest := splitType(text)
	if strings.HasSuffix(typ, "=") {
		typ = strings.TrimSpace(strings.TrimSuffix(typ, "="))
		p.Optional = true
	}
	p.Type = typ

	rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
	if strings.HasPrefix(rest, "[") {
		if end := closingBracket(rest); end > 0 {
			inner := rest[1:end]
			rest = rest[end+1:]
			p.Optional = true
			if eq := strings.IndexByte(inner, '='); eq >= 0 {
				p.Name = strings.TrimSpace(inner[:eq])
				p.Default = foundation.Some(strings.TrimSpace(inner[eq+1:]))
			} else {
				p.Name = strings.TrimSpace(inner)
			}
		} else {
			// Unterminated bracket: take the token itself as the name.
			var name string
			name, rest = nextToken(rest[1:])
			p.Name = name
			p.Optional = true
		}
	} else {
		p.Name, rest = nextToken(rest)
	}

	p.Description = strings.TrimSpace(rest)
	return p, p.Name != ""
}

// ParseReturns parses the text of a @returns tag: {TYPE} DESC.
func ParseReturns(text string) docrecord.Returns {
	typ, rest := splitType(text)
	return docrecord.Returns{
		Type:        typ,
		Description: strings.TrimSpace(rest),
	}
}

// splitType separates a leading {TYPE} from the remaining text. Text without a
// leading brace has an empty type. The type normally ends at the '}' that
// balances the opening brace. For unbalanced braces the first '}' followed by
// whitespace closes the type, then the first '}' at all; with no '}' the first
// token is the type.
func splitType(text string) (typ, rest string) {
	s := strings.TrimLeftFunc(text, unicode.IsSpace)
	if !strings.HasPrefix(s, "{") {
		return "", s
	}
	if end := closingBrace(s); end > 0 {
		return strings.TrimSpace(s[1:end]), s[end+1:]
	}
	for i := 1; i < len(s); i++ {
		if s[i] != '}' {
			continue
		}
		if i+1 == len(s) || isSpaceByte(s[i+1]) {
			return strings.TrimSpace(s[1:i]), s[i+1:]
		}
	}
	if i := strings.IndexByte(s, '}'); i > 0 {
		return strings.TrimSpace(s[1:i]), s[i+1:]
	}
	return nextToken(s[1:])
}

// closingBrace returns the index of the '}' balancing the '{' at s[0], or -1.
func closingBrace(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// closingBracket returns the index of the ']' balancing the '[' at s[0], or -1.
func closingBracket(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		case '\n':
			return -1
		}
	}
	return -1
}

func nextToken(s string) (tok, rest string) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := strings.IndexFunc(s, unicode.IsSpace)
	if end < 0 {
		return s, ""
	}
	return s[:end], s[end:]
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == '\v'
}
