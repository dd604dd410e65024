package markdown

import (
	"cmp"
	"slices"
	"strings"

	"git.home.luguber.info/inful/doccollect/internal/foundation/errors"
)

// Edit replaces the byte range [Start, End) of a source text.
// Offsets always refer to the original text, never to a partially edited one.
type Edit struct {
	Start       int
	End         int
	Replacement string
}

// ApplyEdits returns source with every edit applied. Edits may be given in
// any order but must not overlap; zero-width edits insert at Start.
func ApplyEdits(source string, edits []Edit) (string, error) {
	if len(edits) == 0 {
		return source, nil
	}

	sorted := slices.Clone(edits)
	slices.SortStableFunc(sorted, func(a, b Edit) int {
		return cmp.Compare(a.Start, b.Start)
	})

	var b strings.Builder
	b.Grow(len(source))
	pos := 0
	for i, e := range sorted {
		switch {
		case e.Start < 0 || e.End < e.Start:
			return "", invalidEdit(i, e, "invalid range")
		case e.End > len(source):
			return "", invalidEdit(i, e, "range out of bounds")
		case e.Start < pos:
			return "", invalidEdit(i, e, "overlapping ranges")
		}
		b.WriteString(source[pos:e.Start])
		b.WriteString(e.Replacement)
		pos = e.End
	}
	b.WriteString(source[pos:])
	return b.String(), nil
}

func invalidEdit(i int, e Edit, msg string) error {
	return errors.InternalError(msg).
		WithContext("edit", i).
		WithContext("start", e.Start).
		WithContext("end", e.End).
		Build()
}
