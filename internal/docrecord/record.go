// Package docrecord defines the documentation record produced for one comment block.
package docrecord

import (
	"git.home.luguber.info/inful/doccollect/internal/foundation"
)

// Record is the structured result of parsing one comment block.
//
// A Record is created empty per block and mutated only by tag handlers while
// that block is processed; afterwards it is owned by the caller.
type Record struct {
	Name        string                    `json:"name,omitempty" yaml:"name,omitempty"`
	Kind        string                    `json:"kind,omitempty" yaml:"kind,omitempty"`
	Element     string                    `json:"element,omitempty" yaml:"element,omitempty"`
	Description string                    `json:"description,omitempty" yaml:"description,omitempty"`
	Param       []Parameter               `json:"param,omitempty" yaml:"param,omitempty"`
	Property    []Parameter               `json:"property,omitempty" yaml:"property,omitempty"`
	Returns     *Returns                  `json:"returns,omitempty" yaml:"returns,omitempty"`
	Example     string                    `json:"example,omitempty" yaml:"example,omitempty"`
	Requires    []string                  `json:"requires,omitempty" yaml:"requires,omitempty"`
	See         []string                  `json:"see,omitempty" yaml:"see,omitempty"`
	Deprecated  foundation.Option[string] `json:"deprecated,omitzero" yaml:"deprecated,omitempty"`

	UID         string       `json:"uid,omitempty" yaml:"uid,omitempty"`
	Source      *Source      `json:"source,omitempty" yaml:"source,omitempty"`
	Rendered    *Rendered    `json:"rendered,omitempty" yaml:"rendered,omitempty"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// Parameter describes one @param or @property entry.
//
// Default is present only when the name was written in the bracketed
// [name=default] form. Description is always a string, possibly empty.
type Parameter struct {
	Type        string                    `json:"type" yaml:"type"`
	Name        string                    `json:"name" yaml:"name"`
	Default     foundation.Option[string] `json:"default,omitzero" yaml:"default,omitempty"`
	Description string                    `json:"description" yaml:"description"`
	Optional    bool                      `json:"optional,omitempty" yaml:"optional,omitempty"`
}

// Returns describes the @returns tag.
type Returns struct {
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description" yaml:"description"`
}

// Source locates the comment block a record was collected from.
type Source struct {
	File string `json:"file,omitempty" yaml:"file,omitempty"`
	Line int    `json:"line" yaml:"line"`
}

// Rendered holds HTML renderings of the prose fields. Example is never rendered.
type Rendered struct {
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Param       []string `json:"param,omitempty" yaml:"param,omitempty"`
	Returns     string   `json:"returns,omitempty" yaml:"returns,omitempty"`
}

// Diagnostic notes a tag whose text could only be parsed partially.
type Diagnostic struct {
	Tag     string `json:"tag" yaml:"tag"`
	Message string `json:"message" yaml:"message"`
}

// New returns an empty record.
func New() *Record {
	return &Record{}
}

// AddParam appends p to the parameter list, preserving source order.
func (r *Record) AddParam(p Parameter) {
	r.Param = append(r.Param, p)
}

// AddProperty appends p to the property list, preserving source order.
func (r *Record) AddProperty(p Parameter) {
	r.Property = append(r.Property, p)
}

// Diagnose records a best-effort parse note for tag.
func (r *Record) Diagnose(tag, message string) {
	r.Diagnostics = append(r.Diagnostics, Diagnostic{Tag: tag, Message: message})
}

// Title returns the record name, or a location-derived fallback for unnamed blocks.
func (r *Record) Title() string {
	if r.Name != "" {
		return r.Name
	}
	if r.Source != nil && r.Source.File != "" {
		return r.Source.File
	}
	return "untitled"
}
