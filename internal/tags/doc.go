// Package tags maps documentation tag names (param, description, example, ...)
// to handlers that parse the tag text and fill a docrecord.Record.
//
// Dispatch of an unregistered tag is a no-op, and no handler fails on
// malformed text: a @param without braces gets an empty type, a missing
// description becomes "", and text with no usable name adds a diagnostic to
// the record rather than an entry.
package tags
