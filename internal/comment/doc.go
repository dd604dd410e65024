// Package comment finds /** ... */ documentation comments in source text and
// splits them into free text and (tag, text) pairs.
//
// The host language is not parsed; any /** that is not part of a /**/ or a
// /*** banner opens a block.
package comment
