// Package errors provides the classified error type used across doccollect.
//
// Tag parsing and markdown rendering never fail on malformed input; classified
// errors are reserved for the surrounding tool (configuration, file access,
// output encoding) so the CLI can map them to exit codes.
//
// Example usage:
//
//	err := errors.WrapError(readErr, errors.CategoryFileSystem, "failed to read source").
//		WithContext("path", path).
//		Build()
package errors
