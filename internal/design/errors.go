package design

import (
	"errors"
	"fmt"
)

// ErrConfiguration is the category shared by every loader failure, missing
// files and malformed documents alike.
var ErrConfiguration = errors.New("design: configuration error")

// ErrNotFound indicates the design path does not exist.
var ErrNotFound = fmt.Errorf("%w: file not found", ErrConfiguration)

// ParseError reports a document that could not be parsed into a mapping.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("design: parse %s (line %d): %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("design: parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrConfiguration, e.Err}
}
