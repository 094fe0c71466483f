package parser

import "fmt"

// ParseError represents a parsing error with location information.
type ParseError struct {
	Message string
	File    string
	Line    uint32
	Column  uint32
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// FileReadError is returned when a file cannot be read.
type FileReadError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *FileReadError) Error() string {
	return fmt.Sprintf("failed to read file %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *FileReadError) Unwrap() error {
	return e.Err
}

// SyntaxErrors collects the syntax errors of one parse.
type SyntaxErrors struct {
	Errs []*ParseError
}

// Error implements the error interface. It reports the first error and how
// many more followed.
func (e *SyntaxErrors) Error() string {
	switch len(e.Errs) {
	case 0:
		return "no syntax errors"
	case 1:
		return e.Errs[0].Error()
	default:
		return fmt.Sprintf("%s (and %d more syntax errors)", e.Errs[0].Error(), len(e.Errs)-1)
	}
}
