package pxd

import (
	"io"
	"strings"
)

const (
	headerIndent = "    "
	bodyIndent   = "        "
)

// Declaration is one emitted block: a header line and its member lines.
type Declaration struct {
	Header string
	Body   []string
}

// Sink receives emitted declarations.
type Sink interface {
	Write(d Declaration) error
}

// Writer formats declarations inside the `cdef extern from` block: the
// header indented one level, each body line two levels, then a blank line.
//
// After the first write error all further writes are no-ops returning that
// error, so callers may check Err once at the end.
type Writer struct {
	w     io.Writer
	err   error
	count int
}

// NewWriter returns a Writer writing to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write formats d.
func (w *Writer) Write(d Declaration) error {
	if w.err != nil {
		return w.err
	}

	var b strings.Builder
	b.WriteString(headerIndent)
	b.WriteString(d.Header)
	b.WriteByte('\n')
	for _, line := range d.Body {
		b.WriteString(bodyIndent)
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	if _, err := io.WriteString(w.w, b.String()); err != nil {
		w.err = err
		return err
	}
	w.count++
	return nil
}

// Count returns the number of declarations written.
func (w *Writer) Count() int {
	return w.count
}

// Err returns the first write error, if any.
func (w *Writer) Err() error {
	return w.err
}
