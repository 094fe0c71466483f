package pxd

import (
	"fmt"
	"io"
	"strings"

	"github.com/renpy/pxdgen/internal/config"
)

// WritePreamble writes the cimports, the `cdef extern from` line and the
// configured forward declarations.
func WritePreamble(w io.Writer, cfg config.PreambleConfig) error {
	var b strings.Builder
	for _, m := range cfg.Cimports {
		fmt.Fprintf(&b, "from %s cimport *\n", m)
	}
	if len(cfg.Cimports) > 0 {
		b.WriteByte('\n')
	}

	fmt.Fprintf(&b, "cdef extern from %q", cfg.Header)
	if !cfg.WithGIL {
		b.WriteString(" nogil")
	}
	b.WriteString(":\n\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("writing preamble: %w", err)
	}

	out := NewWriter(w)
	for _, fwd := range cfg.Forward {
		if err := out.Write(Declaration{Header: fwd}); err != nil {
			return fmt.Errorf("writing preamble: %w", err)
		}
	}
	return nil
}
