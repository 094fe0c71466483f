package pxd

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"

	"github.com/renpy/pxdgen/internal/ast"
	"github.com/renpy/pxdgen/internal/config"
	"github.com/renpy/pxdgen/internal/filter"
)

// Stats summarizes one run.
type Stats struct {
	// Seen is the number of top-level nodes.
	Seen int
	// Filtered is the number of top-level nodes rejected by the filter.
	Filtered int
	// Unhandled is the number of top-level nodes that produced nothing.
	Unhandled int
	// Declarations is the number of blocks written.
	Declarations int
	// Fallbacks is the number of declarations printed as single lines.
	Fallbacks int
	// Synthetic is the number of synthetic names handed out.
	Synthetic int
}

// Driver runs the filter, stripper and emitter over a translation unit.
type Driver struct {
	filter   *filter.Filter
	emit     EmitterOptions
	preamble config.PreambleConfig
	logger   *slog.Logger
}

// NewDriver builds a Driver from configuration. A nil logger discards
// log output.
func NewDriver(cfg *config.Config, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Driver{
		filter: filter.New(cfg.Filter),
		emit: EmitterOptions{
			Omit:      cfg.Emit.Omit,
			Constants: cfg.Emit.Constants,
		},
		preamble: cfg.Preamble,
		logger:   logger,
	}
}

// Run writes the declarations of tu to w in source order.
//
// Output is buffered for the whole run: if a node reaches a step that has
// no case for it, Run returns an error and nothing is written to w.
func (d *Driver) Run(tu *ast.TranslationUnit, w io.Writer) (stats Stats, err error) {
	var buf bytes.Buffer
	out := NewWriter(&buf)
	names := &Namer{}
	em := NewEmitter(out, names, d.emit)

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		switch fault := r.(type) {
		case *InternalError:
			err = fmt.Errorf("generating declarations: %w", fault)
		case *ast.UnknownNodeError:
			err = fmt.Errorf("generating declarations: %w", fault)
		default:
			panic(r)
		}
	}()

	for _, n := range tu.Ext {
		stats.Seen++
		name, _ := ast.Name(n)

		if !d.filter.Check(n) {
			stats.Filtered++
			d.logger.Debug("skipping declaration", "name", name, "type", nodeType(n))
			continue
		}

		if !em.Emit(Strip(n), Plain, "") {
			stats.Unhandled++
			d.logger.Debug("unhandled declaration", "name", name, "type", nodeType(n))
		}
	}

	if err := em.Err(); err != nil {
		return stats, fmt.Errorf("formatting declarations: %w", err)
	}

	stats.Declarations = out.Count()
	stats.Fallbacks = em.Fallbacks()
	stats.Synthetic = names.Count()

	if _, err := buf.WriteTo(w); err != nil {
		return stats, fmt.Errorf("writing declarations: %w", err)
	}
	return stats, nil
}

// Generate writes the preamble followed by the declarations of tu.
func (d *Driver) Generate(tu *ast.TranslationUnit, w io.Writer) (Stats, error) {
	var buf bytes.Buffer
	if err := WritePreamble(&buf, d.preamble); err != nil {
		return Stats{}, err
	}
	stats, err := d.Run(tu, &buf)
	if err != nil {
		return stats, err
	}
	if _, err := buf.WriteTo(w); err != nil {
		return stats, fmt.Errorf("writing output: %w", err)
	}
	return stats, nil
}

func nodeType(n ast.Node) string {
	return fmt.Sprintf("%T", n)
}
