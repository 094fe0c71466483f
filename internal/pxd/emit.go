// Package pxd turns C declarations into Cython .pxd declaration blocks.
//
// The pipeline for one top-level node is Strip, then Emitter.Emit with kind
// Plain. Nested aggregates are hoisted out into blocks of their own, written
// before the declaration that refers to them.
package pxd

import (
	"github.com/renpy/pxdgen/internal/ast"
)

// Kind selects the Cython keyword of an emitted block.
type Kind int

const (
	// Plain emits `cdef` blocks.
	Plain Kind = iota
	// Typedef emits `ctypedef` blocks.
	Typedef
)

func (k Kind) String() string {
	if k == Typedef {
		return "ctypedef"
	}
	return "cdef"
}

// Emitter produces declarations for one run.
type Emitter struct {
	sink    Sink
	names   *Namer
	omit    map[string]struct{}
	printer ast.Printer

	fallbacks int
	err       error
}

// EmitterOptions configures an Emitter.
type EmitterOptions struct {
	// Omit lists aggregate names whose cdef block is suppressed.
	Omit []string
	// Constants maps array bound text to the literal printed instead.
	Constants map[string]string
}

// NewEmitter returns an Emitter that writes to sink and draws synthetic
// names from names.
func NewEmitter(sink Sink, names *Namer, opts EmitterOptions) *Emitter {
	omit := make(map[string]struct{}, len(opts.Omit))
	for _, name := range opts.Omit {
		omit[name] = struct{}{}
	}
	return &Emitter{
		sink:  sink,
		names: names,
		omit:  omit,
		printer: ast.Printer{
			DropStructKeyword: true,
			EmptyVoidParams:   true,
			Constants:         opts.Constants,
		},
	}
}

// Emit writes the declarations for n and reports whether n was handled.
// name overrides the declared name; pass "" to use the node's own.
//
// Typedef and Decl nodes are always handled, falling back to a single
// printed line when their type has no block form. Other non-aggregate
// nodes are not handled and nothing is written for them.
func (e *Emitter) Emit(n ast.Node, kind Kind, name string) bool {
	switch v := n.(type) {
	case *ast.Typedef:
		if name == "" {
			name = v.Name
		}
		td := *v
		td.Quals, td.Storage = nil, nil
		if !e.Emit(td.Type, Typedef, name) {
			e.fallback(&td, Typedef)
		}
		return true

	case *ast.Decl:
		if name == "" {
			name = v.Name
		}
		d := *v
		d.Storage = nil
		if !e.Emit(d.Type, kind, name) {
			e.fallback(&d, kind)
		}
		return true

	case *ast.TypeDecl:
		if name == "" {
			name = v.DeclName
		}
		return e.Emit(v.Type, kind, name)

	case *ast.Struct:
		e.aggregate(v, "struct", v.Name, v.Decls, kind, name)
		return true

	case *ast.Union:
		e.aggregate(v, "union", v.Name, v.Decls, kind, name)
		return true

	case *ast.Enum:
		e.enum(v, kind, name)
		return true

	case *ast.TranslationUnit, *ast.IdentifierType, *ast.EnumeratorList,
		*ast.Enumerator, *ast.ArrayDecl, *ast.PtrDecl, *ast.FuncDecl,
		*ast.ParamList, *ast.Typename, *ast.EllipsisParam, *ast.FuncDef,
		*ast.Expr:
		return false

	default:
		panic(&ast.UnknownNodeError{Op: "Emit", Node: n})
	}
}

// Fallbacks returns how many declarations were printed as single lines.
func (e *Emitter) Fallbacks() int {
	return e.fallbacks
}

// Err returns the first error returned by the sink.
func (e *Emitter) Err() error {
	return e.err
}

func (e *Emitter) put(d Declaration) {
	if e.err != nil {
		return
	}
	e.err = e.sink.Write(d)
}

func (e *Emitter) aggregate(n ast.Node, keyword, own string, decls []ast.Node, kind Kind, name string) {
	if name == "" {
		name = own
	}
	if name == "" {
		name = e.names.Next(n)
	}
	if kind == Plain {
		if _, ok := e.omit[name]; ok {
			return
		}
	}

	header := kind.String() + " " + keyword + " " + name
	if len(decls) == 0 {
		e.put(Declaration{Header: header})
		return
	}

	d := Declaration{Header: header + ":", Body: make([]string, 0, len(decls))}
	for _, m := range decls {
		d.Body = append(d.Body, e.printer.Print(e.hoist(m)))
	}
	e.put(d)
}

func (e *Emitter) enum(n *ast.Enum, kind Kind, name string) {
	if name == "" {
		name = n.Name
	}

	header := kind.String() + " enum"
	if name != "" {
		header += " " + name
	}
	if n.Values == nil {
		e.put(Declaration{Header: header})
		return
	}

	d := Declaration{Header: header + ":", Body: make([]string, 0, len(n.Values.Enumerators))}
	for _, en := range n.Values.Enumerators {
		d.Body = append(d.Body, en.Name)
	}
	e.put(d)
}

// fallback prints n as one C-like line after hoisting any aggregate bodies
// it contains.
func (e *Emitter) fallback(n ast.Node, kind Kind) {
	e.fallbacks++
	text := e.printer.Print(e.hoist(n))
	if kind == Typedef {
		text = kind.String() + " " + text
	}
	e.put(Declaration{Header: text})
}

// hoist returns n as it should appear at its use site. Every struct or
// union inside n becomes a reference by name; those with members are
// emitted as cdef blocks of their own first, anonymous ones under a
// synthetic name.
func (e *Emitter) hoist(n ast.Node) ast.Node {
	switch v := n.(type) {
	case *ast.Struct:
		return e.hoistAggregate(v, v.Name, v.Decls)
	case *ast.Union:
		return e.hoistAggregate(v, v.Name, v.Decls)
	default:
		return ast.Map(n, e.hoist)
	}
}

func (e *Emitter) hoistAggregate(n ast.Node, name string, decls []ast.Node) ast.Node {
	if name == "" {
		name = e.names.Next(n)
	}
	if len(decls) > 0 {
		e.Emit(n, Plain, name)
	}
	return &ast.IdentifierType{Names: []string{name}}
}
