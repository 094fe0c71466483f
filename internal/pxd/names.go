package pxd

import (
	"fmt"

	"github.com/renpy/pxdgen/internal/ast"
)

// InternalError reports a node reaching a step that has no case for it.
// It is raised as a panic and recovered by Driver.Run.
type InternalError struct {
	Op   string
	Node ast.Node
}

// Error implements the error interface.
func (e *InternalError) Error() string {
	return fmt.Sprintf("pxd: %s: unexpected node %T", e.Op, e.Node)
}

// Namer hands out synthetic names for anonymous aggregates. One Namer
// serves a whole run so that no name is produced twice.
type Namer struct {
	serial int
}

// Next returns a fresh name for the struct or union n, of the form
// <name>_<kind>_<serial> where name is "anon" when n has none.
func (nm *Namer) Next(n ast.Node) string {
	var kind, base string
	switch n := n.(type) {
	case *ast.Struct:
		kind, base = "struct", n.Name
	case *ast.Union:
		kind, base = "union", n.Name
	default:
		panic(&InternalError{Op: "synthetic name", Node: n})
	}
	if base == "" {
		base = "anon"
	}
	nm.serial++
	return fmt.Sprintf("%s_%s_%d", base, kind, nm.serial)
}

// Count returns how many names have been handed out.
func (nm *Namer) Count() int {
	return nm.serial
}
