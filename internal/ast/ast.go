// Package ast defines the C syntax tree consumed by the pxd generator.
//
// The node set is closed: every variant is a pointer type declared in this
// file, and every function that dispatches on a Node handles each variant
// explicitly. A default branch reaching an unknown type is a programming
// error and panics.
//
// The shapes follow the classic declarator layout: the TypeDecl carrying the
// declared name sits innermost, wrapped by PtrDecl, ArrayDecl and FuncDecl
// modifiers in the order they bind. For example `char *names[4]` is
//
//	ArrayDecl{Type: PtrDecl{Type: TypeDecl{DeclName: "names", Type: IdentifierType{char}}}}
package ast

import "fmt"

// Node is a node of the C syntax tree.
type Node interface {
	node()
}

// TranslationUnit is the root of a parsed file.
type TranslationUnit struct {
	Ext []Node
}

// Decl declares a variable, function, struct member or parameter. Name is
// empty for declarations that only introduce a tag (`struct X {...};`).
type Decl struct {
	Name    string
	Quals   []string
	Storage []string
	Type    Node
	Init    Node // *Expr or nil
	Bitsize Node // *Expr or nil
}

// Typedef declares a type alias. Storage normally holds "typedef".
type Typedef struct {
	Name    string
	Quals   []string
	Storage []string
	Type    Node
}

// TypeDecl is the innermost declarator: it binds DeclName to a base type.
type TypeDecl struct {
	DeclName string
	Quals    []string
	Type     Node // *IdentifierType, *Struct, *Union or *Enum
}

// IdentifierType is a base type spelled with one or more names,
// e.g. ["unsigned", "int"] or ["SDL_Rect"].
type IdentifierType struct {
	Names []string
}

// Struct is a struct specifier. Decls is nil for a reference or forward
// declaration and non-nil when a body was written.
type Struct struct {
	Name  string
	Decls []Node
}

// Union is a union specifier. Decls follows the same convention as Struct.
type Union struct {
	Name  string
	Decls []Node
}

// Enum is an enum specifier. Values is nil when no body was written.
type Enum struct {
	Name   string
	Values *EnumeratorList
}

// EnumeratorList holds the enumerators of an enum body in source order.
type EnumeratorList struct {
	Enumerators []*Enumerator
}

// Enumerator is one enum constant.
type Enumerator struct {
	Name  string
	Value Node // *Expr or nil
}

// ArrayDecl is an array modifier. Dim is nil for `[]`.
type ArrayDecl struct {
	Type     Node
	Dim      Node
	DimQuals []string
}

// PtrDecl is a pointer modifier.
type PtrDecl struct {
	Quals []string
	Type  Node
}

// FuncDecl is a function modifier. Args is nil for `()` in K&R style.
type FuncDecl struct {
	Args *ParamList
	Type Node
}

// ParamList is a function parameter list.
type ParamList struct {
	Params []Node // *Decl, *Typename or *EllipsisParam
}

// Typename is an unnamed type, as in an abstract parameter `const char *`.
type Typename struct {
	Quals []string
	Type  Node
}

// EllipsisParam is the `...` of a variadic parameter list.
type EllipsisParam struct{}

// FuncDef is a function definition. Only its declaration is kept; bodies
// never contribute to a declaration listing.
type FuncDef struct {
	Decl *Decl
}

// Expr is an expression kept as verbatim source text.
type Expr struct {
	Text string
}

func (*TranslationUnit) node() {}
func (*Decl) node()            {}
func (*Typedef) node()         {}
func (*TypeDecl) node()        {}
func (*IdentifierType) node()  {}
func (*Struct) node()          {}
func (*Union) node()           {}
func (*Enum) node()            {}
func (*EnumeratorList) node()  {}
func (*Enumerator) node()      {}
func (*ArrayDecl) node()       {}
func (*PtrDecl) node()         {}
func (*FuncDecl) node()        {}
func (*ParamList) node()       {}
func (*Typename) node()        {}
func (*EllipsisParam) node()   {}
func (*FuncDef) node()         {}
func (*Expr) node()            {}

// UnknownNodeError is the panic value used when a dispatch site meets a
// Node implementation it does not know.
type UnknownNodeError struct {
	Op   string
	Node Node
}

// Error implements the error interface.
func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("ast: %s: unhandled node type %T", e.Op, e.Node)
}

func unknown(op string, n Node) {
	panic(&UnknownNodeError{Op: op, Node: n})
}

// Name returns the identifier carried by n. Only nodes with a name of their
// own report one; TypeDecl and IdentifierType are considered unnamed so that
// lookups descend into what they wrap.
func Name(n Node) (string, bool) {
	var name string
	switch n := n.(type) {
	case *Decl:
		name = n.Name
	case *Typedef:
		name = n.Name
	case *Struct:
		name = n.Name
	case *Union:
		name = n.Name
	case *Enum:
		name = n.Name
	case *Enumerator:
		name = n.Name
	}
	return name, name != ""
}

// Children returns the non-nil direct children of n in source order.
func Children(n Node) []Node {
	var out []Node
	add := func(c Node) {
		if c != nil {
			out = append(out, c)
		}
	}

	switch n := n.(type) {
	case *TranslationUnit:
		for _, c := range n.Ext {
			add(c)
		}
	case *Decl:
		add(n.Type)
		add(n.Init)
		add(n.Bitsize)
	case *Typedef:
		add(n.Type)
	case *TypeDecl:
		add(n.Type)
	case *Struct:
		for _, c := range n.Decls {
			add(c)
		}
	case *Union:
		for _, c := range n.Decls {
			add(c)
		}
	case *Enum:
		if n.Values != nil {
			add(n.Values)
		}
	case *EnumeratorList:
		for _, c := range n.Enumerators {
			add(c)
		}
	case *Enumerator:
		add(n.Value)
	case *ArrayDecl:
		add(n.Type)
		add(n.Dim)
	case *PtrDecl:
		add(n.Type)
	case *FuncDecl:
		if n.Args != nil {
			add(n.Args)
		}
		add(n.Type)
	case *ParamList:
		for _, c := range n.Params {
			add(c)
		}
	case *Typename:
		add(n.Type)
	case *FuncDef:
		if n.Decl != nil {
			add(n.Decl)
		}
	case *IdentifierType, *EllipsisParam, *Expr:
	default:
		unknown("Children", n)
	}
	return out
}

// Walk visits n and its descendants depth-first in source order. Returning
// false from visit stops the walk; Walk reports whether it ran to completion.
func Walk(n Node, visit func(Node) bool) bool {
	if !visit(n) {
		return false
	}
	for _, c := range Children(n) {
		if !Walk(c, visit) {
			return false
		}
	}
	return true
}
