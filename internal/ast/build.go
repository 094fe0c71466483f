package ast

import (
	"errors"
	"strings"

	"github.com/renpy/pxdgen/internal/parser"
	sitter "github.com/smacker/go-tree-sitter"
)

// Build converts a tree-sitter C parse into a TranslationUnit.
//
// Declarations with several declarators (`int a, *b;`) become one node per
// declarator. Function definitions keep only their declaration. Comments,
// preprocessor directives and ERROR nodes are skipped; the primary branch of
// #if/#ifdef blocks and the body of `extern "C" { ... }` are descended into.
func Build(result *parser.ParseResult) (*TranslationUnit, error) {
	if result == nil || result.Root == nil {
		return nil, errors.New("ast: empty parse result")
	}

	b := &builder{result: result}
	tu := &TranslationUnit{}
	b.externals(result.Root, func(n Node) {
		tu.Ext = append(tu.Ext, n)
	})
	return tu, nil
}

type builder struct {
	result *parser.ParseResult
}

// specifiers is the shared head of a declaration: storage classes,
// qualifiers and the base type.
type specifiers struct {
	storage []string
	quals   []string
	base    Node
	typ     *sitter.Node
}

func (b *builder) text(n *sitter.Node) string {
	return b.result.NodeText(n)
}

func (b *builder) externals(parent *sitter.Node, emit func(Node)) {
	for i := 0; i < int(parent.NamedChildCount()); i++ {
		child := parent.NamedChild(i)
		switch child.Type() {
		case "declaration":
			for _, d := range b.declaration(child) {
				emit(d)
			}
		case "type_definition":
			for _, d := range b.typedef(child) {
				emit(d)
			}
		case "struct_specifier", "union_specifier", "enum_specifier":
			// `struct X {...};` has no declarator, so the grammar leaves
			// the bare specifier at top level.
			emit(&Decl{Type: b.typeSpecifier(child)})
		case "function_definition":
			if d := b.functionDefinition(child); d != nil {
				emit(d)
			}
		case "linkage_specification":
			if body := child.ChildByFieldName("body"); body != nil {
				if body.Type() == "declaration_list" {
					b.externals(body, emit)
				} else {
					b.externals(child, emit)
				}
			}
		case "preproc_if", "preproc_ifdef":
			// The condition and any #else/#elif alternative are not
			// declaration nodes, so only the primary branch is collected.
			b.externals(child, emit)
		}
	}
}

func (b *builder) specifiers(n *sitter.Node) specifiers {
	var spec specifiers
	spec.typ = n.ChildByFieldName("type")
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "storage_class_specifier":
			spec.storage = append(spec.storage, b.text(child))
		case "type_qualifier":
			spec.quals = append(spec.quals, b.text(child))
		}
	}
	spec.base = b.typeSpecifier(spec.typ)
	return spec
}

func (b *builder) typeSpecifier(t *sitter.Node) Node {
	if t == nil {
		// implicit int
		return &IdentifierType{Names: []string{"int"}}
	}
	switch t.Type() {
	case "primitive_type", "type_identifier":
		return &IdentifierType{Names: []string{b.text(t)}}
	case "struct_specifier":
		name, decls := b.aggregate(t)
		return &Struct{Name: name, Decls: decls}
	case "union_specifier":
		name, decls := b.aggregate(t)
		return &Union{Name: name, Decls: decls}
	case "enum_specifier":
		return b.enum(t)
	default:
		// sized_type_specifier, macro_type_specifier and anything newer
		return &IdentifierType{Names: strings.Fields(b.text(t))}
	}
}

func (b *builder) aggregate(t *sitter.Node) (string, []Node) {
	name := ""
	if n := t.ChildByFieldName("name"); n != nil {
		name = b.text(n)
	}
	body := t.ChildByFieldName("body")
	if body == nil {
		return name, nil
	}
	decls := []Node{}
	b.fields(body, &decls)
	return name, decls
}

func (b *builder) fields(body *sitter.Node, decls *[]Node) {
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		switch child.Type() {
		case "field_declaration":
			*decls = append(*decls, b.fieldDeclaration(child)...)
		case "preproc_if", "preproc_ifdef":
			b.fields(child, decls)
		}
	}
}

func (b *builder) fieldDeclaration(n *sitter.Node) []Node {
	spec := b.specifiers(n)
	declarators := b.declarators(n, spec.typ)

	var bits Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c.Type() == "bitfield_clause" && c.NamedChildCount() > 0 {
			bits = b.expr(c.NamedChild(0))
		}
	}

	if len(declarators) == 0 {
		return []Node{&Decl{Quals: spec.quals, Storage: spec.storage, Type: spec.base, Bitsize: bits}}
	}

	out := make([]Node, 0, len(declarators))
	for i, d := range declarators {
		name, typ, init := b.declare(spec, d)
		decl := &Decl{Name: name, Quals: clone(spec.quals), Storage: clone(spec.storage), Type: typ, Init: init}
		if i == len(declarators)-1 {
			decl.Bitsize = bits
		}
		out = append(out, decl)
	}
	return out
}

func (b *builder) enum(t *sitter.Node) *Enum {
	e := &Enum{}
	if n := t.ChildByFieldName("name"); n != nil {
		e.Name = b.text(n)
	}
	body := t.ChildByFieldName("body")
	if body == nil {
		return e
	}
	e.Values = &EnumeratorList{}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		if child.Type() != "enumerator" {
			continue
		}
		en := &Enumerator{Name: b.text(child.ChildByFieldName("name"))}
		en.Value = b.expr(child.ChildByFieldName("value"))
		e.Values.Enumerators = append(e.Values.Enumerators, en)
	}
	return e
}

func (b *builder) declaration(n *sitter.Node) []Node {
	spec := b.specifiers(n)
	declarators := b.declarators(n, spec.typ)
	if len(declarators) == 0 {
		return []Node{&Decl{Quals: spec.quals, Storage: spec.storage, Type: spec.base}}
	}

	out := make([]Node, 0, len(declarators))
	for _, d := range declarators {
		name, typ, init := b.declare(spec, d)
		out = append(out, &Decl{Name: name, Quals: clone(spec.quals), Storage: clone(spec.storage), Type: typ, Init: init})
	}
	return out
}

func (b *builder) typedef(n *sitter.Node) []Node {
	spec := b.specifiers(n)
	var out []Node
	for _, d := range b.typeDeclarators(n) {
		name, typ, _ := b.declare(spec, d)
		out = append(out, &Typedef{Name: name, Quals: clone(spec.quals), Storage: []string{"typedef"}, Type: typ})
	}
	return out
}

func (b *builder) functionDefinition(n *sitter.Node) Node {
	spec := b.specifiers(n)
	d := n.ChildByFieldName("declarator")
	if d == nil {
		return nil
	}
	name, typ, _ := b.declare(spec, d)
	return &FuncDef{Decl: &Decl{Name: name, Quals: spec.quals, Storage: spec.storage, Type: typ}}
}

func (b *builder) params(list *sitter.Node) *ParamList {
	if list == nil {
		return nil
	}
	var params []Node
	for i := 0; i < int(list.NamedChildCount()); i++ {
		child := list.NamedChild(i)
		switch child.Type() {
		case "parameter_declaration":
			spec := b.specifiers(child)
			d := child.ChildByFieldName("declarator")
			name, typ, _ := b.declare(spec, d)
			if name == "" {
				params = append(params, &Typename{Quals: clone(spec.quals), Type: typ})
			} else {
				params = append(params, &Decl{Name: name, Quals: clone(spec.quals), Storage: spec.storage, Type: typ})
			}
		case "variadic_parameter":
			params = append(params, &EllipsisParam{})
		}
	}
	if params == nil {
		return nil
	}
	return &ParamList{Params: params}
}

// declarators returns the declarator children of a declaration-like node,
// skipping the node that serves as its type.
func (b *builder) declarators(n, typ *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if !isDeclarator(child.Type()) || sameNode(child, typ) {
			continue
		}
		out = append(out, child)
	}
	return out
}

// typeDeclarators returns the declarator fields of a type_definition. The
// grammar knows names like size_t and int32_t as primitive types, so such a
// name arrives as a primitive_type node rather than a type_identifier.
func (b *builder) typeDeclarators(n *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.FieldNameForChild(i) == "declarator" {
			out = append(out, n.Child(i))
		}
	}
	return out
}

// declare resolves a declarator chain against the specifiers. Modifiers are
// applied outermost first, so the TypeDecl ends up innermost.
func (b *builder) declare(spec specifiers, d *sitter.Node) (string, Node, Node) {
	var (
		name string
		init Node
		mods []func(Node) Node
	)

	for d != nil {
		switch d.Type() {
		case "identifier", "field_identifier", "type_identifier", "primitive_type":
			name = b.text(d)
			d = nil

		case "init_declarator":
			init = b.expr(d.ChildByFieldName("value"))
			d = d.ChildByFieldName("declarator")

		case "pointer_declarator", "abstract_pointer_declarator":
			quals := b.qualifiers(d)
			mods = append(mods, func(t Node) Node {
				return &PtrDecl{Quals: quals, Type: t}
			})
			d = d.ChildByFieldName("declarator")

		case "array_declarator", "abstract_array_declarator":
			dim := b.expr(d.ChildByFieldName("size"))
			quals := b.qualifiers(d)
			mods = append(mods, func(t Node) Node {
				return &ArrayDecl{Type: t, Dim: dim, DimQuals: quals}
			})
			d = d.ChildByFieldName("declarator")

		case "function_declarator", "abstract_function_declarator":
			args := b.params(d.ChildByFieldName("parameters"))
			mods = append(mods, func(t Node) Node {
				return &FuncDecl{Args: args, Type: t}
			})
			d = d.ChildByFieldName("declarator")

		case "parenthesized_declarator", "abstract_parenthesized_declarator", "attributed_declarator":
			d = firstDeclarator(d)

		default:
			d = nil
		}
	}

	var typ Node = &TypeDecl{DeclName: name, Quals: clone(spec.quals), Type: spec.base}
	for _, m := range mods {
		typ = m(typ)
	}
	return name, typ, init
}

func (b *builder) qualifiers(n *sitter.Node) []string {
	var quals []string
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c.Type() == "type_qualifier" {
			quals = append(quals, b.text(c))
		}
	}
	return quals
}

func (b *builder) expr(n *sitter.Node) Node {
	if n == nil {
		return nil
	}
	return &Expr{Text: strings.Join(strings.Fields(b.text(n)), " ")}
}

func firstDeclarator(n *sitter.Node) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); isDeclarator(c.Type()) {
			return c
		}
	}
	return nil
}

func isDeclarator(t string) bool {
	switch t {
	case "identifier", "field_identifier", "type_identifier",
		"init_declarator", "pointer_declarator", "array_declarator",
		"function_declarator", "parenthesized_declarator", "attributed_declarator",
		"abstract_pointer_declarator", "abstract_array_declarator",
		"abstract_function_declarator", "abstract_parenthesized_declarator":
		return true
	}
	return false
}

func sameNode(a, b *sitter.Node) bool {
	if a == nil || b == nil {
		return false
	}
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}

func clone(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}
