package ast

import "strings"

// Printer renders nodes back to C-like declaration text on a single line.
//
// The zero value prints plain C. The options bridge the few spots where the
// declaration language differs from C; they are applied structurally while
// printing, never by rewriting the printed text.
type Printer struct {
	// DropStructKeyword prints a struct reference `struct X` as `X`.
	DropStructKeyword bool

	// EmptyVoidParams prints the parameter list `(void)` as `()`.
	EmptyVoidParams bool

	// Constants maps array bounds, by their exact source text, to the
	// literal printed in their place.
	Constants map[string]string
}

// Print renders n.
func (p *Printer) Print(n Node) string {
	return strings.TrimRight(p.visit(n), " ")
}

func (p *Printer) visit(n Node) string {
	switch n := n.(type) {
	case *TranslationUnit:
		parts := make([]string, 0, len(n.Ext))
		for _, c := range n.Ext {
			parts = append(parts, p.Print(c)+";")
		}
		return strings.Join(parts, " ")

	case *Decl:
		s := p.declType(n.Storage, n.Type)
		if n.Bitsize != nil {
			s += " : " + p.visit(n.Bitsize)
		}
		if n.Init != nil {
			s += " = " + p.visit(n.Init)
		}
		return s

	case *Typedef:
		return p.declType(n.Storage, n.Type)

	case *TypeDecl, *PtrDecl, *ArrayDecl, *FuncDecl:
		return p.typ(n, nil)

	case *Typename:
		return p.typ(n.Type, nil)

	case *IdentifierType:
		return strings.Join(n.Names, " ")

	case *Struct:
		return p.aggregate("struct", n.Name, n.Decls)

	case *Union:
		return p.aggregate("union", n.Name, n.Decls)

	case *Enum:
		s := "enum"
		if n.Name != "" {
			s += " " + n.Name
		}
		if n.Values != nil {
			s += " { " + p.visit(n.Values) + " }"
		}
		return s

	case *EnumeratorList:
		parts := make([]string, 0, len(n.Enumerators))
		for _, e := range n.Enumerators {
			parts = append(parts, p.visit(e))
		}
		return strings.Join(parts, ", ")

	case *Enumerator:
		if n.Value != nil {
			return n.Name + " = " + p.visit(n.Value)
		}
		return n.Name

	case *ParamList:
		if p.EmptyVoidParams && isVoidParams(n) {
			return ""
		}
		parts := make([]string, 0, len(n.Params))
		for _, c := range n.Params {
			parts = append(parts, p.Print(c))
		}
		return strings.Join(parts, ", ")

	case *EllipsisParam:
		return "..."

	case *FuncDef:
		if n.Decl == nil {
			return ""
		}
		return p.visit(n.Decl)

	case *Expr:
		return n.Text

	default:
		unknown("Print", n)
		return ""
	}
}

func (p *Printer) declType(storage []string, typ Node) string {
	s := ""
	if len(storage) > 0 {
		s = strings.Join(storage, " ") + " "
	}
	return s + p.typ(typ, nil)
}

func (p *Printer) aggregate(keyword, name string, decls []Node) string {
	var s string
	switch {
	case decls == nil && name != "" && keyword == "struct" && p.DropStructKeyword:
		s = name
	case name != "":
		s = keyword + " " + name
	default:
		s = keyword
	}
	if decls != nil {
		var b strings.Builder
		b.WriteString(" {")
		for _, d := range decls {
			b.WriteString(" ")
			b.WriteString(p.Print(d))
			b.WriteString(";")
		}
		b.WriteString(" }")
		s += b.String()
	}
	return s
}

// typ prints a type with its declarator. mods holds the modifiers seen so
// far, outermost first; they are applied around the declared name once the
// innermost TypeDecl is reached.
func (p *Printer) typ(n Node, mods []Node) string {
	switch n := n.(type) {
	case *TypeDecl:
		s := ""
		if len(n.Quals) > 0 {
			s = strings.Join(n.Quals, " ") + " "
		}
		s += p.visit(n.Type)

		decl := n.DeclName
		for i, m := range mods {
			_, afterPtr := prev(mods, i).(*PtrDecl)
			switch m := m.(type) {
			case *ArrayDecl:
				if afterPtr {
					decl = "(" + decl + ")"
				}
				decl += "[" + p.dim(m) + "]"
			case *FuncDecl:
				if afterPtr {
					decl = "(" + decl + ")"
				}
				args := ""
				if m.Args != nil {
					args = p.visit(m.Args)
				}
				decl += "(" + args + ")"
			case *PtrDecl:
				if len(m.Quals) > 0 {
					q := strings.Join(m.Quals, " ")
					if decl != "" {
						decl = "* " + q + " " + decl
					} else {
						decl = "* " + q
					}
				} else {
					decl = "*" + decl
				}
			}
		}
		if decl != "" {
			s += " " + decl
		}
		return s

	case *PtrDecl:
		return p.typ(n.Type, append(mods, n))
	case *ArrayDecl:
		return p.typ(n.Type, append(mods, n))
	case *FuncDecl:
		return p.typ(n.Type, append(mods, n))
	case *Typename:
		return p.typ(n.Type, mods)
	case *Decl:
		return p.declType(n.Storage, n.Type)
	case nil:
		return ""
	default:
		return p.visit(n)
	}
}

func (p *Printer) dim(a *ArrayDecl) string {
	s := ""
	if len(a.DimQuals) > 0 {
		s = strings.Join(a.DimQuals, " ") + " "
	}
	if a.Dim == nil {
		return strings.TrimRight(s, " ")
	}
	text := p.visit(a.Dim)
	if lit, ok := p.Constants[text]; ok {
		text = lit
	}
	return s + text
}

func prev(mods []Node, i int) Node {
	if i == 0 {
		return nil
	}
	return mods[i-1]
}

// isVoidParams reports whether l is the single unnamed, unqualified `void`.
func isVoidParams(l *ParamList) bool {
	if len(l.Params) != 1 {
		return false
	}
	tn, ok := l.Params[0].(*Typename)
	if !ok || len(tn.Quals) > 0 {
		return false
	}
	td, ok := tn.Type.(*TypeDecl)
	if !ok || td.DeclName != "" || len(td.Quals) > 0 {
		return false
	}
	it, ok := td.Type.(*IdentifierType)
	return ok && len(it.Names) == 1 && it.Names[0] == "void"
}
