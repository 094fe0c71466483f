package ast

// Map applies f to every direct child of n and returns the result.
//
// When f returns each child unchanged (pointer-identical) Map returns n
// itself. Otherwise it returns a shallow copy of n with the replaced slots
// rebound; slices are copied before a slot is rewritten, so n and its
// children are never mutated and unchanged subtrees stay shared.
//
// Slots typed more narrowly than Node (an enumerator list, a parameter list,
// the declaration of a function definition) keep their original value when
// f returns a node of a different type.
func Map(n Node, f func(Node) Node) Node {
	switch n := n.(type) {
	case *TranslationUnit:
		ext, changed := mapSlice(n.Ext, f)
		if !changed {
			return n
		}
		c := *n
		c.Ext = ext
		return &c

	case *Decl:
		typ, c1 := mapOne(n.Type, f)
		init, c2 := mapOne(n.Init, f)
		bits, c3 := mapOne(n.Bitsize, f)
		if !c1 && !c2 && !c3 {
			return n
		}
		c := *n
		c.Type, c.Init, c.Bitsize = typ, init, bits
		return &c

	case *Typedef:
		typ, changed := mapOne(n.Type, f)
		if !changed {
			return n
		}
		c := *n
		c.Type = typ
		return &c

	case *TypeDecl:
		typ, changed := mapOne(n.Type, f)
		if !changed {
			return n
		}
		c := *n
		c.Type = typ
		return &c

	case *Struct:
		decls, changed := mapSlice(n.Decls, f)
		if !changed {
			return n
		}
		c := *n
		c.Decls = decls
		return &c

	case *Union:
		decls, changed := mapSlice(n.Decls, f)
		if !changed {
			return n
		}
		c := *n
		c.Decls = decls
		return &c

	case *Enum:
		if n.Values == nil {
			return n
		}
		values, ok := f(n.Values).(*EnumeratorList)
		if !ok || values == n.Values {
			return n
		}
		c := *n
		c.Values = values
		return &c

	case *EnumeratorList:
		var out []*Enumerator
		for i, e := range n.Enumerators {
			r, ok := f(e).(*Enumerator)
			if !ok || r == e {
				continue
			}
			if out == nil {
				out = append([]*Enumerator(nil), n.Enumerators...)
			}
			out[i] = r
		}
		if out == nil {
			return n
		}
		return &EnumeratorList{Enumerators: out}

	case *Enumerator:
		value, changed := mapOne(n.Value, f)
		if !changed {
			return n
		}
		c := *n
		c.Value = value
		return &c

	case *ArrayDecl:
		typ, c1 := mapOne(n.Type, f)
		dim, c2 := mapOne(n.Dim, f)
		if !c1 && !c2 {
			return n
		}
		c := *n
		c.Type, c.Dim = typ, dim
		return &c

	case *PtrDecl:
		typ, changed := mapOne(n.Type, f)
		if !changed {
			return n
		}
		c := *n
		c.Type = typ
		return &c

	case *FuncDecl:
		args := n.Args
		if args != nil {
			if r, ok := f(args).(*ParamList); ok {
				args = r
			}
		}
		typ, changed := mapOne(n.Type, f)
		if !changed && args == n.Args {
			return n
		}
		c := *n
		c.Args, c.Type = args, typ
		return &c

	case *ParamList:
		params, changed := mapSlice(n.Params, f)
		if !changed {
			return n
		}
		return &ParamList{Params: params}

	case *Typename:
		typ, changed := mapOne(n.Type, f)
		if !changed {
			return n
		}
		c := *n
		c.Type = typ
		return &c

	case *FuncDef:
		if n.Decl == nil {
			return n
		}
		d, ok := f(n.Decl).(*Decl)
		if !ok || d == n.Decl {
			return n
		}
		return &FuncDef{Decl: d}

	case *IdentifierType, *EllipsisParam, *Expr:
		return n

	default:
		unknown("Map", n)
		return n
	}
}

func mapOne(c Node, f func(Node) Node) (Node, bool) {
	if c == nil {
		return nil, false
	}
	r := f(c)
	return r, r != c
}

func mapSlice(s []Node, f func(Node) Node) ([]Node, bool) {
	var out []Node
	for i, c := range s {
		r := f(c)
		if r == c {
			continue
		}
		if out == nil {
			out = append(make([]Node, 0, len(s)), s...)
		}
		out[i] = r
	}
	if out == nil {
		return s, false
	}
	return out, true
}
