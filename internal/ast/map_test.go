package ast

import "testing"

func sampleStruct() *Struct {
	return &Struct{
		Name: "SDL_Rect",
		Decls: []Node{
			&Decl{Name: "x", Type: &TypeDecl{DeclName: "x", Type: &IdentifierType{Names: []string{"int"}}}},
			&Decl{Name: "y", Type: &TypeDecl{DeclName: "y", Type: &IdentifierType{Names: []string{"int"}}}},
		},
	}
}

func TestMap_Identity(t *testing.T) {
	nodes := []Node{
		sampleStruct(),
		&TranslationUnit{Ext: []Node{sampleStruct()}},
		&FuncDecl{
			Args: &ParamList{Params: []Node{&EllipsisParam{}}},
			Type: &TypeDecl{Type: &IdentifierType{Names: []string{"void"}}},
		},
		&Enum{Name: "E", Values: &EnumeratorList{Enumerators: []*Enumerator{{Name: "A"}}}},
		&ArrayDecl{Type: &TypeDecl{DeclName: "a"}, Dim: &Expr{Text: "4"}},
		&FuncDef{Decl: &Decl{Name: "f"}},
		&Expr{Text: "1"},
	}

	for _, n := range nodes {
		got := Map(n, func(c Node) Node { return c })
		if got != n {
			t.Errorf("Map(%T) with identity returned a different node", n)
		}
	}
}

func TestMap_RebindsChangedSlot(t *testing.T) {
	orig := sampleStruct()
	replacement := &Decl{Name: "z"}

	got := Map(orig, func(c Node) Node {
		if d, ok := c.(*Decl); ok && d.Name == "y" {
			return replacement
		}
		return c
	})

	s, ok := got.(*Struct)
	if !ok {
		t.Fatalf("expected *Struct, got %T", got)
	}
	if s == orig {
		t.Fatal("expected a copy when a child changed")
	}
	if s.Decls[1] != replacement {
		t.Errorf("slot 1 not rebound: %#v", s.Decls[1])
	}
	if s.Decls[0] != orig.Decls[0] {
		t.Error("unchanged slot 0 should be shared")
	}
	if d := orig.Decls[1].(*Decl); d.Name != "y" {
		t.Errorf("original was mutated: slot 1 is %q", d.Name)
	}
}

func TestMap_ParamListSlot(t *testing.T) {
	param := &Decl{Name: "p", Type: &TypeDecl{DeclName: "p", Type: &Union{}}}
	fn := &FuncDecl{
		Args: &ParamList{Params: []Node{&EllipsisParam{}, param}},
		Type: &TypeDecl{Type: &IdentifierType{Names: []string{"void"}}},
	}
	ref := &IdentifierType{Names: []string{"anon_union_1"}}

	var rewrite func(Node) Node
	rewrite = func(n Node) Node {
		if _, ok := n.(*Union); ok {
			return ref
		}
		return Map(n, rewrite)
	}

	got := rewrite(fn).(*FuncDecl)
	if got == fn || got.Args == fn.Args {
		t.Fatal("expected the function and its parameter list to be copied")
	}
	td := got.Args.Params[1].(*Decl).Type.(*TypeDecl)
	if td.Type != ref {
		t.Errorf("parameter type = %#v, want the replacement", td.Type)
	}
	if _, ok := fn.Args.Params[1].(*Decl).Type.(*TypeDecl).Type.(*Union); !ok {
		t.Error("original parameter was mutated")
	}
}

func TestMap_UnknownNodePanics(t *testing.T) {
	defer func() {
		r := recover()
		if _, ok := r.(*UnknownNodeError); !ok {
			t.Errorf("expected *UnknownNodeError panic, got %v", r)
		}
	}()
	Map(nil, func(c Node) Node { return c })
}

func TestName(t *testing.T) {
	tests := []struct {
		node Node
		want string
		ok   bool
	}{
		{&Decl{Name: "SDL_Init"}, "SDL_Init", true},
		{&Typedef{Name: "Uint8"}, "Uint8", true},
		{&Struct{Name: "SDL_Rect"}, "SDL_Rect", true},
		{&Struct{}, "", false},
		{&Enumerator{Name: "SDL_TRUE"}, "SDL_TRUE", true},
		{&TypeDecl{DeclName: "x"}, "", false},
		{&IdentifierType{Names: []string{"SDL_bool"}}, "", false},
	}

	for _, tt := range tests {
		got, ok := Name(tt.node)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Name(%T) = (%q, %v), want (%q, %v)", tt.node, got, ok, tt.want, tt.ok)
		}
	}
}

func TestWalk(t *testing.T) {
	tu := &TranslationUnit{Ext: []Node{sampleStruct(), &Decl{Name: "last"}}}

	var names []string
	Walk(tu, func(n Node) bool {
		if name, ok := Name(n); ok {
			names = append(names, name)
		}
		return true
	})
	want := []string{"SDL_Rect", "x", "y", "last"}
	if len(names) != len(want) {
		t.Fatalf("visited %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("visit %d = %q, want %q", i, names[i], want[i])
		}
	}

	var count int
	completed := Walk(tu, func(n Node) bool {
		count++
		return count < 3
	})
	if completed || count != 3 {
		t.Errorf("expected walk to stop after 3 nodes, got %d (completed=%v)", count, completed)
	}
}
