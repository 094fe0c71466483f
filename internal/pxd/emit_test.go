package pxd

import (
	"reflect"
	"testing"

	"github.com/renpy/pxdgen/internal/ast"
	"github.com/renpy/pxdgen/internal/config"
)

// collector records declarations in emission order.
type collector struct {
	decls []Declaration
}

func (c *collector) Write(d Declaration) error {
	c.decls = append(c.decls, d)
	return nil
}

func newTestEmitter() (*Emitter, *collector, *Namer) {
	cfg := config.DefaultConfig()
	c := &collector{}
	names := &Namer{}
	e := NewEmitter(c, names, EmitterOptions{Omit: cfg.Emit.Omit, Constants: cfg.Emit.Constants})
	return e, c, names
}

func ident(names ...string) *ast.IdentifierType {
	return &ast.IdentifierType{Names: names}
}

func field(name string, typ ast.Node) *ast.Decl {
	return &ast.Decl{Name: name, Type: &ast.TypeDecl{DeclName: name, Type: typ}}
}

func voidParams() *ast.ParamList {
	return &ast.ParamList{Params: []ast.Node{&ast.Typename{Type: &ast.TypeDecl{Type: ident("void")}}}}
}

func TestEmit_Scenarios(t *testing.T) {
	tests := []struct {
		name string
		node ast.Node
		want []Declaration
	}{
		{
			name: "anonymous union field",
			node: &ast.Decl{Type: &ast.Struct{Name: "SDL_Foo", Decls: []ast.Node{
				field("kind", ident("Uint8")),
				field("value", &ast.Union{Decls: []ast.Node{
					field("a", ident("int")),
					field("b", ident("float")),
				}}),
			}}},
			want: []Declaration{
				{Header: "cdef union anon_union_1:", Body: []string{"int a", "float b"}},
				{Header: "cdef struct SDL_Foo:", Body: []string{"Uint8 kind", "anon_union_1 value"}},
			},
		},
		{
			name: "omitted struct before its typedef",
			node: &ast.Decl{Type: &ast.Struct{Name: "SDL_mutex"}},
			want: nil,
		},
		{
			name: "typedef of omitted struct",
			node: &ast.Typedef{Name: "SDL_mutex", Type: &ast.TypeDecl{DeclName: "SDL_mutex", Type: &ast.Struct{Name: "SDL_mutex"}}},
			want: []Declaration{{Header: "ctypedef struct SDL_mutex"}},
		},
		{
			name: "typedef with body ignores the omit set",
			node: &ast.Typedef{Name: "SDL_Thread", Type: &ast.TypeDecl{DeclName: "SDL_Thread", Type: &ast.Struct{
				Name:  "SDL_Thread",
				Decls: []ast.Node{field("id", ident("int"))},
			}}},
			want: []Declaration{{Header: "ctypedef struct SDL_Thread:", Body: []string{"int id"}}},
		},
		{
			name: "forward struct",
			node: &ast.Decl{Type: &ast.Struct{Name: "SDL_Window"}},
			want: []Declaration{{Header: "cdef struct SDL_Window"}},
		},
		{
			name: "typedef names an anonymous struct",
			node: &ast.Typedef{Name: "SDL_Point", Type: &ast.TypeDecl{DeclName: "SDL_Point", Type: &ast.Struct{Decls: []ast.Node{
				field("x", ident("int")),
				field("y", ident("int")),
			}}}},
			want: []Declaration{{Header: "ctypedef struct SDL_Point:", Body: []string{"int x", "int y"}}},
		},
		{
			name: "function with void parameter list",
			node: &ast.Decl{Name: "SDL_Quit", Type: &ast.FuncDecl{Args: voidParams(), Type: &ast.TypeDecl{DeclName: "SDL_Quit", Type: ident("void")}}},
			want: []Declaration{{Header: "void SDL_Quit()"}},
		},
		{
			name: "scalar typedef",
			node: &ast.Typedef{Name: "Uint8", Type: &ast.TypeDecl{DeclName: "Uint8", Type: ident("uint8_t")}},
			want: []Declaration{{Header: "ctypedef uint8_t Uint8"}},
		},
		{
			name: "pointer typedef hoists the struct body",
			node: &ast.Typedef{Name: "SDL_BlitP", Type: &ast.PtrDecl{Type: &ast.TypeDecl{DeclName: "SDL_BlitP", Type: &ast.Struct{
				Name:  "SDL_Blit",
				Decls: []ast.Node{field("flags", ident("Uint32"))},
			}}}},
			want: []Declaration{
				{Header: "cdef struct SDL_Blit:", Body: []string{"Uint32 flags"}},
				{Header: "ctypedef SDL_Blit *SDL_BlitP"},
			},
		},
		{
			name: "struct reference in parameters",
			node: &ast.Decl{Name: "SDL_HasIntersection", Type: &ast.FuncDecl{
				Args: &ast.ParamList{Params: []ast.Node{
					&ast.Decl{Name: "A", Type: &ast.PtrDecl{Type: &ast.TypeDecl{DeclName: "A", Type: &ast.Struct{Name: "SDL_Rect"}}}},
					&ast.Decl{Name: "B", Type: &ast.PtrDecl{Type: &ast.TypeDecl{DeclName: "B", Type: ident("SDL_Rect")}}},
				}},
				Type: &ast.TypeDecl{DeclName: "SDL_HasIntersection", Type: ident("SDL_bool")},
			}},
			want: []Declaration{{Header: "SDL_bool SDL_HasIntersection(SDL_Rect *A, SDL_Rect *B)"}},
		},
		{
			name: "array bound constant",
			node: &ast.Decl{Type: &ast.Struct{Name: "SDL_MessageBoxColorScheme", Decls: []ast.Node{
				&ast.Decl{Name: "colors", Type: &ast.ArrayDecl{
					Dim:  &ast.Expr{Text: "SDL_MESSAGEBOX_COLOR_MAX"},
					Type: &ast.TypeDecl{DeclName: "colors", Type: ident("SDL_MessageBoxColor")},
				}},
			}}},
			want: []Declaration{{Header: "cdef struct SDL_MessageBoxColorScheme:", Body: []string{"SDL_MessageBoxColor colors[5]"}}},
		},
		{
			name: "typedef enum",
			node: &ast.Typedef{Name: "SDL_bool", Type: &ast.TypeDecl{DeclName: "SDL_bool", Type: &ast.Enum{Values: &ast.EnumeratorList{Enumerators: []*ast.Enumerator{
				{Name: "SDL_FALSE", Value: &ast.Expr{Text: "0"}},
				{Name: "SDL_TRUE", Value: &ast.Expr{Text: "1"}},
			}}}}},
			want: []Declaration{{Header: "ctypedef enum SDL_bool:", Body: []string{"SDL_FALSE", "SDL_TRUE"}}},
		},
		{
			name: "unnamed enum",
			node: &ast.Decl{Type: &ast.Enum{Values: &ast.EnumeratorList{Enumerators: []*ast.Enumerator{
				{Name: "SDL_AUDIO_STOPPED"}, {Name: "SDL_AUDIO_PLAYING"}, {Name: "SDL_AUDIO_PAUSED"},
			}}}},
			want: []Declaration{{Header: "cdef enum:", Body: []string{"SDL_AUDIO_STOPPED", "SDL_AUDIO_PLAYING", "SDL_AUDIO_PAUSED"}}},
		},
		{
			name: "enum without body",
			node: &ast.Decl{Type: &ast.Enum{Name: "SDL_Scancode"}},
			want: []Declaration{{Header: "cdef enum SDL_Scancode"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, c, _ := newTestEmitter()
			if !e.Emit(Strip(tt.node), Plain, "") {
				t.Fatal("expected the declaration to be handled")
			}
			if !reflect.DeepEqual(c.decls, tt.want) {
				t.Errorf("emitted %#v\nwant    %#v", c.decls, tt.want)
			}
		})
	}
}

func TestEmit_Unhandled(t *testing.T) {
	e, c, _ := newTestEmitter()

	fn := &ast.FuncDef{Decl: &ast.Decl{Name: "SDL_abs", Type: &ast.FuncDecl{Type: &ast.TypeDecl{DeclName: "SDL_abs", Type: ident("int")}}}}
	if e.Emit(fn, Plain, "") {
		t.Error("function definitions should not be handled")
	}
	if e.Emit(&ast.PtrDecl{Type: &ast.TypeDecl{Type: ident("int")}}, Plain, "") {
		t.Error("bare modifiers should not be handled")
	}
	if len(c.decls) != 0 {
		t.Errorf("unhandled nodes emitted %v", c.decls)
	}
}

func TestEmit_UnknownNodePanics(t *testing.T) {
	e, _, _ := newTestEmitter()
	defer func() {
		if _, ok := recover().(*ast.UnknownNodeError); !ok {
			t.Error("expected *ast.UnknownNodeError panic")
		}
	}()
	e.Emit(nil, Plain, "")
}

func TestEmit_BodyLineCounts(t *testing.T) {
	for n := 0; n <= 4; n++ {
		decls := make([]ast.Node, 0, n)
		for i := 0; i < n; i++ {
			decls = append(decls, field(string(rune('a'+i)), &ast.Union{Decls: []ast.Node{field("v", ident("int"))}}))
		}

		e, c, _ := newTestEmitter()
		e.Emit(&ast.Decl{Type: &ast.Struct{Name: "SDL_S", Decls: decls}}, Plain, "")

		outer := c.decls[len(c.decls)-1]
		if outer.Header != "cdef struct SDL_S:" && n > 0 {
			t.Fatalf("n=%d: last declaration is %q", n, outer.Header)
		}
		if len(outer.Body) != n {
			t.Errorf("n=%d: got %d body lines", n, len(outer.Body))
		}
		if len(c.decls) != n+1 {
			t.Errorf("n=%d: expected %d declarations, got %d", n, n+1, len(c.decls))
		}
	}
}

func TestEmit_EnumeratorOrder(t *testing.T) {
	names := []string{"SDL_SCANCODE_A", "SDL_SCANCODE_B", "SDL_SCANCODE_C", "SDL_SCANCODE_D"}
	values := &ast.EnumeratorList{}
	for i, n := range names {
		en := &ast.Enumerator{Name: n}
		if i%2 == 0 {
			en.Value = &ast.Expr{Text: "4 + " + string(rune('0'+i))}
		}
		values.Enumerators = append(values.Enumerators, en)
	}

	e, c, _ := newTestEmitter()
	e.Emit(&ast.Decl{Type: &ast.Enum{Name: "SDL_Scancode", Values: values}}, Plain, "")

	if len(c.decls) != 1 {
		t.Fatalf("expected 1 declaration, got %d", len(c.decls))
	}
	if !reflect.DeepEqual(c.decls[0].Body, names) {
		t.Errorf("body = %v, want %v", c.decls[0].Body, names)
	}
}

func TestEmit_SyntheticNamesDistinct(t *testing.T) {
	inner := func() ast.Node {
		return &ast.Struct{Decls: []ast.Node{field("x", ident("int"))}}
	}
	node := &ast.Decl{Type: &ast.Struct{Name: "SDL_Event", Decls: []ast.Node{
		field("a", &ast.Union{Decls: []ast.Node{field("s", inner())}}),
		field("b", &ast.Union{Decls: []ast.Node{field("s", inner())}}),
		field("c", inner()),
	}}}

	e, c, names := newTestEmitter()
	e.Emit(node, Plain, "")

	seen := make(map[string]bool)
	for _, d := range c.decls {
		if seen[d.Header] {
			t.Errorf("duplicate declaration %q", d.Header)
		}
		seen[d.Header] = true
	}
	if names.Count() != 5 {
		t.Errorf("expected 5 synthetic names, got %d", names.Count())
	}
	if len(c.decls) != 6 {
		t.Errorf("expected 6 declarations, got %d", len(c.decls))
	}

	want := []string{
		"cdef struct anon_struct_2:",
		"cdef union anon_union_1:",
		"cdef struct anon_struct_4:",
		"cdef union anon_union_3:",
		"cdef struct anon_struct_5:",
		"cdef struct SDL_Event:",
	}
	for i, d := range c.decls {
		if i < len(want) && d.Header != want[i] {
			t.Errorf("declaration %d = %q, want %q", i, d.Header, want[i])
		}
	}
}

func TestHoist_FlatInputUnchanged(t *testing.T) {
	flat := []ast.Node{
		&ast.Decl{Name: "SDL_GetTicks", Type: &ast.FuncDecl{Args: voidParams(), Type: &ast.TypeDecl{DeclName: "SDL_GetTicks", Type: ident("Uint32")}}},
		&ast.Decl{Name: "w", Type: &ast.ArrayDecl{Dim: &ast.Expr{Text: "4"}, Type: &ast.PtrDecl{Type: &ast.TypeDecl{DeclName: "w", Type: ident("SDL_Window")}}}},
		&ast.Typedef{Name: "SDL_bool", Type: &ast.TypeDecl{DeclName: "SDL_bool", Type: &ast.Enum{Values: &ast.EnumeratorList{Enumerators: []*ast.Enumerator{{Name: "SDL_FALSE"}}}}}},
	}

	for _, n := range flat {
		e, c, names := newTestEmitter()
		if got := e.hoist(n); got != n {
			t.Errorf("hoist(%T) rebuilt a tree without aggregates", n)
		}
		if len(c.decls) != 0 || names.Count() != 0 {
			t.Errorf("hoist(%T) emitted %v", n, c.decls)
		}
	}
}

func TestHoist_Idempotent(t *testing.T) {
	node := field("value", &ast.Union{Decls: []ast.Node{field("a", ident("int"))}})

	e, c, _ := newTestEmitter()
	once := e.hoist(node)
	emitted := len(c.decls)

	if twice := e.hoist(once); twice != once {
		t.Error("hoisting an already hoisted tree changed it")
	}
	if len(c.decls) != emitted {
		t.Error("hoisting an already hoisted tree emitted declarations")
	}
	if _, ok := node.Type.(*ast.TypeDecl).Type.(*ast.Union); !ok {
		t.Error("hoisting mutated its input")
	}
}

func TestEmit_NameOverride(t *testing.T) {
	e, c, _ := newTestEmitter()
	e.Emit(&ast.Struct{Decls: []ast.Node{field("x", ident("int"))}}, Typedef, "SDL_Vec")

	want := []Declaration{{Header: "ctypedef struct SDL_Vec:", Body: []string{"int x"}}}
	if !reflect.DeepEqual(c.decls, want) {
		t.Errorf("emitted %v, want %v", c.decls, want)
	}
}

func TestEmit_FallbackCount(t *testing.T) {
	e, _, _ := newTestEmitter()
	e.Emit(&ast.Typedef{Name: "Uint8", Type: &ast.TypeDecl{DeclName: "Uint8", Type: ident("uint8_t")}}, Plain, "")
	e.Emit(&ast.Decl{Type: &ast.Struct{Name: "SDL_Rect"}}, Plain, "")

	if e.Fallbacks() != 1 {
		t.Errorf("expected 1 fallback, got %d", e.Fallbacks())
	}
}
