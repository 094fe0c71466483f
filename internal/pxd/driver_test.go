package pxd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/renpy/pxdgen/internal/ast"
	"github.com/renpy/pxdgen/internal/config"
	"github.com/renpy/pxdgen/internal/parser"
)

const sdlHeader = `
typedef unsigned char Uint8;
typedef unsigned long size_t;
typedef enum
{
    SDL_FALSE = 0,
    SDL_TRUE = 1
} SDL_bool;
struct SDL_mutex;
typedef struct SDL_mutex SDL_mutex;
typedef struct SDL_Point
{
    int x;
    int y;
} SDL_Point;
typedef struct SDL_Foo
{
    Uint8 kind;
    union
    {
        int a;
        const char *b;
    } value;
} SDL_Foo;
extern void SDL_Quit(void);
extern const char *SDL_GetError(void);
extern int SDL_vsnprintf(char *text, size_t maxlen, const char *fmt, int ap);
static __inline__ int SDL_abs(int x) { return x < 0 ? -x : x; }
`

const sdlListing = `from libc.stdint cimport *
from libc.stdio cimport *
from libc.stddef cimport *

cdef extern from "SDL.h" nogil:

    cdef struct _SDL_iconv_t

    cdef struct SDL_BlitMap

    ctypedef struct SDL_AudioCVT

    ctypedef unsigned char Uint8

    ctypedef enum SDL_bool:
        SDL_FALSE
        SDL_TRUE

    ctypedef struct SDL_mutex

    ctypedef struct SDL_Point:
        int x
        int y

    cdef union anon_union_1:
        int a
        char *b

    ctypedef struct SDL_Foo:
        Uint8 kind
        anon_union_1 value

    void SDL_Quit()

    char *SDL_GetError()

`

func parseHeader(t *testing.T, src string) *ast.TranslationUnit {
	t.Helper()
	p, err := parser.NewParser()
	if err != nil {
		t.Fatalf("failed to create parser: %v", err)
	}
	defer p.Close()

	result, err := p.Parse(context.Background(), []byte(src))
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	defer result.Close()

	if result.HasErrors() {
		t.Fatalf("unexpected syntax errors: %v", result.Errors())
	}

	tu, err := ast.Build(result)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return tu
}

func TestGenerate(t *testing.T) {
	tu := parseHeader(t, sdlHeader)
	d := NewDriver(config.DefaultConfig(), nil)

	var out bytes.Buffer
	stats, err := d.Generate(tu, &out)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if out.String() != sdlListing {
		t.Errorf("listing mismatch\ngot:\n%s\nwant:\n%s", out.String(), sdlListing)
	}

	want := Stats{Seen: 11, Filtered: 2, Unhandled: 1, Declarations: 8, Fallbacks: 3, Synthetic: 1}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}
}

func TestRun_PreservesSourceOrder(t *testing.T) {
	tu := &ast.TranslationUnit{Ext: []ast.Node{
		&ast.Decl{Type: &ast.Struct{Name: "SDL_C"}},
		&ast.Decl{Type: &ast.Struct{Name: "SDL_A"}},
		&ast.Decl{Type: &ast.Struct{Name: "SDL_B"}},
	}}

	var out bytes.Buffer
	if _, err := NewDriver(config.DefaultConfig(), nil).Run(tu, &out); err != nil {
		t.Fatal(err)
	}

	c := strings.Index(out.String(), "SDL_C")
	a := strings.Index(out.String(), "SDL_A")
	b := strings.Index(out.String(), "SDL_B")
	if !(c < a && a < b) {
		t.Errorf("output out of source order:\n%s", out.String())
	}
}

func TestRun_InternalFaultWritesNothing(t *testing.T) {
	tu := &ast.TranslationUnit{Ext: []ast.Node{
		&ast.Decl{Type: &ast.Struct{Name: "SDL_Fine"}},
		&ast.Decl{Name: "SDL_Broken", Type: &ast.Struct{Name: "SDL_Broken", Decls: []ast.Node{nil}}},
	}}

	var out bytes.Buffer
	_, err := NewDriver(config.DefaultConfig(), nil).Run(tu, &out)
	if err == nil {
		t.Fatal("expected an error")
	}

	var unknown *ast.UnknownNodeError
	if !errors.As(err, &unknown) {
		t.Errorf("expected *ast.UnknownNodeError in chain, got %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("partial output written:\n%s", out.String())
	}
}

func TestRun_WriteError(t *testing.T) {
	tu := &ast.TranslationUnit{Ext: []ast.Node{&ast.Decl{Type: &ast.Struct{Name: "SDL_Rect"}}}}

	_, err := NewDriver(config.DefaultConfig(), nil).Run(tu, &failingWriter{})
	if err == nil {
		t.Error("expected the write error to be returned")
	}
}

func TestWritePreamble(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.PreambleConfig
		want string
	}{
		{
			name: "with gil and no forwards",
			cfg:  config.PreambleConfig{Header: "SDL_mixer.h", WithGIL: true, Cimports: []string{"sdl2"}},
			want: "from sdl2 cimport *\n\ncdef extern from \"SDL_mixer.h\":\n\n",
		},
		{
			name: "no cimports",
			cfg:  config.PreambleConfig{Header: "SDL_ttf.h", Forward: []string{"cdef struct _TTF_Font"}},
			want: "cdef extern from \"SDL_ttf.h\" nogil:\n\n    cdef struct _TTF_Font\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WritePreamble(&buf, tt.cfg); err != nil {
				t.Fatal(err)
			}
			if buf.String() != tt.want {
				t.Errorf("got %q, want %q", buf.String(), tt.want)
			}
		})
	}
}
