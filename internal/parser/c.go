package parser

import (
	"regexp"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
)

// newCParser creates a tree-sitter parser configured for C.
func newCParser() (*sitter.Parser, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(c.GetLanguage())
	return parser, nil
}

var (
	// `# 12 "SDL_video.h" 2`, `#line 12`, `#pragma pack(push, 8)`
	lineMarkerRe = regexp.MustCompile(`(?m)^[ \t]*#[ \t]*(?:\d+|line\b|pragma\b|ident\b).*$`)

	// GNU spellings the grammar rejects, mapped to what it accepts.
	gnuKeywordRe = regexp.MustCompile(`\b(?:__extension__|__inline__|__inline|__restrict__|__restrict|__const__|__const|__volatile__|__signed__)\b`)
)

var gnuKeywords = map[string]string{
	"__extension__": "",
	"__inline__":    "inline",
	"__inline":      "inline",
	"__restrict__":  "restrict",
	"__restrict":    "restrict",
	"__const__":     "const",
	"__const":       "const",
	"__volatile__":  "volatile",
	"__signed__":    "signed",
}

// Clean prepares a (usually preprocessed) header for the grammar. Line
// markers and pragmas are blanked and GNU keyword spellings are replaced by
// their standard form. Replacements are padded with spaces so byte offsets,
// and therefore reported line and column numbers, do not move.
func Clean(src []byte) []byte {
	out := lineMarkerRe.ReplaceAllFunc(src, blank)
	out = gnuKeywordRe.ReplaceAllFunc(out, func(m []byte) []byte {
		repl := []byte(gnuKeywords[string(m)])
		return append(repl, blank(m[len(repl):])...)
	})
	return out
}

func blank(b []byte) []byte {
	out := make([]byte, len(b))
	for i := range out {
		out[i] = ' '
	}
	return out
}
