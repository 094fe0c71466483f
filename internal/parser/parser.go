// Package parser provides tree-sitter based parsing of C headers.
//
// The parser package wraps the tree-sitter C grammar. Headers are usually
// fed in preprocessed form (the output of `cc -E`), so Clean is applied to
// the source first to blank out line markers and GNU keywords the grammar
// does not know.
package parser

import (
	"context"
	"os"

	sitter "github.com/smacker/go-tree-sitter"
)

// Parser wraps tree-sitter for C parsing.
type Parser struct {
	parser *sitter.Parser
}

// ParseResult contains the parsed AST and metadata.
type ParseResult struct {
	// Tree is the complete tree-sitter parse tree.
	Tree *sitter.Tree
	// Root is the root node of the AST.
	Root *sitter.Node
	// Source is the cleaned source code that was parsed.
	Source []byte
	// FilePath is the path to the source file (empty for in-memory parsing).
	FilePath string
}

// NewParser creates a C parser.
func NewParser() (*Parser, error) {
	p, err := newCParser()
	if err != nil {
		return nil, err
	}
	return &Parser{parser: p}, nil
}

// Parse cleans and parses source code and returns the AST.
func (p *Parser) Parse(ctx context.Context, source []byte) (*ParseResult, error) {
	source = Clean(source)

	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, &ParseError{
			Message: err.Error(),
		}
	}

	return &ParseResult{
		Tree:   tree,
		Root:   tree.RootNode(),
		Source: source,
	}, nil
}

// ParseFile parses a file from disk.
func (p *Parser) ParseFile(ctx context.Context, path string) (*ParseResult, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileReadError{Path: path, Err: err}
	}

	result, err := p.Parse(ctx, source)
	if err != nil {
		if pe, ok := err.(*ParseError); ok {
			pe.File = path
		}
		return nil, err
	}

	result.FilePath = path
	return result, nil
}

// Close releases parser resources.
// After calling Close, the parser should not be used.
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
		p.parser = nil
	}
}

// Close releases the parse tree resources.
func (r *ParseResult) Close() {
	if r.Tree != nil {
		r.Tree.Close()
		r.Tree = nil
		r.Root = nil
	}
}

// HasErrors returns true if the parse tree contains syntax errors.
func (r *ParseResult) HasErrors() bool {
	if r.Root == nil {
		return false
	}
	return r.Root.HasError()
}

// Errors returns one ParseError per ERROR or MISSING node, in source order.
func (r *ParseResult) Errors() []*ParseError {
	if !r.HasErrors() {
		return nil
	}

	var errs []*ParseError
	r.WalkNodes(func(n *sitter.Node) bool {
		if !n.IsError() && !n.IsMissing() {
			return true
		}
		pt := n.StartPoint()
		msg := "syntax error near " + quoteSnippet(r.NodeText(n))
		if n.IsMissing() {
			msg = "missing " + n.Type()
		}
		errs = append(errs, &ParseError{
			Message: msg,
			File:    r.FilePath,
			Line:    pt.Row + 1,
			Column:  pt.Column + 1,
		})
		return true
	})
	return errs
}

// WalkNodes traverses the AST depth-first, calling the visitor function
// for each node. If the visitor returns false, the node's children are
// skipped.
func (r *ParseResult) WalkNodes(visitor func(*sitter.Node) bool) {
	if r.Root == nil {
		return
	}
	walkNode(r.Root, visitor)
}

// walkNode is a helper for depth-first AST traversal.
func walkNode(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if !visitor(node) {
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		walkNode(node.Child(i), visitor)
	}
}

// NodeText returns the source text for a node.
func (r *ParseResult) NodeText(node *sitter.Node) string {
	if node == nil || r.Source == nil {
		return ""
	}
	return node.Content(r.Source)
}

func quoteSnippet(s string) string {
	const max = 40
	if len(s) > max {
		s = s[:max-3] + "..."
	}
	return "\"" + s + "\""
}
