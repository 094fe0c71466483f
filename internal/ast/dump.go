package ast

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Dump converts n into a YAML mapping that keeps the field order of the
// node types. Empty fields are omitted.
func Dump(n Node) *yaml.Node {
	m := &mapping{node: &yaml.Node{Kind: yaml.MappingNode}}
	m.str("kind", strings.TrimPrefix(fmt.Sprintf("%T", n), "*ast."))

	switch n := n.(type) {
	case *TranslationUnit:
		m.list("ext", n.Ext)
	case *Decl:
		m.str("name", n.Name)
		m.strs("quals", n.Quals)
		m.strs("storage", n.Storage)
		m.child("type", n.Type)
		m.child("init", n.Init)
		m.child("bitsize", n.Bitsize)
	case *Typedef:
		m.str("name", n.Name)
		m.strs("quals", n.Quals)
		m.strs("storage", n.Storage)
		m.child("type", n.Type)
	case *TypeDecl:
		m.str("declname", n.DeclName)
		m.strs("quals", n.Quals)
		m.child("type", n.Type)
	case *IdentifierType:
		m.strs("names", n.Names)
	case *Struct:
		m.str("name", n.Name)
		m.list("decls", n.Decls)
	case *Union:
		m.str("name", n.Name)
		m.list("decls", n.Decls)
	case *Enum:
		m.str("name", n.Name)
		if n.Values != nil {
			m.child("values", n.Values)
		}
	case *EnumeratorList:
		items := make([]Node, 0, len(n.Enumerators))
		for _, e := range n.Enumerators {
			items = append(items, e)
		}
		m.list("enumerators", items)
	case *Enumerator:
		m.str("name", n.Name)
		m.child("value", n.Value)
	case *ArrayDecl:
		m.child("dim", n.Dim)
		m.strs("dim_quals", n.DimQuals)
		m.child("type", n.Type)
	case *PtrDecl:
		m.strs("quals", n.Quals)
		m.child("type", n.Type)
	case *FuncDecl:
		if n.Args != nil {
			m.child("args", n.Args)
		}
		m.child("type", n.Type)
	case *ParamList:
		m.list("params", n.Params)
	case *Typename:
		m.strs("quals", n.Quals)
		m.child("type", n.Type)
	case *FuncDef:
		if n.Decl != nil {
			m.child("decl", n.Decl)
		}
	case *Expr:
		m.str("text", n.Text)
	case *EllipsisParam:
	default:
		unknown("Dump", n)
	}
	return m.node
}

// WriteYAML writes nodes as a YAML sequence.
func WriteYAML(w io.Writer, nodes []Node) error {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, n := range nodes {
		seq.Content = append(seq.Content, Dump(n))
	}
	doc := &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{seq}}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding ast: %w", err)
	}
	return enc.Close()
}

type mapping struct {
	node *yaml.Node
}

func (m *mapping) key(k string, v *yaml.Node) {
	m.node.Content = append(m.node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: k}, v)
}

func (m *mapping) str(k, v string) {
	if v == "" {
		return
	}
	m.key(k, &yaml.Node{Kind: yaml.ScalarNode, Value: v})
}

func (m *mapping) strs(k string, v []string) {
	if len(v) == 0 {
		return
	}
	seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, s := range v {
		seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: s})
	}
	m.key(k, seq)
}

func (m *mapping) child(k string, c Node) {
	if c == nil {
		return
	}
	m.key(k, Dump(c))
}

func (m *mapping) list(k string, items []Node) {
	if items == nil {
		return
	}
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, c := range items {
		seq.Content = append(seq.Content, Dump(c))
	}
	m.key(k, seq)
}
