package pxd

import "github.com/renpy/pxdgen/internal/ast"

// Strip returns n with every qualifier and storage class removed. Subtrees
// without any are shared with the input; the input is never modified.
func Strip(n ast.Node) ast.Node {
	n = ast.Map(n, Strip)

	switch v := n.(type) {
	case *ast.Decl:
		if len(v.Quals) > 0 || len(v.Storage) > 0 {
			c := *v
			c.Quals, c.Storage = nil, nil
			return &c
		}
	case *ast.Typedef:
		if len(v.Quals) > 0 || len(v.Storage) > 0 {
			c := *v
			c.Quals, c.Storage = nil, nil
			return &c
		}
	case *ast.TypeDecl:
		if len(v.Quals) > 0 {
			c := *v
			c.Quals = nil
			return &c
		}
	case *ast.PtrDecl:
		if len(v.Quals) > 0 {
			c := *v
			c.Quals = nil
			return &c
		}
	case *ast.Typename:
		if len(v.Quals) > 0 {
			c := *v
			c.Quals = nil
			return &c
		}
	case *ast.ArrayDecl:
		if len(v.DimQuals) > 0 {
			c := *v
			c.DimQuals = nil
			return &c
		}
	}
	return n
}
