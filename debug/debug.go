// Package debug contains helpers for debugging and testing range analyses.
package debug

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
)

// TypeCheck parses and type-checks a single-file Go package from a string.
// The package may only import packages of the standard library.
func TypeCheck(src string) (*types.Package, *types.Info, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "pkg.go", src, parser.SkipObjectResolution)
	if err != nil {
		return nil, nil, err
	}
	info := &types.Info{
		Types: map[ast.Expr]types.TypeAndValue{},
		Defs:  map[*ast.Ident]types.Object{},
		Uses:  map[*ast.Ident]types.Object{},
	}
	tcfg := &types.Config{
		Importer: importer.Default(),
	}
	pkg, err := tcfg.Check(f.Name.Name, fset, []*ast.File{f}, info)
	if err != nil {
		return nil, nil, err
	}
	return pkg, info, nil
}

// ConstantExprs returns the type and value of every constant integer expression in info, keyed by its source text.
func ConstantExprs(info *types.Info) map[string]types.TypeAndValue {
	out := map[string]types.TypeAndValue{}
	for expr, tv := range info.Types {
		if tv.Value == nil {
			continue
		}
		basic, ok := tv.Type.Underlying().(*types.Basic)
		if !ok || basic.Info()&types.IsInteger == 0 {
			continue
		}
		out[types.ExprString(expr)] = tv
	}
	return out
}
