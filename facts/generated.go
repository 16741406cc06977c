package facts

import (
	"go/ast"
	"reflect"
	"strings"

	"golang.org/x/tools/go/analysis"
)

// used by cgo before Go 1.11
const oldCgo = "// Created by cgo - DO NOT EDIT"

// IsGenerated reports whether f contains a comment marking it as generated code.
func IsGenerated(f *ast.File) bool {
	if ast.IsGenerated(f) {
		return true
	}
	for _, cg := range f.Comments {
		for _, c := range cg.List {
			if strings.TrimSuffix(c.Text, "\r") == oldCgo {
				return true
			}
		}
	}
	return false
}

// Generated maps the file names of a package to whether they contain generated code.
var Generated = &analysis.Analyzer{
	Name: "isgenerated",
	Doc:  "annotate file names that have been code generated",
	Run: func(pass *analysis.Pass) (interface{}, error) {
		m := map[string]bool{}
		for _, f := range pass.Files {
			path := pass.Fset.PositionFor(f.Pos(), false).Filename
			m[path] = IsGenerated(f)
		}
		return m, nil
	},
	RunDespiteErrors: true,
	ResultType:       reflect.TypeOf(map[string]bool{}),
}
