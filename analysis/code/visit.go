package code

import (
	"go/ast"

	"honnef.co/go/rangeinfer/facts"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// RequiredAnalyzers are the analyzers that Preorder and [report.Report] depend on.
var RequiredAnalyzers = []*analysis.Analyzer{inspect.Analyzer, facts.Generated, facts.Directives}

func Preorder(pass *analysis.Pass, fn func(ast.Node), types ...ast.Node) {
	pass.ResultOf[inspect.Analyzer].(*inspector.Inspector).Preorder(types, fn)
}
