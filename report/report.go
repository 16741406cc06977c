package report

import (
	"bytes"
	"go/ast"
	"go/printer"
	"go/token"
	"path/filepath"

	"honnef.co/go/rangeinfer/facts"

	"golang.org/x/tools/go/analysis"
)

type Options struct {
	Node            ast.Node
	FilterGenerated bool
	Message         string
	Related         []analysis.RelatedInformation
}

// Report reports a diagnostic spanning opts.Node, unless the node is covered by an ignore directive. The directives
// and, if opts.FilterGenerated is set, the generated files of the package are looked up in the results of
// [facts.Directives] and [facts.Generated], which the reporting analyzer must require.
func Report(pass *analysis.Pass, opts Options) {
	if opts.FilterGenerated {
		file := DisplayPosition(pass.Fset, opts.Node.Pos()).Filename
		m := pass.ResultOf[facts.Generated].(map[string]bool)
		if m[file] {
			return
		}
	}
	if dirs, ok := pass.ResultOf[facts.Directives].([]facts.Directive); ok {
		for _, dir := range dirs {
			if dir.Command == "ignore" && dir.Covers(opts.Node.Pos()) {
				return
			}
		}
	}

	d := analysis.Diagnostic{
		Pos:     opts.Node.Pos(),
		End:     opts.Node.End(),
		Message: opts.Message,
		Related: opts.Related,
	}
	pass.Report(d)
}

// Render formats an AST node as Go source.
func Render(fset *token.FileSet, x interface{}) string {
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, fset, x); err != nil {
		panic(err)
	}
	return buf.String()
}

// DisplayPosition returns the position of p, preferring the adjusted position if it points to another Go file. This
// points to the original file for cgo files, but not to a YACC grammar file.
func DisplayPosition(fset *token.FileSet, p token.Pos) token.Position {
	if p == token.NoPos {
		return token.Position{}
	}

	pos := fset.PositionFor(p, false)
	adjPos := fset.PositionFor(p, true)

	if filepath.Ext(adjPos.Filename) == ".go" {
		return adjPos
	}

	return pos
}
