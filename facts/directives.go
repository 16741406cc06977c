package facts

import (
	"go/ast"
	"go/token"
	"reflect"
	"strings"

	"golang.org/x/tools/go/analysis"
)

const directivePrefix = "//rangecheck:"

// A Directive is a comment of the form '//rangecheck:<command> [arguments...]', attached to the node it precedes or
// follows. The only command the analyzer understands is 'ignore', which suppresses diagnostics inside Node.
type Directive struct {
	Command   string
	Arguments []string
	Directive *ast.Comment
	Node      ast.Node
}

// Covers reports whether the directive is attached to a node that encloses pos.
func (d Directive) Covers(pos token.Pos) bool {
	return d.Node.Pos() <= pos && pos < d.Node.End()
}

func parseDirective(s string) (cmd string, args []string) {
	s, ok := strings.CutPrefix(s, directivePrefix)
	if !ok {
		return "", nil
	}
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], fields[1:]
}

// ParseDirectives returns all directives in files.
func ParseDirectives(files []*ast.File, fset *token.FileSet) []Directive {
	var dirs []Directive
	for _, f := range files {
		cm := ast.NewCommentMap(fset, f, f.Comments)
		for node, cgs := range cm {
			for _, cg := range cgs {
				for _, c := range cg.List {
					cmd, args := parseDirective(c.Text)
					if cmd == "" {
						continue
					}
					dirs = append(dirs, Directive{
						Command:   cmd,
						Arguments: args,
						Directive: c,
						Node:      node,
					})
				}
			}
		}
	}
	return dirs
}

// Directives extracts the directives of a package.
var Directives = &analysis.Analyzer{
	Name: "directives",
	Doc:  "extracts rangecheck directives",
	Run: func(pass *analysis.Pass) (interface{}, error) {
		return ParseDirectives(pass.Files, pass.Fset), nil
	},
	RunDespiteErrors: true,
	ResultType:       reflect.TypeOf([]Directive{}),
}
