// Package testutil runs analyzers on their test data.
package testutil

import (
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/analysistest"
)

// Run runs a on every package in testdata/src/example.com, checking the diagnostics against the packages' 'want'
// comments. Each package is checked in its own subtest, named after the package.
func Run(t *testing.T, a *analysis.Analyzer) {
	dirs, err := filepath.Glob("testdata/src/example.com/*")
	if err != nil {
		t.Fatalf("couldn't enumerate test data: %s", err)
	}

	if len(dirs) == 0 {
		t.Fatalf("found no tests")
	}

	for _, dir := range dirs {
		// Work around Windows paths
		dir = strings.ReplaceAll(dir, `\`, `/`)
		pkg := strings.TrimPrefix(dir, "testdata/src/")
		t.Run(filepath.Base(dir), func(t *testing.T) {
			analysistest.Run(t, analysistest.TestData(), a, pkg)
		})
	}
}
