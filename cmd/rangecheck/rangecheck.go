// rangecheck finds comparisons of integers that are always true or
// always false.
package main // import "honnef.co/go/rangeinfer/cmd/rangecheck"

import (
	"honnef.co/go/rangeinfer/analysis/rangecheck"

	"golang.org/x/tools/go/analysis/singlechecker"
)

func main() {
	singlechecker.Main(rangecheck.Analyzer)
}
