// Package version reports the version of the range inference tools.
package version

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
)

const Version = "devel"

// version returns a version descriptor and reports whether the
// version is a known release.
func version() (string, bool) {
	if Version != "devel" {
		return Version, true
	}
	info, ok := debug.ReadBuildInfo()
	if ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version, false
	}
	return "devel", false
}

// Print writes the name and version of the program to w.
func Print(w io.Writer, name string) {
	v, release := version()

	if release {
		fmt.Fprintf(w, "%s %s\n", name, v)
	} else if v == "devel" {
		fmt.Fprintf(w, "%s (no version)\n", name)
	} else {
		fmt.Fprintf(w, "%s (devel, %s)\n", name, v)
	}
}

// Verbose is like Print but also writes the Go version and the modules the program was built from.
func Verbose(w io.Writer, name string) {
	Print(w, name)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Compiled with Go version:", runtime.Version())
	info, ok := debug.ReadBuildInfo()
	if !ok {
		fmt.Fprintln(w, "Built without Go modules")
		return
	}
	fmt.Fprintln(w, "Main module:")
	printModule(w, &info.Main)
	fmt.Fprintln(w, "Dependencies:")
	for _, dep := range info.Deps {
		printModule(w, dep)
	}
}

func printModule(w io.Writer, m *debug.Module) {
	fmt.Fprintf(w, "\t%s", m.Path)
	if m.Version != "(devel)" {
		fmt.Fprintf(w, "@%s", m.Version)
	}
	if m.Sum != "" {
		fmt.Fprintf(w, " (sum: %s)", m.Sum)
	}
	if m.Replace != nil {
		fmt.Fprintf(w, " (replace: %s)", m.Replace.Path)
	}
	fmt.Fprintln(w)
}
