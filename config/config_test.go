package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"honnef.co/go/rangeinfer/go/vrp"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, configName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Policy() != vrp.DefaultPolicy {
		t.Errorf("Policy() = %+v, want %+v", cfg.Policy(), vrp.DefaultPolicy)
	}
	if cfg.CLI.Width != 64 || cfg.CLI.JSON {
		t.Errorf("CLI = %+v", cfg.CLI)
	}
}

func TestLoadMerge(t *testing.T) {
	root := t.TempDir()
	child := filepath.Join(root, "a", "b")
	writeConfig(t, root, `
[domain]
max_widen = 5
narrow_slack = 10

[cli]
width = 32
`)
	writeConfig(t, child, `
[domain]
narrow_slack = 0

[cli]
json = true
`)

	cfg, err := Load(child)
	if err != nil {
		t.Fatal(err)
	}
	want := vrp.Policy{SmallSpan: vrp.DefaultPolicy.SmallSpan, MaxWiden: 5, NarrowSlack: 0}
	if got := cfg.Policy(); got != want {
		t.Errorf("Policy() = %+v, want %+v", got, want)
	}
	if cfg.CLI.Width != 32 || !cfg.CLI.JSON {
		t.Errorf("CLI = %+v", cfg.CLI)
	}

	// The directory in between has no configuration of its own.
	cfg, err = Load(filepath.Join(root, "a"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Domain.NarrowSlack != 10 || cfg.CLI.JSON {
		t.Errorf("Load(a) = %+v", cfg)
	}
}

func TestLoadRelative(t *testing.T) {
	root := t.TempDir()
	child := filepath.Join(root, "a", "b")
	writeConfig(t, root, "[cli]\nwidth = 8\n")
	if err := os.MkdirAll(child, 0o755); err != nil {
		t.Fatal(err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(child); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	for _, dir := range []string{".", "", child} {
		cfg, err := Load(dir)
		if err != nil {
			t.Fatal(err)
		}
		if cfg.CLI.Width != 8 {
			t.Errorf("Load(%q) has width %d, want 8", dir, cfg.CLI.Width)
		}
	}
}

func TestLoadInvalid(t *testing.T) {
	tt := []struct {
		content string
		err     string
	}{
		{"[cli]\nwidth = 12\n", "cli.width"},
		{"[domain]\nmax_widen = -1\n", "max_widen"},
		{"[domain\n", configName},
		{"[domain]\nsmall_span = \"big\"\n", configName},
	}
	for _, tc := range tt {
		dir := t.TempDir()
		writeConfig(t, dir, tc.content)
		_, err := Load(dir)
		if err == nil {
			t.Errorf("Load(%q) succeeded", tc.content)
			continue
		}
		if !strings.Contains(err.Error(), tc.err) {
			t.Errorf("Load(%q) = %v, want error mentioning %q", tc.content, err, tc.err)
		}
	}
}
