package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewRootCmd(t *testing.T) {
	root := newRootCmd()

	for _, name := range []string{"generate", "analyze", "simplify", "version"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd == root {
			t.Fatalf("subcommand %q not registered: %v", name, err)
		}
	}
}

func TestResolveSettings(t *testing.T) {
	dir := t.TempDir()

	t.Run("defaults without project file", func(t *testing.T) {
		s, err := resolveSettings(dir)
		if err != nil {
			t.Fatalf("resolveSettings() error: %v", err)
		}
		if s.OutputDir != "output" {
			t.Fatalf("OutputDir = %q", s.OutputDir)
		}
	})

	t.Run("project file found next to a dataset file", func(t *testing.T) {
		sub := filepath.Join(dir, "data")
		if err := os.MkdirAll(sub, 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(sub, ".polyglot.yaml"), []byte("output_dir: artifacts\n"), 0644); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(sub, "ru.csv"), []byte("k;s;v\n"), 0644); err != nil {
			t.Fatal(err)
		}

		s, err := resolveSettings(filepath.Join(sub, "ru.csv"))
		if err != nil {
			t.Fatalf("resolveSettings() error: %v", err)
		}
		if s.OutputDir != "artifacts" {
			t.Fatalf("OutputDir = %q, want %q", s.OutputDir, "artifacts")
		}
	})

	t.Run("environment overrides project file", func(t *testing.T) {
		t.Setenv("POLYGLOT_OUTPUT_DIR", "/env/out")

		s, err := resolveSettings(dir)
		if err != nil {
			t.Fatalf("resolveSettings() error: %v", err)
		}
		if s.OutputDir != "/env/out" {
			t.Fatalf("OutputDir = %q, want %q", s.OutputDir, "/env/out")
		}
	})
}
