package generate

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNameReserverClaim(t *testing.T) {
	never := func(string) bool { return false }

	t.Run("free path kept as is", func(t *testing.T) {
		r := newNameReserver()
		if got := r.claim("out/strings.xml", never); got != "out/strings.xml" {
			t.Fatalf("claim() = %q", got)
		}
	})

	t.Run("second claim gets a numeric suffix", func(t *testing.T) {
		r := newNameReserver()
		r.claim("out/strings.xml", never)
		if got := r.claim("out/strings.xml", never); got != "out/strings 1.xml" {
			t.Fatalf("claim() = %q, want %q", got, "out/strings 1.xml")
		}
		if got := r.claim("out/strings.xml", never); got != "out/strings 2.xml" {
			t.Fatalf("claim() = %q, want %q", got, "out/strings 2.xml")
		}
	})

	t.Run("existing file on disk counts as taken", func(t *testing.T) {
		r := newNameReserver()
		exists := func(path string) bool { return path == "out/strings.xml" }
		if got := r.claim("out/strings.xml", exists); got != "out/strings 1.xml" {
			t.Fatalf("claim() = %q, want %q", got, "out/strings 1.xml")
		}
	})
}

func TestOSWriter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a", "b", "file.txt")

	var w OSWriter
	if w.Exists(path) {
		t.Fatal("Exists() true before write")
	}
	if err := w.Write(path, []byte("content")); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if !w.Exists(path) {
		t.Fatal("Exists() false after write")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "content" {
		t.Fatalf("content = %q", data)
	}
}
