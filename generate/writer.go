package generate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ArtifactWriter persists rendered artifacts. The core never touches the
// filesystem directly, so tests (and alternative sinks) can substitute it.
type ArtifactWriter interface {
	// Exists reports whether a file already occupies path.
	Exists(path string) bool
	// Write stores content at path, creating parent directories as needed.
	Write(path string, content []byte) error
}

// OSWriter is the default ArtifactWriter backed by the local filesystem.
type OSWriter struct{}

func (OSWriter) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (OSWriter) Write(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	return os.WriteFile(path, content, 0644)
}

// nameReserver hands out free output paths. When the wanted path is taken
// (on disk, or already claimed by another worker this run) a numeric
// disambiguator is inserted before the extension: "name 1.xml",
// "name 2.xml", … Claims are tracked under one mutex so the
// existence-check-then-write sequence stays atomic across parallel locale
// workers. First writer wins the bare name; this is collision avoidance
// within a run, not overwrite protection across runs.
type nameReserver struct {
	mu       sync.Mutex
	reserved map[string]bool
}

func newNameReserver() *nameReserver {
	return &nameReserver{reserved: make(map[string]bool)}
}

func (r *nameReserver) claim(path string, exists func(string) bool) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)

	candidate := path
	for idx := 1; r.reserved[candidate] || exists(candidate); idx++ {
		candidate = fmt.Sprintf("%s %d%s", stem, idx, ext)
	}
	r.reserved[candidate] = true
	return candidate
}
