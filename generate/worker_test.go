package generate

import (
	"strings"
	"testing"

	"github.com/pgltd/polyglot/builder"
	"github.com/pgltd/polyglot/csvfile"
)

// memWriter collects artifacts in memory.
type memWriter struct {
	files map[string][]byte
}

func newMemWriter() *memWriter {
	return &memWriter{files: make(map[string][]byte)}
}

func (w *memWriter) Exists(path string) bool {
	_, ok := w.files[path]
	return ok
}

func (w *memWriter) Write(path string, content []byte) error {
	w.files[path] = content
	return nil
}

func file(rows ...csvfile.Row) *csvfile.File {
	return &csvfile.File{Rows: rows, Delim: ';'}
}

func TestCollapseDoubledQuotes(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: `plain`, want: `plain`},
		{in: `say ""hi""`, want: `say "hi"`},
		{in: `""""`, want: `"`},
		{in: `"`, want: `"`},
	}
	for _, tc := range cases {
		if got := collapseDoubledQuotes(tc.in); got != tc.want {
			t.Fatalf("collapseDoubledQuotes(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestWorkerProcessFallback(t *testing.T) {
	locale := file(
		csvfile.Row{"alpha", "A", "A-translated"},
		csvfile.Row{"gamma", "C", "C-translated"},
	)
	override := file(
		csvfile.Row{"alpha", "A", "A-master"},
		csvfile.Row{"beta", "B", "B-master"},
	)

	w, err := NewWorker([]string{builder.PlatformApple}, "ru", "", builder.Options{})
	if err != nil {
		t.Fatalf("NewWorker() error: %v", err)
	}
	w.Process(locale, override, PlatformKeyMap{}, false)

	writer := newMemWriter()
	written, err := w.Emit("out", writer, newNameReserver())
	if err != nil {
		t.Fatalf("Emit() error: %v", err)
	}
	if len(written) != 1 {
		t.Fatalf("got %d artifacts, want 1", len(written))
	}

	content := string(writer.files[written[0]])

	// Locale rows first, then only the override keys the locale lacks.
	wantOrder := []string{"A-translated", "C-translated", "B-master"}
	pos := -1
	for _, v := range wantOrder {
		idx := strings.Index(content, v)
		if idx < 0 {
			t.Fatalf("value %q missing:\n%s", v, content)
		}
		if idx < pos {
			t.Fatalf("value %q out of order:\n%s", v, content)
		}
		pos = idx
	}
	if strings.Contains(content, "A-master") {
		t.Fatalf("override value shadowed a locale value:\n%s", content)
	}
	if strings.Count(content, "beta") != 1 {
		t.Fatalf("fallback key appeared %d times:\n%s", strings.Count(content, "beta"), content)
	}
}

func TestWorkerPlatformFiltering(t *testing.T) {
	locale := file(
		csvfile.Row{"everywhere", "E", "E"},
		csvfile.Row{"droid_only", "D", "D"},
	)
	pk := PlatformKeyMap{
		"everywhere": {"android", "ios"},
		"droid_only": {"android"},
	}

	w, err := NewWorker([]string{builder.PlatformAndroid, builder.PlatformApple}, "fr", "", builder.Options{})
	if err != nil {
		t.Fatalf("NewWorker() error: %v", err)
	}
	w.Process(locale, nil, pk, false)

	writer := newMemWriter()
	written, err := w.Emit("out", writer, newNameReserver())
	if err != nil {
		t.Fatalf("Emit() error: %v", err)
	}
	if len(written) != 2 {
		t.Fatalf("got %d artifacts, want 2: %v", len(written), written)
	}

	for path, content := range writer.files {
		isAndroid := strings.Contains(path, "android")
		if strings.Contains(string(content), "droid_only") != isAndroid {
			t.Fatalf("droid_only placement wrong in %s:\n%s", path, content)
		}
		if !strings.Contains(string(content), "everywhere") {
			t.Fatalf("shared key missing from %s", path)
		}
	}
}

func TestWorkerComments(t *testing.T) {
	locale := file(csvfile.Row{"k", "src", "val", "", "a helpful note"})

	run := func(enable bool) string {
		w, err := NewWorker([]string{builder.PlatformApple}, "it", "", builder.Options{})
		if err != nil {
			t.Fatalf("NewWorker() error: %v", err)
		}
		w.Process(locale, nil, PlatformKeyMap{}, enable)

		writer := newMemWriter()
		written, err := w.Emit("out", writer, newNameReserver())
		if err != nil {
			t.Fatalf("Emit() error: %v", err)
		}
		return string(writer.files[written[0]])
	}

	if got := run(false); strings.Contains(got, "a helpful note") {
		t.Fatalf("comment forwarded while disabled:\n%s", got)
	}
	if got := run(true); !strings.Contains(got, "/* a helpful note */") {
		t.Fatalf("comment not forwarded while enabled:\n%s", got)
	}
}

func TestWorkerEmitCollision(t *testing.T) {
	writer := newMemWriter()
	names := newNameReserver()

	for i := 0; i < 2; i++ {
		w, err := NewWorker([]string{builder.PlatformAndroid}, "es", "", builder.Options{})
		if err != nil {
			t.Fatalf("NewWorker() error: %v", err)
		}
		w.Process(file(csvfile.Row{"k", "s", "v"}), nil, PlatformKeyMap{}, false)
		if _, err := w.Emit("out", writer, names); err != nil {
			t.Fatalf("Emit() error: %v", err)
		}
	}

	if len(writer.files) != 2 {
		t.Fatalf("collision overwrote an artifact: %v", writer.files)
	}
	var suffixed bool
	for path := range writer.files {
		if strings.HasSuffix(path, "strings 1.xml") {
			suffixed = true
		}
	}
	if !suffixed {
		t.Fatalf("no disambiguated name among %v", writer.files)
	}
}
