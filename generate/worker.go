// Package generate drives the per-platform builders over CSV datasets and
// writes the rendered artifacts.
package generate

import (
	"sort"
	"strings"

	"github.com/pgltd/polyglot/builder"
	"github.com/pgltd/polyglot/csvfile"
)

// Worker generates one locale's artifacts. It owns its builder instances
// exclusively; workers never share state, so the Director may run them in
// parallel.
type Worker struct {
	builders []builder.Builder
	lc, cc   string
}

// NewWorker creates builders for each selected platform tag.
func NewWorker(platforms []string, lc, cc string, opts builder.Options) (*Worker, error) {
	w := &Worker{lc: lc, cc: cc}
	for _, p := range platforms {
		b, err := builder.New(p, opts)
		if err != nil {
			return nil, err
		}
		w.builders = append(w.builders, b)
	}
	return w, nil
}

// Process feeds the effective row sequence to the builders: every row of
// the locale file in order, then every master-override row whose key the
// locale file does not define. The fallback guarantees each locale output
// carries at least every key the master defines.
func (w *Worker) Process(locale, override *csvfile.File, pk PlatformKeyMap, enableComments bool) {
	seen := make(map[string]bool, len(locale.Rows))
	for _, row := range locale.Rows {
		seen[row.Key()] = true
		w.processRow(row, pk, enableComments)
	}

	if override == nil {
		return
	}
	for _, row := range override.Rows {
		if !seen[row.Key()] {
			w.processRow(row, pk, enableComments)
		}
	}
}

func (w *Worker) processRow(row csvfile.Row, pk PlatformKeyMap, enableComments bool) {
	key := row.Key()
	value := collapseDoubledQuotes(row.TranslatedText())

	comment := ""
	if enableComments {
		if c, ok := row.Comment(); ok {
			comment = c
		}
	}

	for _, b := range w.builders {
		if pk.Permits(key, b.Platform()) {
			b.AddString(key, value, comment)
		}
	}
}

// Emit finalizes every builder and writes the artifacts, resolving output
// name collisions through the shared reserver. It returns the paths
// actually written, sorted for stable logs.
func (w *Worker) Emit(outputRoot string, writer ArtifactWriter, names *nameReserver) ([]string, error) {
	var written []string
	for _, b := range w.builders {
		result := b.Result(outputRoot, w.lc, w.cc)

		paths := make([]string, 0, len(result))
		for path := range result {
			paths = append(paths, path)
		}
		sort.Strings(paths)

		for _, path := range paths {
			target := names.claim(path, writer.Exists)
			if err := writer.Write(target, []byte(result[path])); err != nil {
				return written, err
			}
			written = append(written, target)
		}
	}
	return written, nil
}

// collapseDoubledQuotes removes doubled double-quote artifacts left by
// naive CSV quoting ("" -> "), repeating until none remain. A value that
// already contains single quotes is left untouched, so the collapse never
// over-strips.
func collapseDoubledQuotes(s string) string {
	for strings.Contains(s, `""`) {
		s = strings.ReplaceAll(s, `""`, `"`)
	}
	return s
}
