// Package simplify collapses duplicate source-text rows of a dataset file
// into one canonical row each.
//
// Input rows are expected as: key, source text, platform tags,
// merged-from. When two rows share the same source text the platform tag
// sets are united and the better-named key keeps column 1; the other key
// is recorded in the merged-from column. The result is written to a
// sibling "<file>.temp" which must not already exist.
package simplify

import (
	"sort"
	"strings"
	"unicode"

	"github.com/pgltd/polyglot/csvfile"
)

// Column indexes of the simplify input shape. Unlike generation input,
// the platform tags sit in column 3 here and column 4 collects the keys
// merged away.
const (
	colKey        = 0
	colSource     = 1
	colPlatforms  = 2
	colMergedFrom = 3
)

// OutputPath derives the merge output file name.
func OutputPath(path string) string {
	return path + ".temp"
}

// Options configures a merge run.
type Options struct {
	// Path is the dataset file to simplify.
	Path string
	// OnRowError receives malformed rows (logged, skipped).
	OnRowError csvfile.RowErrorFunc
}

// Result summarizes a merge run.
type Result struct {
	// OutputPath is where the simplified dataset was written.
	OutputPath string
	// Rows is the number of rows written.
	Rows int
	// Merged is the number of rows collapsed into an earlier one.
	Merged int
}

// Run merges duplicate source-text rows and writes the result next to the
// input. An existing output file fails the whole run rather than being
// overwritten.
func Run(opts Options) (*Result, error) {
	f, err := csvfile.ReadFile(opts.Path, opts.OnRowError)
	if err != nil {
		return nil, err
	}

	var order []string
	byText := make(map[string]csvfile.Row)
	merged := 0

	for _, row := range f.Rows {
		word := row[colSource]

		first, ok := byText[word]
		if !ok {
			// The first row seen for a source text becomes canonical;
			// copy it so merging never mutates the parsed file.
			byText[word] = append(csvfile.Row(nil), row...)
			order = append(order, word)
			continue
		}

		winner, loser := selectAlias(first[colKey], row[colKey])
		first[colKey] = winner
		first[colPlatforms] = mergePlatforms(first[colPlatforms], row[colPlatforms])

		if len(first) <= colMergedFrom {
			first = append(first, "")
		}
		if first[colMergedFrom] == "" {
			first[colMergedFrom] = loser
		} else {
			first[colMergedFrom] += "/" + loser
		}
		byText[word] = first
		merged++
	}

	rows := make([]csvfile.Row, 0, len(order))
	for _, word := range order {
		rows = append(rows, byText[word])
	}

	out := OutputPath(opts.Path)
	if err := csvfile.WriteFileExclusive(out, rows, f.Delim); err != nil {
		return nil, err
	}

	return &Result{OutputPath: out, Rows: len(rows), Merged: merged}, nil
}

// mergePlatforms unites two space-separated platform tag lists, removing
// duplicates. Tag order carries no meaning; the result is sorted so
// repeated runs produce identical files.
func mergePlatforms(a, b string) string {
	set := make(map[string]bool)
	for _, tag := range strings.Fields(a) {
		set[tag] = true
	}
	for _, tag := range strings.Fields(b) {
		set[tag] = true
	}

	tags := make([]string, 0, len(set))
	for tag := range set {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return strings.Join(tags, " ")
}

// selectAlias picks which key stays canonical. A key loses 2 points for
// containing a space and 1 point per uppercase character, so terse
// snake_case identifiers beat prose-like ones; on a tie the newer key
// wins, matching the reference merge.
func selectAlias(a, b string) (winner, loser string) {
	if aliasScore(a) > aliasScore(b) {
		return a, b
	}
	return b, a
}

func aliasScore(key string) int {
	score := 0
	if strings.Contains(key, " ") {
		score -= 2
	}
	for _, r := range key {
		if unicode.IsUpper(r) {
			score--
		}
	}
	return score
}
