// Package analyze inspects a CSV dataset for duplicate entries and
// cross-file integrity gaps.
//
// Three independent findings are produced from the master file: alias
// duplicates (a key defined twice), exact string duplicates (two or more
// keys sharing identical source text), and fuzzy string duplicates
// (near-identical source text above a similarity cutoff). In batch mode
// every locale file is additionally diffed against the master key set.
//
// The string comparison is a full O(n²) scan over all source texts — fine
// for datasets of a few thousand rows, a known scaling limit beyond that.
package analyze

import (
	"sort"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/pgltd/polyglot/csvfile"
)

// DefaultCutoff is the similarity ratio below which two strings are not
// considered duplicates of each other.
const DefaultCutoff = 0.86

// DefaultMaxCandidates bounds how many similar strings are reported per
// query text.
const DefaultMaxCandidates = 5

// Options configures an analysis run.
type Options struct {
	// MasterPath is the master (en.csv) dataset file.
	MasterPath string
	// LocaleFiles are all discovered dataset files. The integrity check
	// runs only when there is more than one (batch mode).
	LocaleFiles []string

	// Cutoff overrides DefaultCutoff when non-zero.
	Cutoff float64
	// MaxCandidates overrides DefaultMaxCandidates when non-zero.
	MaxCandidates int

	// OnRowError receives malformed rows (logged, skipped).
	OnRowError csvfile.RowErrorFunc
}

// IntegrityEntry is one locale file's key diff against the master.
type IntegrityEntry struct {
	// Missing are master keys the locale file lacks.
	Missing []string
	// Redundant are locale keys the master does not define.
	Redundant []string
}

// Clean reports whether the locale file matches the master key set.
func (e IntegrityEntry) Clean() bool {
	return len(e.Missing) == 0 && len(e.Redundant) == 0
}

// Report holds all findings of one run. Findings are report artifacts for
// the operator, not errors.
type Report struct {
	// AliasDuplicates lists keys whose repeat definitions were seen in the
	// master file (the first occurrence is not flagged).
	AliasDuplicates []string
	// ExactDuplicates maps a source text to every key carrying it, for
	// texts shared by at least two keys.
	ExactDuplicates map[string][]string
	// FuzzyDuplicates maps a source text to its near-identical neighbors.
	// Each similar pair appears in one direction only.
	FuzzyDuplicates map[string][]string
	// Integrity maps locale file path to its key diff. Nil outside batch
	// mode.
	Integrity map[string]IntegrityEntry
}

// SortedExactTexts returns the exact-duplicate texts in sorted order for
// reproducible reporting.
func (r *Report) SortedExactTexts() []string {
	return sortedKeys(r.ExactDuplicates)
}

// SortedFuzzyTexts returns the fuzzy-duplicate query texts in sorted order.
func (r *Report) SortedFuzzyTexts() []string {
	return sortedKeys(r.FuzzyDuplicates)
}

// SortedIntegrityFiles returns the checked locale paths in sorted order.
func (r *Report) SortedIntegrityFiles() []string {
	return sortedKeys(r.Integrity)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Run analyzes the dataset and returns the report.
func Run(opts Options) (*Report, error) {
	cutoff := opts.Cutoff
	if cutoff == 0 {
		cutoff = DefaultCutoff
	}
	maxCand := opts.MaxCandidates
	if maxCand == 0 {
		maxCand = DefaultMaxCandidates
	}

	master, err := csvfile.ReadFile(opts.MasterPath, opts.OnRowError)
	if err != nil {
		return nil, err
	}

	aliases, book, aliasDups := scanMaster(master)

	r := &Report{AliasDuplicates: aliasDups}
	r.ExactDuplicates, r.FuzzyDuplicates = stringDuplicates(aliases, book, cutoff, maxCand)

	if len(opts.LocaleFiles) > 1 {
		r.Integrity, err = integrityCheck(aliases, opts.LocaleFiles, opts.OnRowError)
		if err != nil {
			return nil, err
		}
	}

	return r, nil
}

// scanMaster collects, in one pass over the master file: every key in
// file order, the index-aligned source text list, and the keys whose
// definition repeats.
func scanMaster(master *csvfile.File) (aliases, book, dups []string) {
	seen := make(map[string]bool, len(master.Rows))
	for _, row := range master.Rows {
		key := row.Key()
		if seen[key] {
			dups = append(dups, key)
		}
		seen[key] = true
		aliases = append(aliases, key)
		book = append(book, row.SourceText())
	}
	return aliases, book, dups
}

// stringDuplicates runs the pairwise similarity scan. For each source
// text the closest matches among all other texts are computed; a
// character-identical match makes the text an exact duplicate (grouped by
// text), anything else above the cutoff is fuzzy. A fuzzy pair already
// recorded in the opposite direction is suppressed so A~B is never also
// reported as B~A.
func stringDuplicates(aliases, book []string, cutoff float64, maxCand int) (exact, fuzzy map[string][]string) {
	exact = make(map[string][]string)
	fuzzy = make(map[string][]string)

	for i, word := range book {
		results := closeMatches(word, book, i, maxCand, cutoff)
		if len(results) == 0 {
			continue
		}

		if containsString(results, word) {
			exact[word] = append(exact[word], aliases[i])
			continue
		}

		for _, result := range results {
			if containsString(fuzzy[result], word) {
				continue
			}
			fuzzy[word] = append(fuzzy[word], result)
		}
	}

	return exact, fuzzy
}

// closeMatches returns up to n texts from book (excluding index skip, so
// a text never matches its own row) whose similarity ratio to word is at
// least cutoff, best matches first. The cheap quick-ratio bounds are
// checked before the full ratio, the same laddering difflib uses.
func closeMatches(word string, book []string, skip, n int, cutoff float64) []string {
	type scored struct {
		text  string
		ratio float64
	}

	m := difflib.NewMatcher(nil, splitChars(word))

	var results []scored
	for i, candidate := range book {
		if i == skip {
			continue
		}
		m.SetSeq1(splitChars(candidate))
		if m.RealQuickRatio() < cutoff || m.QuickRatio() < cutoff {
			continue
		}
		if r := m.Ratio(); r >= cutoff {
			results = append(results, scored{text: candidate, ratio: r})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].ratio > results[j].ratio
	})
	if len(results) > n {
		results = results[:n]
	}

	out := make([]string, 0, len(results))
	for _, s := range results {
		out = append(out, s.text)
	}
	return out
}

// splitChars explodes a string into per-rune elements for character-level
// sequence matching.
func splitChars(s string) []string {
	chars := make([]string, 0, len(s))
	for _, r := range s {
		chars = append(chars, string(r))
	}
	return chars
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// integrityCheck diffs every locale file's key multiset against the master
// key set: missing = master keys the locale lacks, redundant = locale keys
// (including surplus repeats) the master does not account for.
func integrityCheck(masterAliases []string, localeFiles []string, onRowError csvfile.RowErrorFunc) (map[string]IntegrityEntry, error) {
	masterSet := make(map[string]bool, len(masterAliases))
	for _, a := range masterAliases {
		masterSet[a] = true
	}
	sortedMaster := sortedKeys(masterSet)

	report := make(map[string]IntegrityEntry, len(localeFiles))
	for _, path := range localeFiles {
		f, err := csvfile.ReadFile(path, onRowError)
		if err != nil {
			return nil, err
		}

		counts := make(map[string]int)
		for _, key := range f.Keys() {
			counts[key]++
		}

		var entry IntegrityEntry
		matched := make(map[string]int)
		for _, a := range sortedMaster {
			if counts[a] > 0 {
				counts[a]--
				matched[a]++
			} else {
				entry.Missing = append(entry.Missing, a)
			}
		}
		for _, key := range f.Keys() {
			if matched[key] > 0 {
				matched[key]--
				continue
			}
			entry.Redundant = append(entry.Redundant, key)
		}

		report[path] = entry
	}
	return report, nil
}
