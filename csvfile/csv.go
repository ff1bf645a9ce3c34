// Package csvfile implements reading and writing of polyglot CSV datasets.
//
// Dataset layout:
//   - master file (en.csv):  key ; source text ; source text or empty ; platform tags ; comment?
//   - locale files (xx.csv): key ; source text ; translation ; comment?
//
// The column delimiter (';' or ',') is auto-detected per file from the
// first kilobyte, so datasets exported from different spreadsheet tools
// mix freely within one directory.
package csvfile

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Column indexes within a row.
const (
	// ColKey is the resource key (alias) column.
	ColKey = 0
	// ColSource is the English reference text column.
	ColSource = 1
	// ColTranslation is the translated text column (source text or empty in the master).
	ColTranslation = 2
	// ColPlatforms is the space-separated platform tag column (master file only).
	ColPlatforms = 3
	// ColComment is the optional comment column.
	ColComment = 4
)

// MinFields is the minimum number of fields a row must carry to be usable.
const MinFields = 3

// Ext is the dataset file extension.
const Ext = ".csv"

// MasterFileName is the canonical master dataset file name.
const MasterFileName = "en" + Ext

// Row is one decoded CSV record.
type Row []string

// Key returns the resource key (column 1).
func (r Row) Key() string { return r[ColKey] }

// SourceText returns the English reference text (column 2).
func (r Row) SourceText() string { return r[ColSource] }

// TranslatedText returns the translation (column 3).
func (r Row) TranslatedText() string { return r[ColTranslation] }

// PlatformSpec returns the raw platform tag string, or "" when the row
// has no platform column.
func (r Row) PlatformSpec() string {
	if len(r) > ColPlatforms {
		return r[ColPlatforms]
	}
	return ""
}

// Comment returns the comment field and whether the row carries one.
func (r Row) Comment() (string, bool) {
	if len(r) > ColComment {
		return r[ColComment], true
	}
	return "", false
}

// File is a decoded CSV dataset file.
type File struct {
	// Path the file was read from.
	Path string
	// Rows in file order. Every row has at least MinFields fields.
	Rows []Row
	// Delim is the detected field delimiter (';' or ',').
	Delim rune
}

// Keys returns the key column of every row, in file order.
func (f *File) Keys() []string {
	keys := make([]string, 0, len(f.Rows))
	for _, r := range f.Rows {
		keys = append(keys, r.Key())
	}
	return keys
}

// KeySet returns the set of keys present in the file.
func (f *File) KeySet() map[string]bool {
	set := make(map[string]bool, len(f.Rows))
	for _, r := range f.Rows {
		set[r.Key()] = true
	}
	return set
}

// RowErrorFunc is invoked for each malformed row. The row is skipped and
// reading continues.
type RowErrorFunc func(path string, line int, fields []string)

// ReadFile reads and decodes a dataset file. Rows with fewer than
// MinFields fields are reported through onRowError (if non-nil) and
// dropped; they never abort the read.
func ReadFile(path string, onRowError RowErrorFunc) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(path, data, onRowError)
}

// Parse decodes dataset bytes. See ReadFile.
func Parse(path string, data []byte, onRowError RowErrorFunc) (*File, error) {
	data = stripBOM(data)
	delim := SniffDelimiter(data)

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	f := &File{Path: path, Delim: delim}
	line := 0
	for {
		record, err := r.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		if isBlank(record) {
			continue
		}
		if len(record) < MinFields {
			if onRowError != nil {
				onRowError(path, line, record)
			}
			continue
		}
		f.Rows = append(f.Rows, Row(record))
	}
	return f, nil
}

// SniffDelimiter picks the field delimiter by counting ';' and ','
// occurrences in the first 1024 bytes. Semicolon wins ties of zero are
// resolved to comma.
func SniffDelimiter(data []byte) rune {
	sample := data
	if len(sample) > 1024 {
		sample = sample[:1024]
	}
	semis := bytes.Count(sample, []byte{';'})
	commas := bytes.Count(sample, []byte{','})
	if semis > commas {
		return ';'
	}
	return ','
}

// WriteFileExclusive encodes rows with the given delimiter and creates
// path. The file must not already exist; an existing file fails the write
// rather than being overwritten.
func WriteFileExclusive(path string, rows []Row, delim rune) error {
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	w := csv.NewWriter(out)
	w.Comma = delim
	for _, r := range rows {
		if err := w.Write(r); err != nil {
			out.Close()
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		out.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return out.Close()
}

func stripBOM(b []byte) []byte {
	bom := []byte{0xEF, 0xBB, 0xBF}
	if len(b) >= 3 && bytes.Equal(b[:3], bom) {
		return b[3:]
	}
	return b
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
