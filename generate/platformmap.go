package generate

import (
	"path/filepath"
	"strings"

	"github.com/pgltd/polyglot/builder"
	"github.com/pgltd/polyglot/csvfile"
)

// PlatformKeyMap maps each resource key to its permitted platform tags.
// Only the master file carries platform information; keys absent from the
// map default to all supported platforms (a permissive default, not an
// error).
type PlatformKeyMap map[string][]string

// Allowed returns the platform tags permitted for a key.
func (m PlatformKeyMap) Allowed(key string) []string {
	if tags, ok := m[key]; ok {
		return tags
	}
	return builder.SupportedPlatforms
}

// Permits reports whether a platform tag is permitted for a key. Matching
// is exact per whitespace-split token — a tag like "wp" never matches by
// being a substring of a longer token.
func (m PlatformKeyMap) Permits(key, platform string) bool {
	for _, tag := range m.Allowed(key) {
		if tag == platform {
			return true
		}
	}
	return false
}

// BuildPlatformKeyMap builds the map from the master file's platform
// column, then re-scans the master-override directory's copy of the same
// filename with override entries replacing same-key entries (simple key
// overwrite). A missing override copy contributes nothing. Master rows
// without a platform column are reported and skipped.
func BuildPlatformKeyMap(masterPath, masterDir string, onRowError csvfile.RowErrorFunc) (PlatformKeyMap, error) {
	m := make(PlatformKeyMap)

	if err := m.scan(masterPath, onRowError); err != nil {
		return nil, err
	}

	if masterDir != "" {
		overridePath := filepath.Join(masterDir, filepath.Base(masterPath))
		if err := m.scan(overridePath, onRowError); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m PlatformKeyMap) scan(path string, onRowError csvfile.RowErrorFunc) error {
	f, err := csvfile.ReadFile(path, onRowError)
	if err != nil {
		return err
	}
	for i, row := range f.Rows {
		if len(row) <= csvfile.ColPlatforms {
			if onRowError != nil {
				onRowError(path, i+1, row)
			}
			continue
		}
		m[row.Key()] = strings.Fields(row.PlatformSpec())
	}
	return nil
}
