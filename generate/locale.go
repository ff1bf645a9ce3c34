package generate

import (
	"fmt"
	"path/filepath"
	"strings"
)

// SplitLocale derives (languageCode, countryCode) from a dataset filename.
// The stem is split on '-' and the first two 2-character segments are
// taken in order: the first is the language, the second (if present) the
// region. Longer segments such as brand names are ignored, so
// "fr-CA-acme.csv" yields ("fr", "CA"). A stem with no 2-character
// segment is a usage error.
func SplitLocale(path string) (lc, cc string, err error) {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	var segs []string
	for _, s := range strings.Split(stem, "-") {
		if len(s) == 2 {
			segs = append(segs, s)
		}
	}
	if len(segs) == 0 {
		return "", "", fmt.Errorf("cannot derive a language code from %q: expected names like ru.csv or pt-BR-brand.csv", filepath.Base(path))
	}

	lc = segs[0]
	if len(segs) > 1 {
		cc = segs[1]
	}
	return lc, cc, nil
}
