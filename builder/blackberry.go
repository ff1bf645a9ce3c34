package builder

import (
	"fmt"
	"path/filepath"
	"strings"
)

// blackberryBuilder renders the BlackBerry OS 5.7 resource pair: a .rrh
// header mapping each key to its index, and a .rrc body mapping each key
// to its localized value.
// https://developer.blackberry.com/bbos/java/documentation/localize_apps_2006594_11.html
//
// Generic {name} placeholders become javax.microedition.global.Formatter
// positional placeholders {0}, {1}, …
type blackberryBuilder struct {
	pkg     string
	header  strings.Builder
	body    strings.Builder
	nextIdx int
}

func newBlackberryBuilder(pkg string) *blackberryBuilder {
	b := &blackberryBuilder{pkg: pkg}
	fmt.Fprintf(&b.header, "package %s;\n\n", pkg)
	return b
}

func (b *blackberryBuilder) Platform() string { return PlatformBlackberry }

func (b *blackberryBuilder) AddString(key, value, comment string) {
	value = rewritePlaceholders(value, func(i int) string { return fmt.Sprintf("{%d}", i) })
	value = strings.ReplaceAll(value, `"`, `\"`)

	fmt.Fprintf(&b.header, "%s#0=%d;\n", key, b.nextIdx)
	fmt.Fprintf(&b.body, "%s#0=\"%s\";\n", key, value)
	b.nextIdx++
}

// Result emits the header/body pair, or nothing at all when no string was
// added (an empty .rrh would still carry the package line).
func (b *blackberryBuilder) Result(outputRoot, languageCode, countryCode string) map[string]string {
	if b.nextIdx == 0 {
		return map[string]string{}
	}

	cc := countryCode
	if cc != "" {
		cc = "_" + cc
	}

	pkgPath := filepath.Join(strings.Split(b.pkg, ".")...)
	resDir := filepath.Join(outputRoot, "bb", "res", pkgPath)
	base := baseNames[PlatformBlackberry]

	return map[string]string{
		filepath.Join(resDir, base+".rrh"):                     b.header.String(),
		filepath.Join(resDir, base+"_"+languageCode+cc+".rrc"): b.body.String(),
	}
}
