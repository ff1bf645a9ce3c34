package builder

import (
	"fmt"
	"path/filepath"
	"strings"
)

// iosBuilder renders an Apple Localizable.strings file: plain-text
// "key" = "value"; pairs with /* comment */ preceding each entry.
// https://developer.apple.com/documentation/xcode/localization
//
// Generic {name} placeholders become %@ (Cocoa object format specifier,
// position-independent).
type iosBuilder struct {
	entries []entry
}

func newIOSBuilder() *iosBuilder { return &iosBuilder{} }

func (b *iosBuilder) Platform() string { return PlatformApple }

func (b *iosBuilder) AddString(key, value, comment string) {
	value = rewritePlaceholders(value, func(int) string { return "%@" })
	value = strings.ReplaceAll(value, `"`, `\"`)
	value = strings.ReplaceAll(value, spaceToken, " ")

	b.entries = append(b.entries, entry{key: key, value: value, comment: comment})
}

func (b *iosBuilder) Result(outputRoot, languageCode, countryCode string) map[string]string {
	cc := countryCode
	if cc != "" {
		cc = "-" + cc
	}

	var doc strings.Builder
	for _, e := range b.entries {
		if e.comment != "" {
			fmt.Fprintf(&doc, "/* %s */\n", e.comment)
		}
		fmt.Fprintf(&doc, "\"%s\" = \"%s\";\n", e.key, e.value)
	}

	path := filepath.Join(outputRoot, "ios",
		languageCode+cc+".lproj", baseNames[PlatformApple]+".strings")
	return map[string]string{path: doc.String()}
}
