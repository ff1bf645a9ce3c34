package builder

import (
	"fmt"
	"path/filepath"
	"strings"
)

// androidBuilder renders an Android strings.xml resource document.
// https://developer.android.com/guide/topics/resources/string-resource
//
// Placeholder rewriting is disabled: Android format strings (%1$s, %d)
// pass through unchanged. Apostrophes are escaped per AAPT rules.
type androidBuilder struct {
	entries []entry
}

func newAndroidBuilder() *androidBuilder { return &androidBuilder{} }

func (b *androidBuilder) Platform() string { return PlatformAndroid }

func (b *androidBuilder) AddString(key, value, comment string) {
	b.entries = append(b.entries, entry{
		key:     key,
		value:   escapeAndroidValue(value),
		comment: comment,
	})
}

// escapeAndroidValue applies XML text escaping plus the AAPT apostrophe
// escape (' -> \').
func escapeAndroidValue(s string) string {
	return strings.ReplaceAll(escapeXMLText(s), "'", `\'`)
}

func (b *androidBuilder) Result(outputRoot, languageCode, countryCode string) map[string]string {
	cc := countryCode
	if cc != "" {
		cc = "-r" + cc
	}

	var doc strings.Builder
	doc.WriteString(xmlHeader)
	doc.WriteString("<resources>\n")
	for _, e := range b.entries {
		// The comment node precedes the <string> it annotates.
		if e.comment != "" {
			fmt.Fprintf(&doc, "\t<!-- %s -->\n", e.comment)
		}
		fmt.Fprintf(&doc, "\t<string name=\"%s\">%s</string>\n", escapeXMLAttr(e.key), e.value)
	}
	doc.WriteString("</resources>\n")

	path := filepath.Join(outputRoot, "android", "res",
		"values-"+languageCode+cc, baseNames[PlatformAndroid]+".xml")
	return map[string]string{path: doc.String()}
}
