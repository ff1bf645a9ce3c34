package builder

import (
	"fmt"
	"path/filepath"
	"strings"
)

// qtBuilder renders a Qt linguist TS document. The <source> element holds
// the resource key and <translation> the localized value; the document's
// language attribute is set from the locale at finalize time.
// https://doc.qt.io/qt-5/linguist-ts-file-format.html
//
// Placeholder rewriting is disabled: Qt uses %1-style markers that
// translators keep verbatim.
type qtBuilder struct {
	entries []entry
}

func newQtBuilder() *qtBuilder { return &qtBuilder{} }

func (b *qtBuilder) Platform() string { return PlatformQt }

// qtContextName marks generated documents; Qt requires a context name and
// generated files have no meaningful one.
const qtContextName = "!AUTO GENERATED, FIXME IF YOU CAN!"

func (b *qtBuilder) AddString(key, value, comment string) {
	b.entries = append(b.entries, entry{key: key, value: value, comment: comment})
}

func (b *qtBuilder) Result(outputRoot, languageCode, countryCode string) map[string]string {
	cc := countryCode
	if cc != "" {
		cc = "_" + cc
	}

	var doc strings.Builder
	doc.WriteString(xmlHeader)
	fmt.Fprintf(&doc, "<TS version=\"2.1\" language=\"%s\">\n", languageCode+cc)
	doc.WriteString("\t<context>\n")
	fmt.Fprintf(&doc, "\t\t<name>%s</name>\n", escapeXMLText(qtContextName))
	for _, e := range b.entries {
		doc.WriteString("\t\t<message>\n")
		fmt.Fprintf(&doc, "\t\t\t<source>%s</source>\n", escapeXMLText(e.key))
		if e.comment != "" {
			fmt.Fprintf(&doc, "\t\t\t<comment>%s</comment>\n", escapeXMLText(e.comment))
		}
		fmt.Fprintf(&doc, "\t\t\t<translation>%s</translation>\n", escapeXMLText(e.value))
		doc.WriteString("\t\t</message>\n")
	}
	doc.WriteString("\t</context>\n")
	doc.WriteString("</TS>\n")

	name := fmt.Sprintf("%s_%s%s.tc", baseNames[PlatformQt], languageCode, cc)
	path := filepath.Join(outputRoot, "qt", name)
	return map[string]string{path: doc.String()}
}
