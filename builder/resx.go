package builder

import (
	"fmt"
	"path/filepath"
	"strings"
)

// resxBuilder renders a Windows .resx resource document.
// https://learn.microsoft.com/en-us/dotnet/framework/resources/working-with-resx-files-programmatically
//
// Generic {name} placeholders become .NET positional placeholders {0},
// {1}, … numbered by first appearance.
type resxBuilder struct {
	entries []entry
}

func newResXBuilder() *resxBuilder { return &resxBuilder{} }

func (b *resxBuilder) Platform() string { return PlatformWindows }

// resheaders is the fixed 4-entry header block every .resx starts with.
// The internal XML schema block is deliberately omitted; ResXResourceReader
// accepts files without it.
var resheaders = [][2]string{
	{"resmimetype", "text/microsoft-resx"},
	{"version", "2.0"},
	{"reader", "System.Resources.ResXResourceReader, System.Windows.Forms, Version=4.0.0.0, Culture=neutral, PublicKeyToken=b77a5c561934e089"},
	{"writer", "System.Resources.ResXResourceWriter, System.Windows.Forms, Version=4.0.0.0, Culture=neutral, PublicKeyToken=b77a5c561934e089"},
}

func (b *resxBuilder) AddString(key, value, comment string) {
	value = rewritePlaceholders(value, func(i int) string { return fmt.Sprintf("{%d}", i) })
	value = strings.ReplaceAll(value, spaceToken, " ")

	b.entries = append(b.entries, entry{key: key, value: value, comment: comment})
}

func (b *resxBuilder) Result(outputRoot, languageCode, countryCode string) map[string]string {
	cc := countryCode
	if cc != "" {
		cc = "-" + cc
	}

	var doc strings.Builder
	doc.WriteString(xmlHeader)
	doc.WriteString("<root>\n")
	for _, h := range resheaders {
		fmt.Fprintf(&doc, "\t<resheader name=\"%s\">\n", h[0])
		fmt.Fprintf(&doc, "\t\t<value>%s</value>\n", escapeXMLText(h[1]))
		doc.WriteString("\t</resheader>\n")
	}
	for _, e := range b.entries {
		fmt.Fprintf(&doc, "\t<data name=\"%s\" xml:space=\"preserve\">\n", escapeXMLAttr(e.key))
		fmt.Fprintf(&doc, "\t\t<value>%s</value>\n", escapeXMLText(e.value))
		if e.comment != "" {
			fmt.Fprintf(&doc, "\t\t<comment>%s</comment>\n", escapeXMLText(e.comment))
		}
		doc.WriteString("\t</data>\n")
	}
	doc.WriteString("</root>\n")

	name := fmt.Sprintf("%s.%s%s.resx", baseNames[PlatformWindows], languageCode, cc)
	path := filepath.Join(outputRoot, "wp", name)
	return map[string]string{path: doc.String()}
}
