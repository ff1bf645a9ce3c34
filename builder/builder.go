// Package builder implements the per-platform string resource builders.
//
// A Builder accumulates (key, value, comment) entries for one platform and
// one locale, then renders that platform's native artifact(s) as a map of
// output path -> file content. Builders are single-use: construct, feed,
// call Result once, discard.
//
// Supported platforms and their artifacts:
//   - android — res/values-xx/strings.xml
//   - ios     — xx.lproj/Localizable.strings
//   - wp      — LocalizedStrings.xx.resx
//   - bb      — LocalizedStrings.rrh / LocalizedStrings_xx.rrc pair
//   - qt      — strings_xx.tc (Qt linguist TS document)
package builder

import (
	"fmt"
	"regexp"
	"strings"
)

// Platform tags as they appear in the master file's platform column.
const (
	PlatformAndroid    = "android"
	PlatformApple      = "ios"
	PlatformWindows    = "wp"
	PlatformBlackberry = "bb"
	PlatformQt         = "qt"
	// PlatformAny expands to all supported platforms on the command line.
	PlatformAny = "any"
)

// SupportedPlatforms are the platforms selected by "any" and assumed for
// keys without an explicit platform spec. Qt output is produced only when
// requested explicitly.
var SupportedPlatforms = []string{PlatformAndroid, PlatformApple, PlatformWindows, PlatformBlackberry}

// DefaultBlackberryPackage is the Java package written into .rrh headers
// unless overridden.
const DefaultBlackberryPackage = "com.PGLtd.strings"

// baseNames maps platform tag to the artifact base file name.
var baseNames = map[string]string{
	PlatformAndroid:    "strings",
	PlatformApple:      "Localizable",
	PlatformWindows:    "LocalizedStrings",
	PlatformBlackberry: "LocalizedStrings",
	PlatformQt:         "strings",
}

// Builder accumulates strings for one platform and renders its artifacts.
type Builder interface {
	// Platform returns the platform tag this builder serves.
	Platform() string

	// AddString records one entry. comment may be empty.
	AddString(key, value, comment string)

	// Result renders the accumulated entries into output path -> content.
	// languageCode is mandatory, countryCode may be empty. Result is not
	// idempotent; call it at most once.
	Result(outputRoot, languageCode, countryCode string) map[string]string
}

// Options carries platform-specific construction parameters.
type Options struct {
	// BlackberryPackage is the Java package for .rrh headers.
	// Defaults to DefaultBlackberryPackage when empty.
	BlackberryPackage string
}

// New constructs the builder for a platform tag. Unknown tags are an error.
func New(platform string, opts Options) (Builder, error) {
	switch platform {
	case PlatformAndroid:
		return newAndroidBuilder(), nil
	case PlatformApple:
		return newIOSBuilder(), nil
	case PlatformWindows:
		return newResXBuilder(), nil
	case PlatformBlackberry:
		pkg := opts.BlackberryPackage
		if pkg == "" {
			pkg = DefaultBlackberryPackage
		}
		return newBlackberryBuilder(pkg), nil
	case PlatformQt:
		return newQtBuilder(), nil
	}
	return nil, fmt.Errorf("unsupported platform %q (supported: %s)",
		platform, strings.Join(SupportedPlatforms, ", "))
}

// entry is one accumulated string.
type entry struct {
	key     string
	value   string
	comment string
}

// ---------------------------------------------------------------------------
// Template placeholder rewriting
// ---------------------------------------------------------------------------

// placeholderRe matches generic template tokens like {name} or {first name}.
var placeholderRe = regexp.MustCompile(`\{[A-Za-z0-9_ ]+\}`)

// rewritePlaceholders converts generic {name} tokens into the platform's
// positional placeholder syntax. Distinct tokens are numbered in order of
// first appearance starting at 0; a repeated token reuses its first index.
// Numbering restarts for every value.
func rewritePlaceholders(value string, native func(index int) string) string {
	index := 0
	seen := make(map[string]bool)
	for _, token := range placeholderRe.FindAllString(value, -1) {
		if seen[token] {
			continue
		}
		seen[token] = true
		value = strings.ReplaceAll(value, token, native(index))
		index++
	}
	return value
}

// spaceToken is the literal escape sequence some translators type for a
// protected space; platforms that would render it verbatim replace it
// with a real space.
const spaceToken = `\u0020`

// ---------------------------------------------------------------------------
// XML helpers
// ---------------------------------------------------------------------------

// xmlHeader is the declaration emitted before every XML artifact.
const xmlHeader = "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n"

// escapeXMLText escapes a string for use as XML element text.
func escapeXMLText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// escapeXMLAttr escapes a string for use inside a double-quoted attribute.
func escapeXMLAttr(s string) string {
	s = escapeXMLText(s)
	return strings.ReplaceAll(s, `"`, "&quot;")
}
