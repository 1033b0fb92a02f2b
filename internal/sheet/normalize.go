package sheet

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	stripMarks   = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	nonAlnumRE   = regexp.MustCompile(`[^a-z0-9 ]+`)
	whitespaceRE = regexp.MustCompile(`\s+`)
	titleCaser   = cases.Title(language.Und)
)

// NormalizeHeader canonicalizes a raw header string: diacritics stripped,
// everything but letters, digits and spaces dropped, whitespace collapsed,
// lowercased. Deterministic; never fails.
func NormalizeHeader(header string) string {
	s, _, err := transform.String(stripMarks, header)
	if err != nil {
		// Non-transformable input keeps its original bytes.
		s = header
	}
	s = strings.ToLower(s)
	s = nonAlnumRE.ReplaceAllString(s, " ")
	s = whitespaceRE.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// TitleFallback renders an unrecognized header as a readable field name.
func TitleFallback(header string) string {
	return titleCaser.String(NormalizeHeader(header))
}
