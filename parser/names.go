package parser

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// nameSuffixes are generational suffixes that one source prints and the
// other drops.
var nameSuffixes = map[string]bool{
	"jr.": true,
	"jr":  true,
	"sr.": true,
	"sr":  true,
	"iii": true,
	"ii":  true,
}

// NormalizeName reduces a player name to a matching key: diacritics folded,
// trailing generational suffixes removed, dots dropped, whitespace collapsed,
// lower case.
func NormalizeName(name string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		name,
	)
	if err != nil {
		folded = name
	}

	fields := strings.Fields(strings.ToLower(folded))
	for len(fields) > 1 && nameSuffixes[fields[len(fields)-1]] {
		fields = fields[:len(fields)-1]
	}
	for i, f := range fields {
		fields[i] = strings.ReplaceAll(f, ".", "")
	}
	return strings.Join(fields, " ")
}
