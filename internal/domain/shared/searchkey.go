package shared

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SearchKey folds accents and case so that "PIÑA Ácida" and "pina acida"
// compare equal. Parts are joined with a single space.
func SearchKey(parts ...string) string {
	joined := strings.Join(parts, " ")
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, joined)
	if err != nil {
		folded = joined
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}
