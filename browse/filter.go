// Package browse implements the public listing grid: diacritic-blind
// search, the body-type category filter, and fixed-size pagination over
// the in-memory catalog.
package browse

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"webbuses/models"
)

var foldChain = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases a string and strips combining marks, so "Ônibus"
// matches "onibus". Used on both haystack and needle.
func Fold(s string) string {
	out, _, err := transform.String(foldChain, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(out)
}

// matchesCategory is a loose substring test over the body-type family:
// the "micro" key matches "Micro-Ônibus" and friends.
func matchesCategory(l *models.Listing, foldedKey string) bool {
	return strings.Contains(Fold(l.Category), foldedKey)
}

// haystack concatenates the searchable fields of a listing.
func haystack(l *models.Listing) string {
	return strings.Join([]string{
		l.Category,
		l.BodyModel,
		l.ChassisModel,
		l.BodyMaker,
		l.ChassisMaker,
		l.City,
		l.State,
	}, " ")
}

// Apply filters a collection by an optional category key and an optional
// free-text query. Both are folded; they compose as an intersection, so
// the order they are applied in is irrelevant. Empty arguments are
// no-ops and the input slice is never mutated.
func Apply(items []models.Listing, category, query string) []models.Listing {
	out := items

	if category != "" {
		key := Fold(category)
		kept := make([]models.Listing, 0, len(out))
		for _, l := range out {
			if matchesCategory(&l, key) {
				kept = append(kept, l)
			}
		}
		out = kept
	}

	if query != "" {
		needle := Fold(query)
		kept := make([]models.Listing, 0, len(out))
		for _, l := range out {
			if strings.Contains(Fold(haystack(&l)), needle) {
				kept = append(kept, l)
			}
		}
		out = kept
	}

	return out
}
