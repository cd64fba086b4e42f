package normalize

import (
	"encoding/json"
	"regexp"
	"strings"

	"webbuses/models"
)

// NotInformed is the display label for listings with no mileage text.
const NotInformed = "Não informado"

var (
	kmToken  = regexp.MustCompile(`(?i)\bkm\b`)
	anyDigit = regexp.MustCompile(`\d`)
)

// flexString renders a JSON member that may be a string or a number as
// plain text. Objects/arrays yield "".
func flexString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// MileageLabel returns the advertiser's mileage text, checking the legacy
// field spellings newest first. The text is preserved verbatim — mileage
// was always a free-text field and advertisers use it that way ("48 mil
// km rodados"). The bool is false when no spelling has a value.
func MileageLabel(r *models.RawListing) (string, bool) {
	for _, raw := range []json.RawMessage{r.KilometragemAtual, r.Kilometragem, r.KM, r.Rodagem} {
		if s := strings.TrimSpace(flexString(raw)); s != "" {
			return s, true
		}
	}
	return "", false
}

// MileageFromMeta reads the mileage text out of a /meta projection.
func MileageFromMeta(m *models.ListingMeta) string {
	return strings.TrimSpace(flexString(m.Kilometragem))
}

// DisplayMileage formats a raw mileage label for cards and detail pages.
// Free text keeps the advertiser's wording; only the unit token is
// normalized, and digit-only values get one prefixed.
func DisplayMileage(label string) string {
	s := strings.TrimSpace(label)
	if s == "" {
		return NotInformed
	}
	if kmToken.MatchString(s) {
		return kmToken.ReplaceAllString(s, "KM")
	}
	if anyDigit.MatchString(s) {
		return "KM " + s
	}
	return s
}
