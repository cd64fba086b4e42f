package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var moneyNoise = regexp.MustCompile(`[^\d,.\-]`)

// parseBRL turns a pt-BR formatted number ("R$ 1.250,50") into a float.
func parseBRL(s string) (float64, bool) {
	cleaned := moneyNoise.ReplaceAllString(s, "")
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// Amount converts a price that may be a number or a pt-BR formatted
// string into a float64. Unparsable input yields 0 so that sorting and
// totals stay total. Edit forms must use AmountOrRaw instead: clobbering
// whatever the advertiser typed with a zero is worse than echoing it.
func Amount(value interface{}) float64 {
	switch v := value.(type) {
	case nil:
		return 0
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		n, _ := parseBRL(v)
		return n
	case json.RawMessage:
		return amountFromRaw(v)
	}
	return 0
}

// AmountOrRaw parses like Amount but reports failure instead of
// defaulting, so callers can keep the original user text.
func AmountOrRaw(value string) (float64, bool) {
	return parseBRL(value)
}

// amountFromRaw handles the JSON-level polymorphism: number or string.
func amountFromRaw(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		v, _ := parseBRL(s)
		return v
	}
	return 0
}

// FormatBRL renders a value with Brazilian currency conventions:
// thousands dot, decimal comma, R$ prefix.
func FormatBRL(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}

	whole := int64(v)
	cents := int64(math.Round((v - float64(whole)) * 100))
	if cents == 100 {
		whole++
		cents = 0
	}

	digits := strconv.FormatInt(whole, 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("R$ %s%s,%02d", sign, b.String(), cents)
}
