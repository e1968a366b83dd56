// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
//
// Two normalization strategies exist side by side. Normalize serves the order
// and cart flows; SanitizeProspect serves the prospecting flow. They differ on
// fallback behavior and must not be merged.
package phone

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultCountryCode is the domestic dialing prefix applied to local numbers.
const DefaultCountryCode = "+237"

var (
	e164Pattern          = regexp.MustCompile(`^\+([1-9]{1,3})(\d{4,14})$`)
	localMobilePattern   = regexp.MustCompile(`^6\d{8}$`)
	doubleZeroPattern    = regexp.MustCompile(`^00\d{6,15}$`)
	bareIntlPattern      = regexp.MustCompile(`^[1-9]\d{5,14}$`)
	cleanupPattern       = regexp.MustCompile(`[\s\-()]`)
	prospectStripPattern = regexp.MustCompile(`[^\d+]`)
)

// Normalizer applies the order/cart normalization with a configurable
// default country code.
type Normalizer struct {
	countryCode string
}

// NewNormalizer returns a Normalizer. An empty code falls back to DefaultCountryCode.
func NewNormalizer(countryCode string) Normalizer {
	if strings.TrimSpace(countryCode) == "" {
		countryCode = DefaultCountryCode
	}
	return Normalizer{countryCode: countryCode}
}

// Normalize is Normalizer.Normalize with the domestic default country code.
func Normalize(raw string) string {
	return NewNormalizer(DefaultCountryCode).Normalize(raw)
}

// Normalize turns a raw contact string into a dialable number. It never fails;
// the result is best-effort and may still not be valid E.164, so callers must
// re-check with IsE164 or the gateway before relying on it.
func (n Normalizer) Normalize(raw string) string {
	number := cleanupPattern.ReplaceAllString(raw, "")

	if e164Pattern.MatchString(number) {
		return number
	}

	if localMobilePattern.MatchString(number) {
		return n.countryCode + number
	}

	if doubleZeroPattern.MatchString(number) {
		return "+" + number[2:]
	}

	if bareIntlPattern.MatchString(number) {
		return "+" + number
	}

	return n.countryCode + strings.TrimLeft(number, "0")
}

// SanitizeProspect is the prospecting-flow normalizer: it drops every character
// other than digits and '+', then prefixes the default country code unless the
// result already contains it. No other reformatting happens.
func SanitizeProspect(raw string) string {
	number := prospectStripPattern.ReplaceAllString(raw, "")
	if !strings.Contains(number, DefaultCountryCode) {
		number = DefaultCountryCode + number
	}
	return number
}

// IsE164 reports whether number has the +<country><subscriber> shape.
func IsE164(number string) bool {
	return e164Pattern.MatchString(number)
}

// Display formats a canonical number for humans, e.g. "+237 6 99 51 24 38".
// Numbers the metadata library cannot parse are returned unchanged.
func Display(number string) string {
	trimmed := strings.TrimSpace(number)
	if trimmed == "" {
		return trimmed
	}

	parsed, err := phonenumbers.Parse(trimmed, "")
	if err != nil {
		return trimmed
	}

	if !phonenumbers.IsPossibleNumber(parsed) {
		return trimmed
	}

	return phonenumbers.Format(parsed, phonenumbers.INTERNATIONAL)
}
