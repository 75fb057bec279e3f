package normalize

import (
	"strings"

	"docverify/internal/documents"
)

// phone normalizes a raw phone value to E.164. A configured home country
// code is assumed when the number carries no country prefix.
func (n *Normalizer) phone(raw string) (string, error) {
	cleaned := correctConfusions(raw, classNumeric)
	digits := digitsOnly(cleaned)

	home := strings.TrimPrefix(n.opts.HomeCountryCode, "+")
	min := n.opts.MinPhoneDigits

	switch {
	case len(digits) < min:
		return "", newError(KindInvalidPhone, documents.FieldPhoneNumber, raw, "too few significant digits")
	case len(digits) == min:
		return "+" + home + digits, nil
	case len(digits) == min+1 && strings.HasPrefix(digits, "0"):
		// Domestic trunk prefix.
		return "+" + home + digits[1:], nil
	case strings.HasPrefix(digits, home) && len(digits) == min+len(home):
		return "+" + digits, nil
	case len(digits) <= 15:
		return "+" + digits, nil
	default:
		return "", newError(KindInvalidPhone, documents.FieldPhoneNumber, raw, "too many digits for E.164")
	}
}
