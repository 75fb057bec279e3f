package normalize

import (
	"regexp"
	"strings"
)

// Address is the component tuple a raw address string is segmented into.
// Segmentation is lossy and best-effort; address formats are not closed.
type Address struct {
	House      string
	Street     string
	City       string
	State      string
	PostalCode string
}

// Canonical renders the address in the lower-cased comparable form used for
// grouping and rule evidence.
func (a Address) Canonical() string {
	parts := make([]string, 0, 5)
	for _, part := range []string{a.House, a.Street, a.City, a.State, a.PostalCode} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, strings.ToLower(part))
		}
	}
	return strings.Join(parts, ", ")
}

var postalCodeRe = regexp.MustCompile(`\b[1-9][0-9]{5}\b`)

var houseNumberRe = regexp.MustCompile(`^(\d+[A-Za-z]?)\b`)

// segmentAddress tokenizes a raw address into components. It always
// succeeds; the caller applies the confidence penalty for the lossy parse.
func segmentAddress(raw string) Address {
	cleaned := collapseWhitespace(raw)
	if cleaned == "" {
		return Address{}
	}

	var addr Address
	if match := postalCodeRe.FindString(cleaned); match != "" {
		addr.PostalCode = match
		cleaned = collapseWhitespace(postalCodeRe.ReplaceAllString(cleaned, ""))
		cleaned = strings.Trim(cleaned, ", ")
	}

	parts := strings.Split(cleaned, ",")
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}

	switch {
	case len(parts) >= 3:
		addr.House, addr.Street = splitHouse(parts[0])
		addr.City = parts[1]
		addr.State = strings.Join(parts[2:], " ")
	case len(parts) == 2:
		addr.House, addr.Street = splitHouse(parts[0])
		addr.City = parts[1]
	default:
		addr.Street = parts[0]
	}
	return addr
}

func splitHouse(part string) (house, street string) {
	if match := houseNumberRe.FindString(part); match != "" {
		return match, strings.TrimSpace(strings.TrimPrefix(part, match))
	}
	return "", part
}
