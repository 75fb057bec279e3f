package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.Und)

// normalizeName trims and title-cases a free-text name. Single-letter tokens
// are rendered as initials. Names never fail normalization.
func normalizeName(raw string) string {
	cleaned := collapseWhitespace(raw)
	if cleaned == "" {
		return ""
	}

	parts := strings.Fields(cleaned)
	for i, part := range parts {
		if len(part) == 1 && unicode.IsLetter(rune(part[0])) {
			parts[i] = strings.ToUpper(part) + "."
			continue
		}
		parts[i] = titleCaser.String(strings.ToLower(part))
	}
	return strings.Join(parts, " ")
}
