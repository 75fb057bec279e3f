package normalize

import (
	"regexp"
	"strings"
	"time"
	"unicode"
)

// Layouts are ordered: unambiguous ISO and four-digit-year forms first,
// two-digit-year fallbacks last. Day-first ordering matches the source
// documents this system ingests.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2/1/2006",
	"2-1-2006",
	"2.1.2006",
	"2 January 2006",
	"January 2 2006",
	"2 Jan 2006",
	"Jan 2 2006",
	"2-Jan-2006",
	"2-January-2006",
	"2/1/06",
	"2-1-06",
	"2 Jan 06",
}

var ordinalRe = regexp.MustCompile(`(?i)(\d{1,2})(st|nd|rd|th)\b`)

// parseDate attempts every supported source format and returns the parsed
// calendar date. Impossible dates (day 32, Feb 30) are rejected by the
// layout parser itself.
func parseDate(raw string) (time.Time, bool) {
	cleaned := collapseWhitespace(strings.ReplaceAll(raw, ",", " "))
	cleaned = ordinalRe.ReplaceAllString(cleaned, "$1")
	cleaned = titleCaseWords(cleaned)

	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, cleaned)
		if err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// titleCaseWords capitalizes alphabetic tokens so month names match the
// case the layout parser expects, regardless of OCR casing.
func titleCaseWords(text string) string {
	words := strings.Fields(text)
	for i, word := range words {
		runes := []rune(strings.ToLower(word))
		for j, r := range runes {
			if unicode.IsLetter(r) {
				runes[j] = unicode.ToUpper(r)
				break
			}
		}
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// CanonicalDateFormat is the ISO-8601 calendar date form every normalized
// date is rendered in.
const CanonicalDateFormat = "2006-01-02"
