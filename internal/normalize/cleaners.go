package normalize

import (
	"regexp"
	"strings"
)

// charClass hints which OCR confusion corrections apply to a value.
type charClass int

const (
	classAlphanumeric charClass = iota
	classNumeric
	classAlpha
)

// OCR engines routinely confuse visually similar glyphs. The numeric map
// coerces letters into the digits they were misread from; the alpha map is
// the reverse direction.
var numericConfusions = strings.NewReplacer(
	"O", "0", "o", "0",
	"S", "5", "s", "5",
	"I", "1", "l", "1",
	"B", "8", "Z", "2",
	" ", "",
)

var alphaConfusions = strings.NewReplacer(
	"0", "O",
	"5", "S",
	"1", "I",
	"8", "B",
	"2", "Z",
)

var alphanumericConfusions = strings.NewReplacer(
	"O", "0",
	"l", "1",
	"I", "1",
)

func correctConfusions(text string, class charClass) string {
	if text == "" {
		return text
	}
	switch class {
	case classNumeric:
		return numericConfusions.Replace(text)
	case classAlpha:
		return alphaConfusions.Replace(text)
	default:
		return alphanumericConfusions.Replace(text)
	}
}

var whitespaceRe = regexp.MustCompile(`\s+`)

func collapseWhitespace(text string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

var nonDigitRe = regexp.MustCompile(`\D`)

func digitsOnly(text string) string {
	return nonDigitRe.ReplaceAllString(text, "")
}
