package normalize

import (
	"regexp"
	"strings"

	"docverify/internal/documents"
)

var (
	emailRe  = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)
	dotRunRe = regexp.MustCompile(`\.{2,}`)
)

// Frequent OCR misreads of common mail domains.
var emailDomainCorrections = strings.NewReplacer(
	"gma1l.", "gmail.",
	"gmai1.", "gmail.",
	"yah0o.", "yahoo.",
	"yaho0.", "yahoo.",
	"hotma1l.", "hotmail.",
	"out1ook.", "outlook.",
)

func normalizeEmail(raw string) (string, error) {
	cleaned := strings.ToLower(collapseWhitespace(raw))
	// Spaces inside an address are almost always misread dots.
	cleaned = strings.ReplaceAll(cleaned, " ", ".")
	cleaned = dotRunRe.ReplaceAllString(cleaned, ".")
	cleaned = emailDomainCorrections.Replace(cleaned)

	if !emailRe.MatchString(cleaned) {
		return "", newError(KindInvalidEmail, documents.FieldEmail, raw, "does not match address grammar")
	}
	return cleaned, nil
}
