package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var illegalNameRE = regexp.MustCompile(`[\\/:*?"<>|]`)

// SanitizeArchiveName makes name safe to use as a file name on common
// filesystems. Illegal characters become underscores, trailing dots and
// surrounding whitespace are trimmed, and an empty result falls back to
// "archive".
func SanitizeArchiveName(name string) string {
	sanitized := illegalNameRE.ReplaceAllString(name, "_")
	sanitized = strings.TrimRight(sanitized, ".")
	sanitized = strings.TrimSpace(sanitized)
	if sanitized == "" {
		return "archive"
	}
	return sanitized
}

// DisplayTitle turns a raw label or file stem into a human readable
// title. Separator runs become single spaces, other punctuation is
// dropped, and the result is title-cased. Empty input yields
// "Unknown Disc".
func DisplayTitle(raw string) string {
	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range raw {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	title := strings.TrimSpace(cleaned.String())
	if title == "" {
		return "Unknown Disc"
	}
	return cases.Title(language.Und).String(title)
}
