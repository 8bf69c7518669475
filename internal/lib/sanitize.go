package lib

import (
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// SanitizeText cleans a single-line text field coming from a form or JSON body:
// markup is stripped, line breaks and tabs become spaces, runs of whitespace
// collapse to one space and the result is trimmed.
func SanitizeText(s string) string {
	if s == "" {
		return ""
	}
	stripped := html.UnescapeString(strictPolicy.Sanitize(s))
	return strings.Join(strings.Fields(stripped), " ")
}

// EscapeLike escapes LIKE metacharacters so the input matches literally.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// Slugify lowercases s and joins its letter/digit runs with dashes.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
