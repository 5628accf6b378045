package search

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Bounds on the sanitized term length, in characters.
const (
	MinTermLength = 4
	MaxTermLength = 200
)

// ErrTermLength reports a sanitized term outside the accepted length range.
var ErrTermLength = errors.New("search term must be between 4 and 200 characters")

// FormatTerm sanitizes a raw query string for use in an FTS5 match
// expression. Every character that is not a letter, a digit, a space or one
// of acceptedSpecials is removed, and runs of whitespace collapse to single
// spaces. Leading and trailing whitespace is stripped.
func FormatTerm(raw, acceptedSpecials string) string {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || strings.ContainsRune(acceptedSpecials, r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// ValidateTerm checks that a sanitized term is within the accepted length
// range. Lengths are counted in characters, not bytes, so diacritics do not
// shorten the allowance.
func ValidateTerm(term string) error {
	n := utf8.RuneCountInString(term)
	if n < MinTermLength || n > MaxTermLength {
		return ErrTermLength
	}
	return nil
}
