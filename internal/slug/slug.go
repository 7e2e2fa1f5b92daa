// Package slug derives URL-safe identifiers from display names and
// guarantees uniqueness within a caller-defined scope.
package slug

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// ErrEmpty is returned when nothing alphanumeric survives
	// normalization, e.g. a name made only of symbols.
	ErrEmpty = errors.New("slug: empty after normalization")
	// ErrExhausted is returned when the suffix search gives up.
	ErrExhausted = errors.New("slug: suffix attempts exhausted")
)

// nonAlphanumeric collapses any run of invalid characters into one hyphen.
var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// maxAttempts bounds the uniqueness suffix search.
const maxAttempts = 1000

// Make normalizes a display name into a slug: lowercase, diacritics
// stripped, non-alphanumeric runs replaced by single hyphens, no leading or
// trailing hyphen. "Crème Brûlée #1!" becomes "creme-brulee-1".
func Make(name string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(name))
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(fold, s); err == nil {
		s = folded
	}
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "", ErrEmpty
	}
	return s, nil
}

// Unique returns base if free, otherwise base-1, base-2, … until taken
// reports a free candidate. The search is bounded so a pathological scope
// cannot loop forever.
func Unique(base string, taken func(string) (bool, error)) (string, error) {
	candidate := base
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			candidate = fmt.Sprintf("%s-%d", base, i)
		}
		exists, err := taken(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", ErrExhausted
}
