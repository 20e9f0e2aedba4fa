// Package slug derives URL-safe organization slugs from display names.
package slug

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const (
	// MaxLength matches the organizations.slug column width.
	MaxLength = 100
	// maxBaseLength leaves room for a "-NNN" suffix.
	maxBaseLength = MaxLength - 10
	fallback      = "org"
)

// Make lower-cases name, folds accents to ASCII and joins words with single hyphens.
// "Acme, Inc." becomes "acme-inc"; a name with no usable characters becomes "org".
func Make(name string) string {
	var b strings.Builder
	pendingHyphen := false

	for _, r := range norm.NFKD.String(name) {
		switch {
		case r > unicode.MaxASCII:
			// combining marks and non-latin runes are dropped
			continue
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsSpace(r) || r == '-':
			pendingHyphen = true
		}
	}

	s := b.String()
	if len(s) > maxBaseLength {
		s = strings.TrimRight(s[:maxBaseLength], "-")
	}
	if s == "" {
		return fallback
	}
	return s
}

// Candidate returns the n-th slug to try for base: base itself, then base-1, base-2, ...
func Candidate(base string, n int) string {
	if n == 0 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, n)
}
