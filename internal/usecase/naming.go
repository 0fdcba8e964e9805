package usecase

import (
	"fmt"
	"strings"
	"unicode"
)

// OutputName is the artifact file name for the idx-th (0-based) selected problem.
func OutputName(idx int, slug string) string {
	return fmt.Sprintf("problem_%d_%s.mp4", idx+1, safeSlug(slug))
}

// safeSlug keeps provider slugs usable as a single path segment.
func safeSlug(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "problem"
	}
	return out
}
