package textwidth

import (
	"strings"

	"golang.org/x/text/width"
)

// Width returns the number of terminal cells s occupies. Runes whose
// Unicode East Asian Width property is Wide or Fullwidth count as 2,
// everything else (narrow, ambiguous, neutral) counts as 1.
func Width(s string) int {
	total := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			total += 2
		default:
			total += 1
		}
	}
	return total
}

// Pad appends spaces to s until it occupies target cells. A string already
// at or past the target width is returned unchanged, never truncated.
func Pad(s string, target int) string {
	padding := target - Width(s)
	if padding <= 0 {
		return s
	}
	return s + strings.Repeat(" ", padding)
}
