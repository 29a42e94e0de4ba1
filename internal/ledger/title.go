package ledger

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"soundrip/internal/fileutil"
)

// InferTitle derives a human-friendly display title from a source path:
// "holiday_trip-2024.mp4" becomes "Holiday Trip 2024".
func InferTitle(path string) string {
	stem := fileutil.Stem(path)
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '_', '-', '.':
			return ' '
		default:
			return r
		}
	}, stem)
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	if cleaned == "" {
		return stem
	}
	return cases.Title(language.Und).String(strings.ToLower(cleaned))
}
