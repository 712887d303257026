package ingestion

import (
	"strings"
	"unicode"
)

// Slugify derives a semantic slug from proposition text: lowercase, first
// maxWords words, non-alphanumeric runes stripped, hyphen-joined. An empty
// result is tolerated (all-punctuation input).
func Slugify(text string, maxWords int) string {
	words := strings.Fields(strings.ToLower(text))
	if maxWords > 0 && len(words) > maxWords {
		words = words[:maxWords]
	}

	kept := make([]string, 0, len(words))
	for _, w := range words {
		var b strings.Builder
		for _, r := range w {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				b.WriteRune(r)
			}
		}
		if b.Len() > 0 {
			kept = append(kept, b.String())
		}
	}
	return strings.Join(kept, "-")
}
