package ingestion

import (
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxWords int
		want     string
	}{
		{"simple", "User ran a 5K", 5, "user-ran-a-5k"},
		{"truncated to max words", "I want to run a marathon next spring", 5, "i-want-to-run-a"},
		{"punctuation stripped", "It's done, finally!", 5, "its-done-finally"},
		{"all punctuation dropped", "?!? ... !!!", 5, ""},
		{"empty input", "", 5, ""},
		{"extra whitespace collapsed", "  hello   world  ", 5, "hello-world"},
		{"zero max keeps everything", "one two three four five six", 0, "one-two-three-four-five-six"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.text, tt.maxWords))
		})
	}
}

func TestSlugify_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.String().Draw(t, "text")
		maxWords := rapid.IntRange(0, 10).Draw(t, "maxWords")

		slug := Slugify(text, maxWords)

		for _, r := range slug {
			if r == '-' {
				continue
			}
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				t.Fatalf("slug %q contains %q", slug, r)
			}
			if unicode.IsUpper(r) {
				t.Fatalf("slug %q contains upper-case %q", slug, r)
			}
		}

		if maxWords > 0 && slug != "" {
			if got := len(strings.Split(slug, "-")); got > maxWords {
				t.Fatalf("slug %q has %d words, max %d", slug, got, maxWords)
			}
		}
	})
}
