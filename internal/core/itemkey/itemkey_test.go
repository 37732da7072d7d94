package itemkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want Key
	}{
		{"already normalized", "math book", "math book"},
		{"mixed case", "Math Book", "math book"},
		{"surrounding whitespace", "  Math Book  ", "math book"},
		{"inner whitespace collapsed", "Math \t  Book", "math book"},
		{"empty", "", ""},
		{"only whitespace", "   \t ", ""},
		{"tabs and newlines", "Science\nNote\tBook", "science note book"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

func TestNormalize_MatchesAcrossSpellings(t *testing.T) {
	// The same physical item recorded by different operators.
	spellings := []string{"MATH BOOK", " math book", "Math  Book ", "math BOOK"}
	want := Normalize("Math Book")
	for _, s := range spellings {
		assert.Equal(t, want, Normalize(s), "spelling %q", s)
	}
}

func TestKey_IsEmpty(t *testing.T) {
	assert.True(t, Normalize("  ").IsEmpty())
	assert.False(t, Normalize("Pencil").IsEmpty())
}
