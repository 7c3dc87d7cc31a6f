package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain name", "cover.jpg", "cover.jpg"},
		{"path separators stripped", "../../etc/passwd", "etcpasswd"},
		{"windows separators stripped", `covers\evil.jpg`, "coversevil.jpg"},
		{"invalid characters removed", `co<ver>:"na|me?*.png`, "covername.png"},
		{"whitespace normalized", "my\tcover\nimage.jpg", "my cover image.jpg"},
		{"multiple spaces collapsed", "a    b.png", "a b.png"},
		{"leading dots stripped", "..hidden.jpg", "hidden.jpg"},
		{"empty becomes untitled", "///", "untitled"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, SanitizeFilename(tc.input))
		})
	}
}

func TestSanitizeFilename_CapsLength(t *testing.T) {
	long := strings.Repeat("a", 300) + ".jpg"
	result := SanitizeFilename(long)
	assert.LessOrEqual(t, len(result), 200)
}
