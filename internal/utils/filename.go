package utils

import (
	"regexp"
	"strings"
)

var (
	// Characters invalid in filenames on most filesystems
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	// Whitespace characters to normalize
	whitespaceChars = regexp.MustCompile(`[\r\n\t]`)
	// Multiple spaces to collapse
	multipleSpaces = regexp.MustCompile(`\s+`)
)

// SanitizeFilename cleans a client-supplied filename so it is safe to use
// on disk: path separators and other invalid characters are stripped,
// whitespace is normalized and the length is capped.
func SanitizeFilename(filename string) string {
	// Remove invalid filename characters
	filename = invalidFilenameChars.ReplaceAllString(filename, "")

	// Replace newlines/tabs with spaces
	filename = whitespaceChars.ReplaceAllString(filename, " ")

	// Collapse multiple spaces
	filename = multipleSpaces.ReplaceAllString(filename, " ")

	// Trim whitespace
	filename = strings.TrimSpace(filename)

	// Hidden-file and parent-dir prefixes are meaningless for uploads
	filename = strings.TrimLeft(filename, ".")

	// Limit length (most filesystems support 255, but leave room for extension)
	if len(filename) > 200 {
		filename = strings.TrimSpace(filename[:200])
	}

	// Ensure it's not empty
	if filename == "" {
		filename = "untitled"
	}

	return filename
}
