package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Normalize flattens raw submitted text into a single line: newlines
// become spaces, whitespace runs collapse to one space, and the result
// is trimmed.
func Normalize(raw string) string {
	text := strings.ReplaceAll(raw, "\n", " ")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
