package normalize

import (
	"regexp"
	"strings"
)

var (
	// "3. Give way", "A. Stop": one hex digit, a period and a space.
	// A single trailing newline still counts as the end of the phrase.
	prefixPattern = regexp.MustCompile(`^([0-9A-F]\.\s)([^\n]*)\n?$`)
	codePattern   = regexp.MustCompile(`([A-Z])\s*-\s*(\d+[a-z]?)`)
	spacePattern  = regexp.MustCompile(`\s+`)
)

// SplitPrefix separates a numbered-list prefix from the rest of raw.
// The prefix keeps its trailing space; text is trimmed.
func SplitPrefix(raw string) (prefix, text string) {
	if m := prefixPattern.FindStringSubmatch(raw); m != nil {
		return m[1], strings.TrimSpace(m[2])
	}
	return "", strings.TrimSpace(raw)
}

// CollapseAndFixCodes rewrites codes like "B - 123a" to "B-123a", collapses
// whitespace runs to a single space and trims the result.
func CollapseAndFixCodes(text string) string {
	text = codePattern.ReplaceAllString(text, "${1}-${2}")
	return strings.TrimSpace(spacePattern.ReplaceAllString(text, " "))
}

// Normalize applies SplitPrefix and then CollapseAndFixCodes to the text part.
func Normalize(raw string) (prefix, text string) {
	prefix, text = SplitPrefix(raw)
	return prefix, CollapseAndFixCodes(text)
}

// CacheKey returns the form under which a phrase is stored: trimmed, with
// trailing periods removed, and trimmed again. "Stop." and "Stop" share a key.
func CacheKey(phrase string) string {
	return strings.TrimSpace(strings.TrimRight(strings.TrimSpace(phrase), "."))
}
