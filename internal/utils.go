package internal

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// Version is the application version reported by the CLI and the HTTP server
const Version = "0.3.0"

// ContainsFold reports whether substr is within s, ignoring case.
// Diacritics are significant: "ł" does not match "l".
func ContainsFold(s, substr string) bool {
	// A Caser keeps state between calls, so each call gets its own.
	folder := cases.Fold()
	return strings.Contains(folder.String(s), folder.String(substr))
}

// RuneLen returns the number of characters in s
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}
