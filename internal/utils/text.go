package utils

import (
	"strings"
	"unicode/utf8"
)

// Truncate shortens text to at most maxChars runes, ending in "..." when cut
func Truncate(text string, maxChars int) string {
	if maxChars <= 0 || utf8.RuneCountInString(text) <= maxChars {
		return text
	}
	if maxChars <= 3 {
		return strings.Repeat(".", maxChars)
	}
	r := []rune(text)
	return strings.TrimRight(string(r[:maxChars-3]), " ") + "..."
}

// ContainsAnyFold reports whether text contains any of the keywords, ignoring case
func ContainsAnyFold(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// BaseName returns the file name without directory and extension
func BaseName(filename string) string {
	name := filename
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndex(name, "."); i > 0 {
		name = name[:i]
	}
	return name
}
