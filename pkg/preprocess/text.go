// Package preprocess turns raw records into cleaned records and cleaned
// records into embedded documents, dispatching on content category.
package preprocess

import (
	"regexp"
	"strings"
)

var (
	// Word characters are Unicode letters, digits, marks and underscore so
	// Japanese descriptions survive cleaning.
	disallowed = regexp.MustCompile(`[^\p{L}\p{N}\p{M}_\s\p{Z}.,!?]`)
	whitespace = regexp.MustCompile(`[\s\p{Z}]+`)
)

// CleanText replaces every character outside word characters, whitespace
// and . , ! ? with a space, collapses whitespace runs to a single space and
// trims the result.
func CleanText(text string) string {
	text = disallowed.ReplaceAllString(text, " ")
	text = whitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
