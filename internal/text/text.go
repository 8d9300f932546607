// Package text provides tokenization and title derivation for note content.
package text

import (
	"regexp"
	"strings"
)

// UntitledPlaceholder is the title assigned to notes with empty content.
const UntitledPlaceholder = "Untitled Note"

const (
	titleMaxLen    = 50
	titleMaxWords  = 8
	minTermLength  = 3
	ellipsisMarker = "..."
)

var wordRe = regexp.MustCompile(`\w+`)

// Tokenize lower-cases text and extracts maximal runs of word characters
// (letters, digits, underscore) as terms. Terms shorter than three
// characters are discarded.
func Tokenize(text string) []string {
	matches := wordRe.FindAllString(strings.ToLower(text), -1)
	terms := matches[:0]
	for _, m := range matches {
		if len(m) >= minTermLength {
			terms = append(terms, m)
		}
	}
	return terms
}

// QueryTerms splits a query string on whitespace and lower-cases each term.
// Sub-length terms are dropped the same way Tokenize drops them, so a query
// of only short words yields no scorable terms. Repeated terms are kept:
// each instance scores separately.
func QueryTerms(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	terms := fields[:0]
	for _, f := range fields {
		if len(f) >= minTermLength {
			terms = append(terms, f)
		}
	}
	return terms
}

// DeriveTitle produces a display title from raw content. When a line break
// delimits a non-empty first line, that line is used, truncated at 50
// characters with an ellipsis marker. Otherwise the first 8 whitespace
// separated words are used, with the marker appended if words were dropped.
// Empty content yields a fixed placeholder.
func DeriveTitle(content string) string {
	if strings.TrimSpace(content) == "" {
		return UntitledPlaceholder
	}

	if i := strings.IndexByte(content, '\n'); i >= 0 {
		if line := strings.TrimSpace(content[:i]); line != "" {
			// Truncation counts characters, not bytes, so multibyte
			// first lines are not cut short or split mid-rune.
			if runes := []rune(line); len(runes) > titleMaxLen {
				return string(runes[:titleMaxLen]) + ellipsisMarker
			}
			return line
		}
	}

	words := strings.Fields(content)
	if len(words) > titleMaxWords {
		return strings.Join(words[:titleMaxWords], " ") + ellipsisMarker
	}
	return strings.Join(words, " ")
}
