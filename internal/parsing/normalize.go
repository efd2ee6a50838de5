// Package parsing recovers personal details, keywords and sections from
// résumé plain text. Every function here is pure: misses come back as zero
// values, never as errors.
package parsing

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	markupSpan     = regexp.MustCompile(`<[^>]*>`)
	whitespaceRuns = regexp.MustCompile(`\s+`)
)

// Normalize trims text and removes <...> markup spans. Entities are left
// alone and no Unicode normalization is applied.
func Normalize(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	return strings.TrimSpace(markupSpan.ReplaceAllString(text, ""))
}

// CollapseWhitespace replaces every whitespace run with a single space and trims.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRuns.ReplaceAllString(s, " "))
}

// Truncate cuts s to at most max runes.
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}

// TitleCase upper-cases the first letter of each space-separated word and
// lower-cases the rest.
func TitleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// nonEmptyLines returns up to limit trimmed, non-empty lines. A limit <= 0
// returns all of them.
func nonEmptyLines(text string, limit int) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// containsTerm reports whether term occurs in lowerText bounded on both sides
// by a non-alphanumeric rune or the text edge. Both arguments must already
// be lower-cased.
func containsTerm(lowerText, term string) bool {
	if term == "" {
		return false
	}
	offset := 0
	for {
		idx := strings.Index(lowerText[offset:], term)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(term)
		if boundaryBefore(lowerText, start) && boundaryAfter(lowerText, end) {
			return true
		}
		offset = start + 1
		if offset >= len(lowerText) {
			return false
		}
	}
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
