// Package matcher implements whole-word keyword matching over article
// titles and descriptions. A keyword hits only when it is bounded by
// non-alphanumeric characters or string edges on both sides, so
// "ijazah" does not match inside "ijazahku". Multi-word phrases match
// as a contiguous literal with boundary checks at the phrase ends only.
package matcher

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const minKeywordLength = 2

var metaChars = regexp.MustCompile(`[.*+?^${}()|\[\]\\]`)

// FindMatchingKeywords returns the subset of keywords that occur in
// text as whole words, case-insensitively, preserving the input order.
// Empty text or an empty keyword set yields an empty result.
func FindMatchingKeywords(text string, keywords []string) []string {
	matched := []string{}
	if text == "" || len(keywords) == 0 {
		return matched
	}

	for _, keyword := range keywords {
		kw := strings.TrimSpace(keyword)
		if kw == "" {
			continue
		}
		if containsWholeWord(text, kw) {
			matched = append(matched, keyword)
		}
	}

	return matched
}

// HighlightKeywords wraps every whole-word occurrence of each keyword
// in asterisk emphasis markers. Keywords are applied independently, so
// overlapping spans may produce nested markers.
func HighlightKeywords(text string, keywords []string) string {
	return HighlightKeywordsWith(text, keywords, "*", "*")
}

// HighlightKeywordsWith is HighlightKeywords with caller-chosen opening
// and closing markers (e.g. HTML tags for the notification channel).
func HighlightKeywordsWith(text string, keywords []string, opening, closing string) string {
	if text == "" || len(keywords) == 0 {
		return text
	}

	for _, keyword := range keywords {
		kw := strings.TrimSpace(keyword)
		if kw == "" {
			continue
		}
		text = wrapOccurrences(text, kw, opening, closing)
	}

	return text
}

// ValidateKeywords checks a configured keyword list. Errors block
// startup; warnings are diagnostics only. Keywords containing spaces
// are valid phrase keywords, keywords containing regex metacharacters
// are escaped automatically and reported as warnings.
func ValidateKeywords(keywords []string) (errs, warns []string) {
	for i, keyword := range keywords {
		trimmed := strings.TrimSpace(keyword)
		if trimmed == "" {
			errs = append(errs, fmt.Sprintf("keyword #%d is empty", i+1))
			continue
		}
		if utf8.RuneCountInString(trimmed) < minKeywordLength {
			errs = append(errs, fmt.Sprintf("keyword %q is shorter than %d characters", trimmed, minKeywordLength))
		}
		if metaChars.MatchString(trimmed) {
			warns = append(warns, fmt.Sprintf("keyword %q contains regex special characters, matched literally", trimmed))
		}
	}
	return errs, warns
}

// literalPattern compiles the case-insensitive, regex-escaped keyword.
// Boundaries are verified per occurrence rather than inside the
// pattern, so a boundary rune shared by two adjacent occurrences is
// never consumed by the first match.
func literalPattern(keyword string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + regexp.QuoteMeta(strings.TrimSpace(keyword)))
}

func containsWholeWord(text, keyword string) bool {
	for _, loc := range literalPattern(keyword).FindAllStringIndex(text, -1) {
		if boundedAt(text, loc[0], loc[1]) {
			return true
		}
	}
	return false
}

// wrapOccurrences wraps every boundary-checked occurrence of keyword.
func wrapOccurrences(text, keyword, opening, closing string) string {
	locs := literalPattern(keyword).FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return text
	}

	var b strings.Builder
	last := 0
	for _, loc := range locs {
		if !boundedAt(text, loc[0], loc[1]) {
			continue
		}
		b.WriteString(text[last:loc[0]])
		b.WriteString(opening)
		b.WriteString(text[loc[0]:loc[1]])
		b.WriteString(closing)
		last = loc[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

// boundedAt reports whether the [start, end) span is delimited by
// non-alphanumeric runes or string edges on both sides.
func boundedAt(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
