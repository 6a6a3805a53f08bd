package util

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// TruncateString truncates a string to maxRunes characters (rune-based, not byte-based)
// If truncated, appends "..." to the result
func TruncateString(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + "..."
}

// Normalize performs basic string normalization (lowercase + trim)
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeTag normalizes a tag value for de-duplication. NFC so that
// composed and decomposed forms of the same tag collapse; case is preserved
// because tag identity is case-sensitive.
func NormalizeTag(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// JoinWithBudget joins items with sep, dropping trailing items once the
// joined string would exceed budget runes. The first item is always kept,
// truncated if it alone exceeds the budget.
func JoinWithBudget(items []string, sep string, budget int) string {
	if len(items) == 0 {
		return ""
	}

	var builder strings.Builder
	used := 0
	for i, item := range items {
		candidate := item
		if i > 0 {
			candidate = sep + item
		}
		candidateLen := len([]rune(candidate))
		if used+candidateLen > budget {
			if i == 0 {
				runes := []rune(item)
				if len(runes) > budget {
					runes = runes[:budget]
				}
				return string(runes)
			}
			break
		}
		builder.WriteString(candidate)
		used += candidateLen
	}
	return builder.String()
}

// Contains checks if a string slice contains a specific item
func Contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// CollapseWhitespace squashes runs of whitespace (including newlines) into
// single spaces and trims the ends.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
