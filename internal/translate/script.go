package translate

import "unicode"

// ContainsHangul reports whether s holds at least one Hangul rune.
func ContainsHangul(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Hangul, r) {
			return true
		}
	}
	return false
}

// NeedsTranslation reports whether s should be submitted for translation
// into the Korean display script. Strings already carrying Hangul are left
// alone, as are empty strings and strings with no letters at all.
func NeedsTranslation(s string) bool {
	if s == "" || ContainsHangul(s) {
		return false
	}
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
