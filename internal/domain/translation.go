package domain

// TranslationMap maps source strings to their translations for one batch.
// The map is total over its input set: a failed or omitted entry falls back
// to the source string itself.
type TranslationMap map[string]string

// IdentityMap returns a map where every text translates to itself.
func IdentityMap(texts []string) TranslationMap {
	m := make(TranslationMap, len(texts))
	for _, t := range texts {
		m[t] = t
	}
	return m
}

// Get returns the translation for s, falling back to s itself so lookups are
// always total even for strings that were never submitted.
func (m TranslationMap) Get(s string) string {
	if v, ok := m[s]; ok && v != "" {
		return v
	}
	return s
}
