package domain

import "strings"

// Provider identifies a character catalog backend.
type Provider string

const (
	ProviderCharhub Provider = "charhub"
	ProviderRealm   Provider = "realm"
)

// SortKey is a provider-specific result ordering.
type SortKey string

const (
	SortDefault       SortKey = "default"
	SortDownloadCount SortKey = "download_count"
	SortRating        SortKey = "rating"
	SortCreatedAt     SortKey = "created_at"
	SortName          SortKey = "name"
	SortTokenCount    SortKey = "n_tokens"
	SortRandom        SortKey = "random"
)

var charhubSortKeys = []SortKey{
	SortDefault, SortDownloadCount, SortRating, SortCreatedAt,
	SortName, SortTokenCount, SortRandom,
}

var realmSortKeys = []SortKey{
	SortDefault, SortDownloadCount, SortCreatedAt, SortName,
}

// SortKeys returns the orderings the provider understands.
func (p Provider) SortKeys() []SortKey {
	switch p {
	case ProviderRealm:
		return realmSortKeys
	default:
		return charhubSortKeys
	}
}

// SupportsSort reports whether the provider accepts the given sort key.
func (p Provider) SupportsSort(key SortKey) bool {
	for _, k := range p.SortKeys() {
		if k == key {
			return true
		}
	}
	return false
}

// QuerySpec describes one search request. It is built per user action and
// discarded after use.
type QuerySpec struct {
	SearchTerm  string
	IncludeTags []string
	ExcludeTags []string
	AllowNSFW   bool
	Sort        SortKey
	Page        int
	PageSize    int
}

// Normalized returns a copy with trimmed tags, empty entries removed and the
// page clamped to >= 1.
func (q QuerySpec) Normalized() QuerySpec {
	out := q
	out.SearchTerm = strings.TrimSpace(q.SearchTerm)
	out.IncludeTags = cleanTags(q.IncludeTags)
	out.ExcludeTags = cleanTags(q.ExcludeTags)
	if out.Page < 1 {
		out.Page = 1
	}
	if out.Sort == "" {
		out.Sort = SortDefault
	}
	return out
}

func cleanTags(tags []string) []string {
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
