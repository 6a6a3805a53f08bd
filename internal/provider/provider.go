package provider

import (
	"context"

	"github.com/kapu/character-search-go/internal/domain"
)

// RawItem is one provider-native search hit before normalization. Exactly one
// of the provider payloads is set, matching Provider.
type RawItem struct {
	Provider domain.Provider
	Charhub  *CharhubNodeRaw
	Realm    *RealmItemRaw

	// Image holds the resolved card/avatar bytes when the provider supports
	// per-item resolution; nil when resolution failed or does not apply.
	Image []byte
}

// Adapter is one catalog backend. FetchRaw never surfaces transport or parse
// failures to the caller: any such failure is logged and yields an empty
// slice, so callers always have a valid (possibly empty) list.
type Adapter interface {
	Kind() domain.Provider
	FetchRaw(ctx context.Context, query domain.QuerySpec) []RawItem
}
