package search

import (
	"github.com/kapu/character-search-go/internal/domain"
	"github.com/kapu/character-search-go/internal/util"
)

// Command is one discrete user interaction applied to the pending query.
type Command interface {
	apply(q *domain.QuerySpec)
}

// SearchCommand replaces the free-text search term and resets paging.
type SearchCommand struct {
	Term string
}

func (c SearchCommand) apply(q *domain.QuerySpec) {
	q.SearchTerm = c.Term
	q.Page = 1
}

// NextPageCommand advances to the next result page.
type NextPageCommand struct{}

func (NextPageCommand) apply(q *domain.QuerySpec) {
	q.Page++
}

// PrevPageCommand steps back one page, never below the first.
type PrevPageCommand struct{}

func (PrevPageCommand) apply(q *domain.QuerySpec) {
	q.Page = util.Max(q.Page-1, 1)
}

// ToggleTagCommand adds or removes a tag filter and resets paging. Value is
// the tag's original (untranslated) value; display text never matches.
type ToggleTagCommand struct {
	Value   string
	Exclude bool
}

func (c ToggleTagCommand) apply(q *domain.QuerySpec) {
	if c.Exclude {
		q.ExcludeTags = toggle(q.ExcludeTags, c.Value)
	} else {
		q.IncludeTags = toggle(q.IncludeTags, c.Value)
	}
	q.Page = 1
}

// ToggleNSFWCommand flips the NSFW-allowed flag and resets paging.
type ToggleNSFWCommand struct{}

func (ToggleNSFWCommand) apply(q *domain.QuerySpec) {
	q.AllowNSFW = !q.AllowNSFW
	q.Page = 1
}

// SetSortCommand changes the sort key and resets paging.
type SetSortCommand struct {
	Sort domain.SortKey
}

func (c SetSortCommand) apply(q *domain.QuerySpec) {
	q.Sort = c.Sort
	q.Page = 1
}

func toggle(tags []string, value string) []string {
	if util.Contains(tags, value) {
		result := make([]string, 0, len(tags)-1)
		for _, tag := range tags {
			if tag != value {
				result = append(result, tag)
			}
		}
		return result
	}
	return append(tags, value)
}
