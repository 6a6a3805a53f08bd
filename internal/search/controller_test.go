package search

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/kapu/character-search-go/internal/domain"
	"github.com/kapu/character-search-go/internal/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// slowFirstAdapter blocks its first FetchRaw until released, so a test can
// overlap an old in-flight search with a newer one.
type slowFirstAdapter struct {
	mu           sync.Mutex
	calls        int
	firstStarted chan struct{}
	firstRelease chan struct{}
}

func (a *slowFirstAdapter) Kind() domain.Provider { return domain.ProviderCharhub }

func (a *slowFirstAdapter) FetchRaw(_ context.Context, _ domain.QuerySpec) []provider.RawItem {
	a.mu.Lock()
	a.calls++
	call := a.calls
	a.mu.Unlock()

	if call == 1 {
		close(a.firstStarted)
		<-a.firstRelease
		return []provider.RawItem{charhubItem("u/old", "Old")}
	}
	return []provider.RawItem{charhubItem("u/new", "New")}
}

func newTestController(t *testing.T, adapter provider.Adapter, quiet time.Duration) *Controller {
	t.Helper()

	orchestrator := newTestOrchestrator(t, adapter, &fakeBatchTranslator{}, &fakeTextTranslator{})
	return NewController(orchestrator, NewDebouncer(quiet), domain.QuerySpec{Page: 1}, zap.NewNop())
}

func TestControllerDiscardsStaleResult(t *testing.T) {
	adapter := &slowFirstAdapter{
		firstStarted: make(chan struct{}),
		firstRelease: make(chan struct{}),
	}
	controller := newTestController(t, adapter, time.Millisecond)
	defer controller.Close()

	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		controller.SearchNow(ctx)
		close(done)
	}()

	<-adapter.firstStarted

	// A newer search completes while the first is still in flight.
	newer := controller.SearchNow(ctx)
	require.Len(t, newer, 1)
	assert.Equal(t, "New", newer[0].Name)

	close(adapter.firstRelease)
	<-done

	// The stale first result must not have overwritten the newer one.
	results := controller.Results()
	require.Len(t, results, 1)
	assert.Equal(t, "New", results[0].Name)
}

func TestControllerSubmitCoalescesCommands(t *testing.T) {
	adapter := &fakeAdapter{kind: domain.ProviderCharhub}
	controller := newTestController(t, adapter, 30*time.Millisecond)
	defer controller.Close()

	ctx := context.Background()
	controller.Submit(ctx, SearchCommand{Term: "aria"})
	controller.Submit(ctx, ToggleTagCommand{Value: "romance"})
	controller.Submit(ctx, NextPageCommand{})
	controller.Submit(ctx, NextPageCommand{})

	time.Sleep(120 * time.Millisecond)

	adapter.mu.Lock()
	defer adapter.mu.Unlock()
	assert.Equal(t, 1, adapter.calls)
	assert.Equal(t, "aria", adapter.lastQuery.SearchTerm)
	assert.Equal(t, []string{"romance"}, adapter.lastQuery.IncludeTags)
	assert.Equal(t, 3, adapter.lastQuery.Page)
}

func TestControllerOnUpdate(t *testing.T) {
	adapter := &fakeAdapter{
		kind:  domain.ProviderCharhub,
		items: []provider.RawItem{charhubItem("u/aria", "Aria")},
	}
	controller := newTestController(t, adapter, time.Millisecond)
	defer controller.Close()

	var got []*domain.CharacterRecord
	updated := make(chan struct{}, 1)
	controller.OnUpdate(func(records []*domain.CharacterRecord) {
		got = records
		updated <- struct{}{}
	})

	controller.SearchNow(context.Background())

	select {
	case <-updated:
	case <-time.After(time.Second):
		t.Fatal("update callback never fired")
	}
	require.Len(t, got, 1)
	assert.Equal(t, "Aria", got[0].Name)
}

func TestCommandSemantics(t *testing.T) {
	q := domain.QuerySpec{Page: 5, IncludeTags: []string{"romance"}}

	ToggleTagCommand{Value: "romance"}.apply(&q)
	assert.Empty(t, q.IncludeTags)
	assert.Equal(t, 1, q.Page)

	ToggleTagCommand{Value: "comedy", Exclude: true}.apply(&q)
	assert.Equal(t, []string{"comedy"}, q.ExcludeTags)

	PrevPageCommand{}.apply(&q)
	assert.Equal(t, 1, q.Page)

	NextPageCommand{}.apply(&q)
	assert.Equal(t, 2, q.Page)

	ToggleNSFWCommand{}.apply(&q)
	assert.True(t, q.AllowNSFW)
	assert.Equal(t, 1, q.Page)

	SetSortCommand{Sort: domain.SortRating}.apply(&q)
	assert.Equal(t, domain.SortRating, q.Sort)
}
