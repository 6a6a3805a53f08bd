package search

import (
	"context"
	"sync"
	"testing"

	"github.com/kapu/character-search-go/internal/domain"
	"github.com/kapu/character-search-go/internal/normalize"
	"github.com/kapu/character-search-go/internal/provider"
	"github.com/kapu/character-search-go/internal/translate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAdapter struct {
	mu        sync.Mutex
	kind      domain.Provider
	items     []provider.RawItem
	calls     int
	lastQuery domain.QuerySpec
}

func (f *fakeAdapter) Kind() domain.Provider { return f.kind }

func (f *fakeAdapter) FetchRaw(_ context.Context, query domain.QuerySpec) []provider.RawItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastQuery = query
	return f.items
}

type fakeBatchTranslator struct {
	calls        int
	translations map[string]string
}

func (f *fakeBatchTranslator) TranslateBatch(_ context.Context, texts []string, _ string) translate.BatchResult {
	f.calls++
	m := domain.IdentityMap(texts)
	for k, v := range f.translations {
		if _, ok := m[k]; ok {
			m[k] = v
		}
	}
	return translate.BatchResult{Map: m}
}

type fakeTextTranslator struct {
	calls  int
	result string
}

func (f *fakeTextTranslator) TranslateText(_ context.Context, text, _ string) (string, bool) {
	f.calls++
	if f.result != "" {
		return f.result, true
	}
	return text, false
}

func charhubItem(fullPath, name string, topics ...string) provider.RawItem {
	return provider.RawItem{
		Provider: domain.ProviderCharhub,
		Charhub: &provider.CharhubNodeRaw{
			FullPath: fullPath,
			Name:     name,
			Tagline:  "desc",
			Topics:   topics,
		},
	}
}

func newTestOrchestrator(t *testing.T, adapter provider.Adapter, batch translate.BatchTranslator, text TextTranslator) *Orchestrator {
	t.Helper()

	logger := zap.NewNop()
	orchestrator, err := NewOrchestrator(
		[]provider.Adapter{adapter},
		normalize.NewNormalizer(logger),
		translate.NewMerger(batch, "ko", logger),
		text,
		adapter.Kind(),
		logger,
	)
	require.NoError(t, err)
	return orchestrator
}

func TestSearchPipeline(t *testing.T) {
	adapter := &fakeAdapter{
		kind:  domain.ProviderCharhub,
		items: []provider.RawItem{charhubItem("u/aria", "Aria", "romance")},
	}
	batch := &fakeBatchTranslator{translations: map[string]string{"Aria": "아리아", "romance": "애정"}}
	orchestrator := newTestOrchestrator(t, adapter, batch, &fakeTextTranslator{})

	records := orchestrator.Search(context.Background(), domain.QuerySpec{SearchTerm: "aria"})

	require.Len(t, records, 1)
	assert.Equal(t, "아리아", records[0].Name)
	assert.Equal(t, "Aria", records[0].OriginalName)
	assert.Equal(t, "애정", records[0].Tags[0].DisplayText)
	assert.Equal(t, "romance", records[0].Tags[0].OriginalValue)
	assert.Equal(t, 1, batch.calls)
}

func TestSearchEmptyResultShortCircuits(t *testing.T) {
	adapter := &fakeAdapter{kind: domain.ProviderCharhub}
	batch := &fakeBatchTranslator{}
	orchestrator := newTestOrchestrator(t, adapter, batch, &fakeTextTranslator{})

	records := orchestrator.Search(context.Background(), domain.QuerySpec{SearchTerm: "nothing"})

	assert.NotNil(t, records)
	assert.Empty(t, records)
	assert.Equal(t, 0, batch.calls)
}

func TestSearchTranslatesKoreanTerm(t *testing.T) {
	adapter := &fakeAdapter{kind: domain.ProviderCharhub}
	text := &fakeTextTranslator{result: "magical girl"}
	orchestrator := newTestOrchestrator(t, adapter, &fakeBatchTranslator{}, text)

	orchestrator.Search(context.Background(), domain.QuerySpec{SearchTerm: "마법소녀"})

	assert.Equal(t, 1, text.calls)
	assert.Equal(t, "magical girl", adapter.lastQuery.SearchTerm)
}

func TestSearchLeavesLatinTermAlone(t *testing.T) {
	adapter := &fakeAdapter{kind: domain.ProviderCharhub}
	text := &fakeTextTranslator{result: "should not be used"}
	orchestrator := newTestOrchestrator(t, adapter, &fakeBatchTranslator{}, text)

	orchestrator.Search(context.Background(), domain.QuerySpec{SearchTerm: "magical girl"})

	assert.Equal(t, 0, text.calls)
	assert.Equal(t, "magical girl", adapter.lastQuery.SearchTerm)
}

func TestSearchNormalizesQuery(t *testing.T) {
	adapter := &fakeAdapter{kind: domain.ProviderCharhub}
	orchestrator := newTestOrchestrator(t, adapter, &fakeBatchTranslator{}, &fakeTextTranslator{})

	orchestrator.Search(context.Background(), domain.QuerySpec{
		SearchTerm:  " aria ",
		IncludeTags: []string{" romance ", ""},
		Page:        0,
	})

	assert.Equal(t, "aria", adapter.lastQuery.SearchTerm)
	assert.Equal(t, []string{"romance"}, adapter.lastQuery.IncludeTags)
	assert.Equal(t, 1, adapter.lastQuery.Page)
}

func TestUseProviderRejectsUnknown(t *testing.T) {
	adapter := &fakeAdapter{kind: domain.ProviderCharhub}
	orchestrator := newTestOrchestrator(t, adapter, &fakeBatchTranslator{}, &fakeTextTranslator{})

	assert.Error(t, orchestrator.UseProvider(domain.ProviderRealm))
	assert.NoError(t, orchestrator.UseProvider(domain.ProviderCharhub))
	assert.Equal(t, domain.ProviderCharhub, orchestrator.Provider())
}

func TestNewOrchestratorRequiresSelectedAdapter(t *testing.T) {
	adapter := &fakeAdapter{kind: domain.ProviderCharhub}
	logger := zap.NewNop()

	_, err := NewOrchestrator(
		[]provider.Adapter{adapter},
		normalize.NewNormalizer(logger),
		translate.NewMerger(&fakeBatchTranslator{}, "ko", logger),
		&fakeTextTranslator{},
		domain.ProviderRealm,
		logger,
	)

	assert.Error(t, err)
}
