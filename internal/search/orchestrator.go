package search

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/kapu/character-search-go/internal/constants"
	"github.com/kapu/character-search-go/internal/domain"
	"github.com/kapu/character-search-go/internal/normalize"
	"github.com/kapu/character-search-go/internal/provider"
	"github.com/kapu/character-search-go/internal/translate"
	"go.uber.org/zap"
)

// TextTranslator is the single-string capability the orchestrator needs for
// search-term pre-translation.
type TextTranslator interface {
	TranslateText(ctx context.Context, text, target string) (string, bool)
}

// Orchestrator is the pipeline entry point: adapter dispatch, normalization
// and translation merge. An empty result is a normal outcome, never an error.
type Orchestrator struct {
	adapters   map[domain.Provider]provider.Adapter
	normalizer *normalize.Normalizer
	merger     *translate.Merger
	translator TextTranslator
	logger     *zap.Logger

	mu      sync.RWMutex
	current domain.Provider
}

func NewOrchestrator(
	adapters []provider.Adapter,
	normalizer *normalize.Normalizer,
	merger *translate.Merger,
	translator TextTranslator,
	selected domain.Provider,
	logger *zap.Logger,
) (*Orchestrator, error) {
	byKind := make(map[domain.Provider]provider.Adapter, len(adapters))
	for _, adapter := range adapters {
		byKind[adapter.Kind()] = adapter
	}
	if _, ok := byKind[selected]; !ok {
		return nil, fmt.Errorf("no adapter registered for provider %q", selected)
	}

	return &Orchestrator{
		adapters:   byKind,
		normalizer: normalizer,
		merger:     merger,
		translator: translator,
		logger:     logger,
		current:    selected,
	}, nil
}

// UseProvider switches the active catalog backend.
func (o *Orchestrator) UseProvider(p domain.Provider) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.adapters[p]; !ok {
		return fmt.Errorf("no adapter registered for provider %q", p)
	}
	o.current = p
	return nil
}

// Provider returns the active catalog backend.
func (o *Orchestrator) Provider() domain.Provider {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.current
}

// Search runs one full query: term pre-translation, provider fetch,
// normalization, batch translation merge.
func (o *Orchestrator) Search(ctx context.Context, query domain.QuerySpec) []*domain.CharacterRecord {
	query = query.Normalized()
	traceID := uuid.NewString()[:8]

	// A Korean search term is translated to the query language the provider
	// understands before the request is built. This is a single-string call,
	// separate from the batch merge.
	if translate.ContainsHangul(query.SearchTerm) {
		translated, ok := o.translator.TranslateText(ctx, query.SearchTerm, constants.TranslateConfig.ProviderQueryLang)
		if ok {
			o.logger.Debug("Search term translated for provider",
				zap.String("trace_id", traceID),
				zap.String("original", query.SearchTerm),
				zap.String("translated", translated),
			)
			query.SearchTerm = translated
		}
	}

	adapter := o.adapters[o.Provider()]

	o.logger.Info("Search started",
		zap.String("trace_id", traceID),
		zap.String("provider", string(adapter.Kind())),
		zap.String("term", query.SearchTerm),
		zap.Int("page", query.Page),
	)

	rawItems := adapter.FetchRaw(ctx, query)
	if len(rawItems) == 0 {
		o.logger.Info("Search yielded no results", zap.String("trace_id", traceID))
		return []*domain.CharacterRecord{}
	}

	records := make([]*domain.CharacterRecord, len(rawItems))
	for i, item := range rawItems {
		records[i] = o.normalizer.Normalize(item)
	}

	merged := o.merger.MergeBatch(ctx, records)

	o.logger.Info("Search completed",
		zap.String("trace_id", traceID),
		zap.Int("results", len(merged)),
	)

	return merged
}
