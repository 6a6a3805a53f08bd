package translate

import (
	"context"

	"github.com/kapu/character-search-go/internal/domain"
	"go.uber.org/zap"
)

// Merger splices batch translations into normalized records. Translatable
// strings are harvested once across the whole batch, so identical strings
// (repeated tags, shared names) cost one translation entry and render
// consistently everywhere.
type Merger struct {
	gateway BatchTranslator
	target  string
	logger  *zap.Logger
}

func NewMerger(gateway BatchTranslator, target string, logger *zap.Logger) *Merger {
	return &Merger{
		gateway: gateway,
		target:  target,
		logger:  logger,
	}
}

// MergeBatch fills the display/original field pairs of every record. Display
// values may be translated; original values always hold the untranslated
// source and remain the basis for tag matching.
func (m *Merger) MergeBatch(ctx context.Context, records []*domain.CharacterRecord) []*domain.CharacterRecord {
	pending := m.harvest(records)

	var result BatchResult
	if len(pending) > 0 {
		result = m.gateway.TranslateBatch(ctx, pending, m.target)
		if result.Degraded {
			m.logger.Warn("Batch translation degraded to identity",
				zap.Int("text_count", len(pending)),
			)
		}
	} else {
		result = BatchResult{Map: domain.TranslationMap{}}
	}

	for _, record := range records {
		m.apply(record, result.Map)
	}

	return records
}

// harvest collects every translatable string across the batch, de-duplicated
// batch-wide with first-seen order preserved.
func (m *Merger) harvest(records []*domain.CharacterRecord) []string {
	seen := make(map[string]struct{})
	pending := make([]string, 0)

	add := func(s string) {
		if !NeedsTranslation(s) {
			return
		}
		if _, exists := seen[s]; exists {
			return
		}
		seen[s] = struct{}{}
		pending = append(pending, s)
	}

	for _, record := range records {
		add(record.Name)
		add(record.Description)
		for _, tag := range record.Tags {
			add(tag.OriginalValue)
		}
	}

	return pending
}

func (m *Merger) apply(record *domain.CharacterRecord, translations domain.TranslationMap) {
	record.OriginalName = record.Name
	record.OriginalDescription = record.Description

	if translated := translations.Get(record.Name); translated != record.Name {
		record.Name = translated
		record.NameTranslated = true
	}
	if translated := translations.Get(record.Description); translated != record.Description {
		record.Description = translated
		record.DescriptionTranslated = true
	}

	for i := range record.Tags {
		original := record.Tags[i].OriginalValue
		display := translations.Get(original)
		record.Tags[i] = domain.Tag{
			DisplayText:   display,
			OriginalValue: original,
			WasTranslated: display != original,
		}
	}
}
