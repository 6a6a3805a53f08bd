package translate

import (
	"context"
	"testing"

	"github.com/kapu/character-search-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeTranslator struct {
	calls        int
	lastTexts    []string
	translations map[string]string
	degraded     bool
}

func (f *fakeTranslator) TranslateBatch(_ context.Context, texts []string, _ string) BatchResult {
	f.calls++
	f.lastTexts = append([]string(nil), texts...)

	m := domain.IdentityMap(texts)
	for k, v := range f.translations {
		if _, ok := m[k]; ok {
			m[k] = v
		}
	}
	return BatchResult{Map: m, Degraded: f.degraded}
}

func record(name, description string, tags ...string) *domain.CharacterRecord {
	r := &domain.CharacterRecord{Name: name, Description: description}
	for _, tag := range tags {
		r.Tags = append(r.Tags, domain.NewTag(tag))
	}
	return r
}

func TestMergeBatchTranslatesDisplayFields(t *testing.T) {
	fake := &fakeTranslator{translations: map[string]string{
		"Aria":          "아리아",
		"A sweet demon": "상냥한 악마",
		"romance":       "애정",
	}}
	merger := NewMerger(fake, "ko", zap.NewNop())

	records := []*domain.CharacterRecord{record("Aria", "A sweet demon", "romance")}
	merged := merger.MergeBatch(context.Background(), records)

	r := merged[0]
	assert.Equal(t, "아리아", r.Name)
	assert.Equal(t, "Aria", r.OriginalName)
	assert.True(t, r.NameTranslated)

	assert.Equal(t, "상냥한 악마", r.Description)
	assert.Equal(t, "A sweet demon", r.OriginalDescription)
	assert.True(t, r.DescriptionTranslated)
}

func TestMergeBatchTagIdentityStability(t *testing.T) {
	fake := &fakeTranslator{translations: map[string]string{"romance": "애정"}}
	merger := NewMerger(fake, "ko", zap.NewNop())

	records := []*domain.CharacterRecord{record("이름", "설명", "romance")}
	merged := merger.MergeBatch(context.Background(), records)

	tag := merged[0].Tags[0]
	assert.Equal(t, "애정", tag.DisplayText)
	assert.Equal(t, "romance", tag.OriginalValue)
	assert.True(t, tag.WasTranslated)

	// Matching against an include filter still works on the original value.
	assert.True(t, tag.Equal(domain.NewTag("romance")))
	assert.False(t, tag.Equal(domain.NewTag("애정")))
}

func TestMergeBatchDeduplicatesAcrossBatch(t *testing.T) {
	fake := &fakeTranslator{translations: map[string]string{"comedy": "코미디"}}
	merger := NewMerger(fake, "ko", zap.NewNop())

	records := []*domain.CharacterRecord{
		record("First", "설명", "comedy"),
		record("Second", "설명", "comedy"),
	}
	merged := merger.MergeBatch(context.Background(), records)

	assert.Equal(t, 1, fake.calls)

	occurrences := 0
	for _, text := range fake.lastTexts {
		if text == "comedy" {
			occurrences++
		}
	}
	assert.Equal(t, 1, occurrences)

	// Both records render the same translated value.
	assert.Equal(t, "코미디", merged[0].Tags[0].DisplayText)
	assert.Equal(t, "코미디", merged[1].Tags[0].DisplayText)
}

func TestMergeBatchSkipsStringsAlreadyInTargetScript(t *testing.T) {
	fake := &fakeTranslator{}
	merger := NewMerger(fake, "ko", zap.NewNop())

	records := []*domain.CharacterRecord{record("아리아", "상냥한 악마", "애정")}
	merger.MergeBatch(context.Background(), records)

	assert.Equal(t, 0, fake.calls)

	r := records[0]
	assert.Equal(t, "아리아", r.Name)
	assert.Equal(t, "아리아", r.OriginalName)
	assert.False(t, r.NameTranslated)
	assert.False(t, r.Tags[0].WasTranslated)
}

func TestMergeBatchIdentityWhenTranslationDisabled(t *testing.T) {
	// A disabled gateway returns the identity map; display must equal
	// original and no flag may be set.
	fake := &fakeTranslator{}
	merger := NewMerger(fake, "ko", zap.NewNop())

	records := []*domain.CharacterRecord{record("Aria", "A sweet demon", "romance", "comedy")}
	merged := merger.MergeBatch(context.Background(), records)

	r := merged[0]
	assert.Equal(t, r.OriginalName, r.Name)
	assert.Equal(t, r.OriginalDescription, r.Description)
	assert.False(t, r.NameTranslated)
	assert.False(t, r.DescriptionTranslated)
	for _, tag := range r.Tags {
		assert.Equal(t, tag.OriginalValue, tag.DisplayText)
		assert.False(t, tag.WasTranslated)
	}
}

func TestMergeBatchDegradedKeepsOriginals(t *testing.T) {
	fake := &fakeTranslator{degraded: true}
	merger := NewMerger(fake, "ko", zap.NewNop())

	records := []*domain.CharacterRecord{record("Aria", "A sweet demon", "romance")}
	merged := merger.MergeBatch(context.Background(), records)

	r := merged[0]
	assert.Equal(t, "Aria", r.Name)
	assert.False(t, r.NameTranslated)
	assert.False(t, r.Tags[0].WasTranslated)
}

func TestMergeBatchEmptyInput(t *testing.T) {
	fake := &fakeTranslator{}
	merger := NewMerger(fake, "ko", zap.NewNop())

	merged := merger.MergeBatch(context.Background(), []*domain.CharacterRecord{})

	assert.Empty(t, merged)
	assert.Equal(t, 0, fake.calls)
}
