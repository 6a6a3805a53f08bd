package normalize

import (
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/kapu/character-search-go/internal/constants"
	"github.com/kapu/character-search-go/internal/domain"
	"github.com/kapu/character-search-go/internal/provider"
	"github.com/kapu/character-search-go/internal/util"
	"go.uber.org/zap"
)

var markdownImagePattern = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
var markdownLinkPattern = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
var markdownEmphasisPattern = regexp.MustCompile(`[*_]{1,3}([^*_]+)[*_]{1,3}`)

// Normalizer maps provider-native items onto the canonical record shape.
// Translation fields are left unset; the merger fills them.
type Normalizer struct {
	logger *zap.Logger
}

func NewNormalizer(logger *zap.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// Normalize converts one raw item. Unknown numeric fields default to 0,
// unknown flags to false, and a missing description to the placeholder.
func (n *Normalizer) Normalize(item provider.RawItem) *domain.CharacterRecord {
	switch item.Provider {
	case domain.ProviderRealm:
		return n.normalizeRealm(item)
	default:
		return n.normalizeCharhub(item)
	}
}

func (n *Normalizer) normalizeCharhub(item provider.RawItem) *domain.CharacterRecord {
	raw := item.Charhub
	if raw == nil {
		n.logger.Warn("Charhub item missing payload")
		return &domain.CharacterRecord{Provider: domain.ProviderCharhub}
	}

	description := strings.TrimSpace(raw.Tagline)
	if description == "" {
		description = strings.TrimSpace(raw.Description)
	}
	if description == "" {
		description = constants.NoDescription
	}

	record := &domain.CharacterRecord{
		Provider:     domain.ProviderCharhub,
		Path:         raw.FullPath,
		Name:         raw.Name,
		Description:  description,
		Tags:         buildTags(raw.Topics),
		Rating:       raw.Rating,
		RatingCount:  raw.RatingCount,
		StarCount:    raw.StarCount,
		ForkCount:    raw.ForksCount,
		TokenCount:   raw.NTokens,
		ChatCount:    raw.NChats,
		MessageCount: raw.NMessages,
		CreatedAt:    parseTimestamp(raw.CreatedAt),
		LastActive:   parseTimestamp(raw.LastActivityAt),
		AvatarURL:    raw.AvatarURL,
		ImageData:    item.Image,
		Verified:     raw.Verified,
		Recommended:  raw.Recommended,
		NSFWImage:    raw.NSFWImage,
		HasGallery:   raw.HasGallery,
		HasStarCount: true,
	}

	return record
}

func (n *Normalizer) normalizeRealm(item provider.RawItem) *domain.CharacterRecord {
	raw := item.Realm
	if raw == nil {
		n.logger.Warn("Realm item missing payload")
		return &domain.CharacterRecord{Provider: domain.ProviderRealm}
	}

	description := StripMarkup(raw.Desc)
	if description == "" {
		description = constants.NoDescription
	}

	// Structured tags and the free-form custom tag list flatten into one
	// sequence; labels win over slugs for display.
	values := make([]string, 0, len(raw.Tags)+len(raw.CustomTags))
	for _, tag := range raw.Tags {
		label := tag.Label
		if label == "" {
			label = tag.Slug
		}
		values = append(values, label)
	}
	values = append(values, raw.CustomTags...)

	record := &domain.CharacterRecord{
		Provider:    domain.ProviderRealm,
		Path:        raw.ID,
		Name:        raw.Name,
		Description: description,
		Tags:        buildTags(values),
		// Realm reports downloads, not stars.
		ChatCount:    raw.DownloadCount,
		CreatedAt:    parseTimestamp(raw.CreatedAt),
		LastActive:   parseTimestamp(raw.LastUpdated),
		AvatarURL:    raw.Img,
		ImageData:    item.Image,
		NSFWImage:    raw.NSFWImg,
		HasGallery:   raw.HasGallery,
		HasStarCount: false,
	}

	return record
}

// buildTags trims, NFC-normalizes and de-duplicates tag values within one
// record, preserving first-seen order.
func buildTags(values []string) []domain.Tag {
	seen := make(map[string]struct{}, len(values))
	tags := make([]domain.Tag, 0, len(values))

	for _, value := range values {
		normalized := util.NormalizeTag(value)
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		tags = append(tags, domain.NewTag(normalized))
	}

	return tags
}

// StripMarkup reduces HTML/markdown-flavored description text to plain text.
func StripMarkup(s string) string {
	s = markdownImagePattern.ReplaceAllString(s, "")
	s = markdownLinkPattern.ReplaceAllString(s, "$1")
	s = markdownEmphasisPattern.ReplaceAllString(s, "$1")

	if strings.ContainsAny(s, "<>") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(s)); err == nil {
			s = doc.Text()
		}
	}

	return util.CollapseWhitespace(s)
}

func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t
	}
	return time.Time{}
}
