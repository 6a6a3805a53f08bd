package domain

import "time"

// Tag is one topic attached to a record. OriginalValue is the stable
// identifier: include/exclude matching and selection highlighting compare
// original values only, never the (possibly translated) display text.
type Tag struct {
	DisplayText   string
	OriginalValue string
	WasTranslated bool
}

// NewTag builds an untranslated tag whose display text equals its value.
func NewTag(value string) Tag {
	return Tag{DisplayText: value, OriginalValue: value}
}

// Equal reports whether two tags identify the same topic.
func (t Tag) Equal(other Tag) bool {
	return t.OriginalValue == other.OriginalValue
}

// CharacterRecord is the canonical representation of one search hit. A new
// search replaces the whole list; records are never merged across searches.
type CharacterRecord struct {
	Provider Provider

	// Path is the stable identifier within the provider (e.g. a charhub
	// fullPath or a realm item id).
	Path        string
	Name        string
	Description string
	Tags        []Tag

	Rating       float64
	RatingCount  int
	StarCount    int
	ForkCount    int
	TokenCount   int
	ChatCount    int
	MessageCount int

	CreatedAt  time.Time
	LastActive time.Time

	AvatarURL string
	ImageData []byte

	Verified    bool
	Recommended bool
	NSFWImage   bool
	HasGallery  bool

	// HasStarCount marks whether the provider reports stars at all; a zero
	// StarCount from a provider without the notion must not render as "0".
	HasStarCount bool

	// Display fields above may be translated; the originals survive here for
	// tooltips and matching. When translation is disabled they are identical.
	OriginalName          string
	OriginalDescription   string
	NameTranslated        bool
	DescriptionTranslated bool
}
