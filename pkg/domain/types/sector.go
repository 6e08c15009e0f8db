package types

import "strings"

// SectorTag is a label from the controlled sector vocabulary. Tags are
// compared case-insensitively and stored lowercased.
type SectorTag string

// NewSectorTag normalizes a raw label into a SectorTag
func NewSectorTag(s string) SectorTag {
	return SectorTag(strings.ToLower(strings.TrimSpace(s)))
}

func (t SectorTag) String() string {
	return string(t)
}

// Matches reports whether the tag equals or starts with the query
func (t SectorTag) Matches(query string) bool {
	return string(t) == query || strings.HasPrefix(string(t), query)
}

// Contains reports whether the tag contains the query as a substring
func (t SectorTag) Contains(query string) bool {
	return strings.Contains(string(t), query)
}

// UniversalCategoryCode is the reserved category applied to every sector.
const UniversalCategoryCode = "278"

// UniversalCategoryLabel is the main-category label of the universal category.
const UniversalCategoryLabel = "GENEL"

// UniversalSectorTag marks catalog items that apply regardless of sector.
const UniversalSectorTag SectorTag = "genel"

// DefaultSectorVocabulary is the built-in sector tag vocabulary, used when no
// vocabulary file is configured.
func DefaultSectorVocabulary() []SectorTag {
	return []SectorTag{
		"insaat",
		"maden",
		"metal",
		"tekstil",
		"saglik",
		"gida",
		"kimya",
		"enerji",
		"tarim",
		"ulasim",
		"egitim",
		"ofis",
		"depolama",
		"mobilya",
		"matbaa",
		UniversalSectorTag,
	}
}
