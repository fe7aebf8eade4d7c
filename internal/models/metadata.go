package models

import "unicode/utf8"

// Metadata is the enrichment derived from an item's URL. Any field may be
// nil; a fully nil value means nothing could be resolved.
type Metadata struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Thumbnail   *string `json:"thumbnail"`
}

// IsEmpty reports whether nothing was resolved.
func (m Metadata) IsEmpty() bool {
	return m.Title == nil && m.Description == nil && m.Thumbnail == nil
}

// FitColumns adapts resolved values to the storage limits: long titles are
// cut, over-long thumbnail URLs are dropped since a cut URL is useless.
func (m Metadata) FitColumns() Metadata {
	if m.Title != nil && utf8.RuneCountInString(*m.Title) > MaxTitleLength {
		cut := string([]rune(*m.Title)[:MaxTitleLength])
		m.Title = &cut
	}
	if m.Thumbnail != nil && utf8.RuneCountInString(*m.Thumbnail) > MaxThumbnailLength {
		m.Thumbnail = nil
	}
	return m
}
