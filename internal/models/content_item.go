// Package models holds the content feed domain types.
package models

import "time"

// Column limits of content_feed_items.
const (
	MaxURLLength       = 500
	MaxTitleLength     = 255
	MaxThumbnailLength = 500
)

// ContentItem is one curated entry of the feed.
type ContentItem struct {
	ID          int64       `json:"id" db:"id"`
	Type        ContentType `json:"type" db:"type"`
	URL         string      `json:"url" db:"url"`
	Title       *string     `json:"title" db:"title"`
	Description *string     `json:"description" db:"description"`
	Thumbnail   *string     `json:"thumbnail" db:"thumbnail"`
	Position    int         `json:"position" db:"position"`
	Active      bool        `json:"active" db:"active"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
}

// ApplyMetadata copies every field md resolved onto the item. Fields md
// left nil keep their current value.
func (i *ContentItem) ApplyMetadata(md Metadata) {
	if md.Title != nil {
		i.Title = md.Title
	}
	if md.Description != nil {
		i.Description = md.Description
	}
	if md.Thumbnail != nil {
		i.Thumbnail = md.Thumbnail
	}
}

// WidgetItem projects an item for the storefront.
func (i *ContentItem) WidgetItem() WidgetItem {
	return WidgetItem{
		Type:        i.Type,
		URL:         i.URL,
		Title:       i.Title,
		Description: i.Description,
		Thumbnail:   i.Thumbnail,
	}
}

// ItemUpdate is a partial update; nil fields are left untouched.
type ItemUpdate struct {
	Type        *ContentType
	URL         *string
	Title       *string
	Description *string
	Thumbnail   *string
	Position    *int
	Active      *bool
	// ClearMetadata sets title, description and thumbnail to NULL unless
	// the update carries a new value for them.
	ClearMetadata bool
}

// IsEmpty reports whether no field is set.
func (u ItemUpdate) IsEmpty() bool {
	return u.Type == nil && u.URL == nil && u.Title == nil && u.Description == nil &&
		u.Thumbnail == nil && u.Position == nil && u.Active == nil && !u.ClearMetadata
}

// WithMetadata returns u with the resolved fields of md added.
func (u ItemUpdate) WithMetadata(md Metadata) ItemUpdate {
	if md.Title != nil {
		u.Title = md.Title
	}
	if md.Description != nil {
		u.Description = md.Description
	}
	if md.Thumbnail != nil {
		u.Thumbnail = md.Thumbnail
	}
	return u
}

// WidgetItem is what the storefront widget renders.
type WidgetItem struct {
	Type        ContentType `json:"type"`
	URL         string      `json:"url"`
	Title       *string     `json:"title"`
	Description *string     `json:"description"`
	Thumbnail   *string     `json:"thumbnail"`
}
