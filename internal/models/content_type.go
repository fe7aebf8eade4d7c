package models

import (
	"errors"
	"fmt"
	"strings"
)

// ContentType tags what kind of resource an item's URL points at and so
// which metadata resolver handles it.
type ContentType string

const (
	ContentTypeYouTube   ContentType = "youtube"
	ContentTypeWordPress ContentType = "wordpress"
)

// ErrInvalidContentType is returned by ParseContentType for unknown tags.
var ErrInvalidContentType = errors.New("invalid content type")

// AllContentTypes lists every variant in display order.
func AllContentTypes() []ContentType {
	return []ContentType{ContentTypeYouTube, ContentTypeWordPress}
}

// ParseContentType accepts a tag case-insensitively with surrounding space trimmed.
func ParseContentType(s string) (ContentType, error) {
	ct := ContentType(strings.ToLower(strings.TrimSpace(s)))
	if !ct.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidContentType, s)
	}
	return ct, nil
}

// IsValid reports whether ct is a known variant.
func (ct ContentType) IsValid() bool {
	switch ct {
	case ContentTypeYouTube, ContentTypeWordPress:
		return true
	default:
		return false
	}
}

// Label is the human-readable name shown in admin listings.
func (ct ContentType) Label() string {
	switch ct {
	case ContentTypeYouTube:
		return "YouTube"
	case ContentTypeWordPress:
		return "WordPress"
	default:
		return string(ct)
	}
}

func (ct ContentType) String() string {
	return string(ct)
}
