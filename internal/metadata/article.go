package metadata

import (
	"context"
	"regexp"
	"unicode/utf8"

	infralogger "github.com/jonesrussell/north-cloud/content-feed/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/content-feed/internal/models"
	"golang.org/x/net/html"
)

const (
	// MaxDescriptionLength is counted in characters, not bytes.
	MaxDescriptionLength = 500
	truncationMarker     = "..."
)

// The attribute order is fixed: property/name first, content second.
// Tags written the other way round are not matched.
var (
	ogTitlePattern       = ogPattern("title")
	ogDescriptionPattern = ogPattern("description")
	ogImagePattern       = ogPattern("image")
	metaTitlePattern     = namedMetaPattern("title")
	metaDescPattern      = namedMetaPattern("description")
)

func ogPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)<meta\s+property=["']og:` + regexp.QuoteMeta(name) + `["'].*?content=["'](.*?)["']`)
}

func namedMetaPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)<meta\s+name=["']` + regexp.QuoteMeta(name) + `["'].*?content=["'](.*?)["']`)
}

// ArticleResolver scrapes Open Graph and standard meta tags from an HTML page.
type ArticleResolver struct {
	fetcher PageFetcher
	logger  infralogger.Logger
}

// NewArticleResolver creates an ArticleResolver.
func NewArticleResolver(fetcher PageFetcher, log infralogger.Logger) *ArticleResolver {
	return &ArticleResolver{fetcher: fetcher, logger: log}
}

// Resolve fetches pageURL and extracts og:title, og:description and
// og:image, falling back to <meta name="title"> and <meta name="description">.
func (r *ArticleResolver) Resolve(ctx context.Context, pageURL string) models.Metadata {
	body, err := r.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		r.logger.Debug("Article fetch failed",
			infralogger.String("url", pageURL),
			infralogger.Error(err),
		)
		return models.Metadata{}
	}

	return ExtractArticleMetadata(body)
}

// ExtractArticleMetadata scans an HTML document for metadata tags.
func ExtractArticleMetadata(doc []byte) models.Metadata {
	title := firstMatch(doc, ogTitlePattern, metaTitlePattern)
	description := firstMatch(doc, ogDescriptionPattern, metaDescPattern)
	if description != nil {
		truncated := TruncateText(*description, MaxDescriptionLength)
		description = &truncated
	}

	return models.Metadata{
		Title:       title,
		Description: description,
		Thumbnail:   firstMatch(doc, ogImagePattern),
	}
}

// firstMatch returns the entity-decoded capture of the first pattern that
// yields a non-empty value.
func firstMatch(doc []byte, patterns ...*regexp.Regexp) *string {
	for _, p := range patterns {
		m := p.FindSubmatch(doc)
		if m == nil || len(m[1]) == 0 {
			continue
		}
		value := html.UnescapeString(string(m[1]))
		return &value
	}
	return nil
}

// TruncateText cuts s to limit characters and appends "..." when it was longer.
func TruncateText(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + truncationMarker
}
