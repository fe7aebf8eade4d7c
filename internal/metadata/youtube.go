package metadata

import (
	"context"
	"encoding/json"
	"net/url"
	"regexp"

	infralogger "github.com/jonesrussell/north-cloud/content-feed/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/content-feed/internal/models"
)

// DefaultOEmbedEndpoint is YouTube's public oEmbed API; no key is needed.
const DefaultOEmbedEndpoint = "https://www.youtube.com/oembed"

// Matches watch?v=, youtu.be/, /embed/, /v/, /e/ and /user/.../ forms.
var youTubeIDPattern = regexp.MustCompile(
	`(?i)(?:youtube\.com/(?:[^/]+/.+/|(?:v|e(?:mbed)?)/|.*[?&]v=)|youtu\.be/)([^"&?/\s]{11})`,
)

type oEmbedResponse struct {
	Title        *string `json:"title"`
	AuthorName   *string `json:"author_name"`
	ThumbnailURL *string `json:"thumbnail_url"`
}

// YouTubeResolver resolves video metadata through oEmbed.
type YouTubeResolver struct {
	fetcher  PageFetcher
	endpoint string
	logger   infralogger.Logger
}

// NewYouTubeResolver uses DefaultOEmbedEndpoint when endpoint is empty.
func NewYouTubeResolver(fetcher PageFetcher, endpoint string, log infralogger.Logger) *YouTubeResolver {
	if endpoint == "" {
		endpoint = DefaultOEmbedEndpoint
	}
	return &YouTubeResolver{fetcher: fetcher, endpoint: endpoint, logger: log}
}

// Resolve returns the video title, the channel name as description, and a
// thumbnail. Anything short of an oEmbed document with a title yields
// empty metadata.
func (r *YouTubeResolver) Resolve(ctx context.Context, videoURL string) models.Metadata {
	oembedURL := r.endpoint + "?url=" + url.QueryEscape(videoURL) + "&format=json"

	body, err := r.fetcher.Fetch(ctx, oembedURL)
	if err != nil {
		r.logger.Debug("oEmbed fetch failed",
			infralogger.String("url", videoURL),
			infralogger.Error(err),
		)
		return models.Metadata{}
	}

	var data oEmbedResponse
	if err = json.Unmarshal(body, &data); err != nil {
		r.logger.Debug("oEmbed response is not valid JSON",
			infralogger.String("url", videoURL),
			infralogger.Error(err),
		)
		return models.Metadata{}
	}
	if data.Title == nil || *data.Title == "" {
		return models.Metadata{}
	}

	return models.Metadata{
		Title:       data.Title,
		Description: nonEmpty(data.AuthorName),
		Thumbnail:   youTubeThumbnail(videoURL, data.ThumbnailURL),
	}
}

// ExtractYouTubeID returns the 11-character video ID, or "" when url does
// not look like a YouTube video link.
func ExtractYouTubeID(videoURL string) string {
	m := youTubeIDPattern.FindStringSubmatch(videoURL)
	if m == nil {
		return ""
	}
	return m[1]
}

// youTubeThumbnail prefers the max resolution still over oEmbed's default.
func youTubeThumbnail(videoURL string, fallback *string) *string {
	if id := ExtractYouTubeID(videoURL); id != "" {
		thumb := "https://img.youtube.com/vi/" + id + "/maxresdefault.jpg"
		return &thumb
	}
	return nonEmpty(fallback)
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
