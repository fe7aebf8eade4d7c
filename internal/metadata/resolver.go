package metadata

import (
	"context"
	"fmt"

	infralogger "github.com/jonesrussell/north-cloud/content-feed/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/content-feed/internal/models"
)

// Resolution outcomes as recorded in metrics.
const (
	OutcomeResolved = "resolved"
	OutcomeEmpty    = "empty"
	OutcomeUnknown  = "unknown_type"
)

// URLResolver resolves the metadata of one kind of content.
type URLResolver interface {
	Resolve(ctx context.Context, rawURL string) models.Metadata
}

// ResolutionRecorder receives one observation per facade call.
type ResolutionRecorder interface {
	ObserveResolution(contentType, outcome string)
}

// Resolver dispatches to the resolver registered for a content type.
// It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	byType   map[models.ContentType]URLResolver
	recorder ResolutionRecorder
	logger   infralogger.Logger
}

// NewResolver wires a resolver for every content type. recorder may be nil.
func NewResolver(youtube, article URLResolver, log infralogger.Logger, recorder ResolutionRecorder) *Resolver {
	byType := make(map[models.ContentType]URLResolver, len(models.AllContentTypes()))
	for _, ct := range models.AllContentTypes() {
		switch ct {
		case models.ContentTypeYouTube:
			byType[ct] = youtube
		case models.ContentTypeWordPress:
			byType[ct] = article
		default:
			panic(fmt.Sprintf("metadata: no resolver for content type %q", ct))
		}
	}

	return &Resolver{byType: byType, recorder: recorder, logger: log}
}

// NewDefaultResolver builds the production resolver chain around one Fetcher.
func NewDefaultResolver(fetcher PageFetcher, oembedEndpoint string, log infralogger.Logger, recorder ResolutionRecorder) *Resolver {
	return NewResolver(
		NewYouTubeResolver(fetcher, oembedEndpoint, log),
		NewArticleResolver(fetcher, log),
		log,
		recorder,
	)
}

// Resolve returns the metadata for rawURL according to contentType. The
// type tag alone selects the resolver; the URL is not inspected. Unknown
// types yield empty metadata.
func (r *Resolver) Resolve(ctx context.Context, rawURL string, contentType models.ContentType) models.Metadata {
	resolver, ok := r.byType[contentType]
	if !ok {
		r.observe(contentType, OutcomeUnknown)
		r.logger.Debug("No metadata resolver for content type",
			infralogger.String("type", string(contentType)),
		)
		return models.Metadata{}
	}

	md := resolver.Resolve(ctx, rawURL)

	outcome := OutcomeResolved
	if md.IsEmpty() {
		outcome = OutcomeEmpty
	}
	r.observe(contentType, outcome)
	r.logger.Debug("Metadata resolved",
		infralogger.String("type", string(contentType)),
		infralogger.String("url", rawURL),
		infralogger.String("outcome", outcome),
	)

	return md
}

func (r *Resolver) observe(contentType models.ContentType, outcome string) {
	if r.recorder != nil {
		r.recorder.ObserveResolution(string(contentType), outcome)
	}
}
