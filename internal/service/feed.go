// Package service implements the admin workflow around feed items:
// validation, metadata enrichment, persistence and lifecycle events.
package service

import (
	"context"
	"errors"
	"fmt"

	infralogger "github.com/jonesrussell/north-cloud/content-feed/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/content-feed/internal/events"
	"github.com/jonesrussell/north-cloud/content-feed/internal/models"
	"github.com/jonesrussell/north-cloud/content-feed/internal/repository"
)

// ErrItemNotFound is returned for operations on an id that does not exist.
var ErrItemNotFound = errors.New("content feed item not found")

// ItemStore is the persistence contract the workflow needs.
type ItemStore interface {
	FindAll(ctx context.Context) ([]models.ContentItem, error)
	FindActive(ctx context.Context) ([]models.ContentItem, error)
	FindByID(ctx context.Context, id int64) (*models.ContentItem, error)
	Create(ctx context.Context, item *models.ContentItem, position *int) error
	Update(ctx context.Context, id int64, u models.ItemUpdate) (*models.ContentItem, error)
	ToggleActive(ctx context.Context, id int64) (*models.ContentItem, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
	GetNextPosition(ctx context.Context) (int, error)
}

// MetadataResolver enriches a URL according to its content type.
type MetadataResolver interface {
	Resolve(ctx context.Context, rawURL string, contentType models.ContentType) models.Metadata
}

// EventPublisher is fire-and-forget.
type EventPublisher interface {
	PublishAsync(ctx context.Context, event events.ItemEvent)
}

// OperationRecorder receives one observation per workflow operation.
type OperationRecorder interface {
	ObserveOperation(operation, outcome string)
}

// FeedService runs the admin actions. Each call performs at most one
// metadata resolution and one write.
type FeedService struct {
	store     ItemStore
	resolver  MetadataResolver
	publisher EventPublisher
	recorder  OperationRecorder
	logger    infralogger.Logger
}

// Option configures optional collaborators.
type Option func(*FeedService)

// WithPublisher emits lifecycle events through p.
func WithPublisher(p EventPublisher) Option {
	return func(s *FeedService) { s.publisher = p }
}

// WithRecorder records operation outcomes.
func WithRecorder(r OperationRecorder) Option {
	return func(s *FeedService) { s.recorder = r }
}

// NewFeedService creates a FeedService.
func NewFeedService(store ItemStore, resolver MetadataResolver, log infralogger.Logger, opts ...Option) *FeedService {
	s := &FeedService{store: store, resolver: resolver, logger: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns every item in display order.
func (s *FeedService) List(ctx context.Context) ([]models.ContentItem, error) {
	return s.store.FindAll(ctx)
}

// Get returns one item.
func (s *FeedService) Get(ctx context.Context, id int64) (*models.ContentItem, error) {
	item, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, id)
	}
	return item, nil
}

// Create validates in, resolves metadata and stores a new item. Items are
// active unless in says otherwise and are appended after the last position
// unless one is given.
func (s *FeedService) Create(ctx context.Context, in ItemInput) (item *models.ContentItem, err error) {
	defer func() { s.observe("create", err) }()

	valid, err := validateInput(in)
	if err != nil {
		return nil, err
	}

	item = &models.ContentItem{
		Type:   valid.Type,
		URL:    valid.URL,
		Active: valid.Active == nil || *valid.Active,
	}
	item.ApplyMetadata(s.resolve(ctx, valid.URL, valid.Type))

	if err = s.store.Create(ctx, item, valid.Position); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	s.logger.Info("Content feed item created",
		infralogger.Int64("id", item.ID),
		infralogger.String("type", string(item.Type)),
		infralogger.String("url", item.URL),
	)
	s.publish(ctx, events.ItemCreated, item)
	return item, nil
}

// Edit validates in, resolves metadata for the new URL and updates the
// item. When type and URL are unchanged, metadata fields that do not
// resolve keep their stored value; otherwise they are cleared.
func (s *FeedService) Edit(ctx context.Context, id int64, in ItemInput) (item *models.ContentItem, err error) {
	defer func() { s.observe("edit", err) }()

	valid, err := validateInput(in)
	if err != nil {
		return nil, err
	}

	stored, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, id)
	}

	update := models.ItemUpdate{
		Type:     &valid.Type,
		URL:      &valid.URL,
		Active:   valid.Active,
		Position: valid.Position,
		// Metadata of the previous URL describes a different resource.
		ClearMetadata: stored.URL != valid.URL || stored.Type != valid.Type,
	}.WithMetadata(s.resolve(ctx, valid.URL, valid.Type))

	item, err = s.store.Update(ctx, id, update)
	if err != nil {
		return nil, notFound(err, id)
	}

	s.logger.Info("Content feed item updated", infralogger.Int64("id", id))
	s.publish(ctx, events.ItemUpdated, item)
	return item, nil
}

// Delete removes an item.
func (s *FeedService) Delete(ctx context.Context, id int64) (err error) {
	defer func() { s.observe("delete", err) }()

	item, err := s.store.FindByID(ctx, id)
	if err != nil {
		return notFound(err, id)
	}
	if err = s.store.Delete(ctx, id); err != nil {
		return notFound(err, id)
	}

	s.logger.Info("Content feed item deleted", infralogger.Int64("id", id))
	s.publish(ctx, events.ItemDeleted, item)
	return nil
}

// Toggle flips the active flag. The returned item carries the new state.
func (s *FeedService) Toggle(ctx context.Context, id int64) (item *models.ContentItem, err error) {
	defer func() { s.observe("toggle", err) }()

	item, err = s.store.ToggleActive(ctx, id)
	if err != nil {
		return nil, notFound(err, id)
	}

	s.logger.Info("Content feed item toggled",
		infralogger.Int64("id", id),
		infralogger.Bool("active", item.Active),
	)
	s.publish(ctx, events.ToggleEventType(item.Active), item)
	return item, nil
}

// RefreshResult reports whether a refresh changed anything.
type RefreshResult struct {
	Item      *models.ContentItem `json:"item"`
	Refreshed bool                `json:"refreshed"`
}

// Refresh re-resolves metadata from the stored type and URL. Only fields
// that resolved are written; when nothing resolves the item is untouched.
func (s *FeedService) Refresh(ctx context.Context, id int64) (result RefreshResult, err error) {
	defer func() { s.observe("refresh", err) }()

	item, err := s.store.FindByID(ctx, id)
	if err != nil {
		return RefreshResult{}, notFound(err, id)
	}

	md := s.resolve(ctx, item.URL, item.Type)
	if md.IsEmpty() {
		s.logger.Info("Metadata refresh resolved nothing", infralogger.Int64("id", id))
		return RefreshResult{Item: item}, nil
	}

	updated, err := s.store.Update(ctx, id, models.ItemUpdate{}.WithMetadata(md))
	if err != nil {
		return RefreshResult{}, notFound(err, id)
	}

	s.logger.Info("Content feed item metadata refreshed", infralogger.Int64("id", id))
	s.publish(ctx, events.ItemMetadataRefreshed, updated)
	return RefreshResult{Item: updated, Refreshed: true}, nil
}

// Preview resolves metadata for a prospective item without storing it.
func (s *FeedService) Preview(ctx context.Context, contentType, rawURL string) (models.Metadata, error) {
	valid, err := validateInput(ItemInput{Type: contentType, URL: rawURL})
	if err != nil {
		return models.Metadata{}, err
	}
	return s.resolve(ctx, valid.URL, valid.Type), nil
}

// Widget returns the storefront projection of active items in display order.
func (s *FeedService) Widget(ctx context.Context) ([]models.WidgetItem, error) {
	items, err := s.store.FindActive(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.WidgetItem, 0, len(items))
	for i := range items {
		out = append(out, items[i].WidgetItem())
	}
	return out, nil
}

// Count returns the number of stored items.
func (s *FeedService) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

// NextPosition is the position an item created without one would get.
func (s *FeedService) NextPosition(ctx context.Context) (int, error) {
	return s.store.GetNextPosition(ctx)
}

func (s *FeedService) resolve(ctx context.Context, rawURL string, ct models.ContentType) models.Metadata {
	return s.resolver.Resolve(ctx, rawURL, ct).FitColumns()
}

func (s *FeedService) publish(ctx context.Context, eventType events.EventType, item *models.ContentItem) {
	if s.publisher == nil {
		return
	}
	s.publisher.PublishAsync(ctx, events.NewItemEvent(eventType, item))
}

func (s *FeedService) observe(operation string, err error) {
	if s.recorder == nil {
		return
	}
	var verr *ValidationError
	switch {
	case err == nil:
		s.recorder.ObserveOperation(operation, "ok")
	case errors.As(err, &verr):
		s.recorder.ObserveOperation(operation, "invalid")
	case errors.Is(err, ErrItemNotFound):
		s.recorder.ObserveOperation(operation, "not_found")
	default:
		s.recorder.ObserveOperation(operation, "error")
	}
}

// notFound translates the store's sentinel into ErrItemNotFound.
func notFound(err error, id int64) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %d", ErrItemNotFound, id)
	}
	return err
}
