package service_test

import (
	"context"
	"sync"

	"github.com/jonesrussell/north-cloud/content-feed/internal/events"
	"github.com/jonesrussell/north-cloud/content-feed/internal/models"
	"github.com/stretchr/testify/mock"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) FindAll(ctx context.Context) ([]models.ContentItem, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]models.ContentItem)
	return items, args.Error(1)
}

func (m *mockStore) FindActive(ctx context.Context) ([]models.ContentItem, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]models.ContentItem)
	return items, args.Error(1)
}

func (m *mockStore) FindByID(ctx context.Context, id int64) (*models.ContentItem, error) {
	args := m.Called(ctx, id)
	item, _ := args.Get(0).(*models.ContentItem)
	return item, args.Error(1)
}

func (m *mockStore) Create(ctx context.Context, item *models.ContentItem, position *int) error {
	args := m.Called(ctx, item, position)
	return args.Error(0)
}

func (m *mockStore) Update(ctx context.Context, id int64, u models.ItemUpdate) (*models.ContentItem, error) {
	args := m.Called(ctx, id, u)
	item, _ := args.Get(0).(*models.ContentItem)
	return item, args.Error(1)
}

func (m *mockStore) ToggleActive(ctx context.Context, id int64) (*models.ContentItem, error) {
	args := m.Called(ctx, id)
	item, _ := args.Get(0).(*models.ContentItem)
	return item, args.Error(1)
}

func (m *mockStore) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockStore) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockStore) GetNextPosition(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type stubResolver struct {
	md    models.Metadata
	mu    sync.Mutex
	calls int
}

func (r *stubResolver) Resolve(context.Context, string, models.ContentType) models.Metadata {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return r.md
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.ItemEvent
}

func (p *recordingPublisher) PublishAsync(_ context.Context, ev events.ItemEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) types() []events.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.EventType, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.EventType)
	}
	return out
}

type recordingOps struct {
	mu  sync.Mutex
	ops []string
}

func (r *recordingOps) ObserveOperation(operation, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, operation+":"+outcome)
}

func ptr[T any](v T) *T { return &v }
