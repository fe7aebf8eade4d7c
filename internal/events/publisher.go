package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	infralogger "github.com/jonesrussell/north-cloud/content-feed/infrastructure/logger"
	"github.com/redis/go-redis/v9"
)

const asyncPublishTimeout = 5 * time.Second

// Recorder receives one observation per publish attempt.
type Recorder interface {
	ObserveEvent(eventType, outcome string)
}

// Publisher appends events to StreamName. A nil *Publisher is a valid no-op,
// which is what the service runs with when Redis is disabled.
type Publisher struct {
	client   *redis.Client
	log      infralogger.Logger
	recorder Recorder
	pending  sync.WaitGroup
}

// NewPublisher returns nil when client is nil. recorder may be nil.
func NewPublisher(client *redis.Client, log infralogger.Logger, recorder Recorder) *Publisher {
	if client == nil {
		return nil
	}
	return &Publisher{client: client, log: log, recorder: recorder}
}

// Publish appends event to the stream.
func (p *Publisher) Publish(ctx context.Context, event ItemEvent) error {
	if p == nil || p.client == nil {
		return nil
	}

	if event.EventID == uuid.Nil {
		event.EventID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	result := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamName,
		Values: map[string]any{
			"event_type": string(event.EventType),
			"event":      string(payload),
		},
	})

	if publishErr := result.Err(); publishErr != nil {
		p.observe(event.EventType, "error")
		return fmt.Errorf("publish to stream: %w", publishErr)
	}

	p.observe(event.EventType, "ok")
	p.log.Debug("Published content feed event",
		infralogger.String("event_type", string(event.EventType)),
		infralogger.Int64("item_id", event.ItemID),
		infralogger.String("stream_id", result.Val()),
	)
	return nil
}

// PublishAsync publishes in the background with its own timeout; failures
// are only logged. ctx is not used for cancellation since the request that
// triggered the event has usually finished by then.
func (p *Publisher) PublishAsync(_ context.Context, event ItemEvent) {
	if p == nil {
		return
	}

	p.pending.Add(1)
	go func() {
		defer p.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), asyncPublishTimeout)
		defer cancel()

		if err := p.Publish(ctx, event); err != nil {
			p.log.Error("Async publish failed",
				infralogger.String("event_type", string(event.EventType)),
				infralogger.Int64("item_id", event.ItemID),
				infralogger.Error(err),
			)
		}
	}()
}

// Wait blocks until every PublishAsync started so far has finished or ctx
// ends. Call it before closing the Redis client.
func (p *Publisher) Wait(ctx context.Context) error {
	if p == nil {
		return nil
	}

	done := make(chan struct{})
	go func() {
		p.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for pending events: %w", ctx.Err())
	}
}

func (p *Publisher) observe(eventType EventType, outcome string) {
	if p.recorder != nil {
		p.recorder.ObserveEvent(string(eventType), outcome)
	}
}
