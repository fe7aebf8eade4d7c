// Package events publishes feed item lifecycle events to a Redis stream so
// storefront caches can drop their copy of the widget.
package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonesrussell/north-cloud/content-feed/internal/models"
)

// StreamName is the Redis stream events are appended to.
const StreamName = "content-feed-events"

// EventType names a lifecycle transition.
type EventType string

const (
	ItemCreated           EventType = "ITEM_CREATED"
	ItemUpdated           EventType = "ITEM_UPDATED"
	ItemDeleted           EventType = "ITEM_DELETED"
	ItemActivated         EventType = "ITEM_ACTIVATED"
	ItemDeactivated       EventType = "ITEM_DEACTIVATED"
	ItemMetadataRefreshed EventType = "ITEM_METADATA_REFRESHED"
)

// ItemEvent is the stream envelope.
type ItemEvent struct {
	EventID   uuid.UUID   `json:"event_id"`
	EventType EventType   `json:"event_type"`
	ItemID    int64       `json:"item_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   ItemPayload `json:"payload"`
}

// ItemPayload is a snapshot of the item after the change.
type ItemPayload struct {
	Type     models.ContentType `json:"type"`
	URL      string             `json:"url"`
	Title    *string            `json:"title,omitempty"`
	Position int                `json:"position"`
	Active   bool               `json:"active"`
}

// NewItemEvent snapshots item. EventID and Timestamp are filled at publish time.
func NewItemEvent(eventType EventType, item *models.ContentItem) ItemEvent {
	return ItemEvent{
		EventType: eventType,
		ItemID:    item.ID,
		Payload: ItemPayload{
			Type:     item.Type,
			URL:      item.URL,
			Title:    item.Title,
			Position: item.Position,
			Active:   item.Active,
		},
	}
}

// ToggleEventType maps the state after a toggle to its event.
func ToggleEventType(active bool) EventType {
	if active {
		return ItemActivated
	}
	return ItemDeactivated
}
