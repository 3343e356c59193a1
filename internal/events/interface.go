package events

import (
	"context"
	"time"
)

// Event types.
const (
	TypeRecipeCreated  = "recipe.created"
	TypeRecipeUpdated  = "recipe.updated"
	TypeRecipeDeleted  = "recipe.deleted"
	TypeUserFollowed   = "user.followed"
	TypeUserUnfollowed = "user.unfollowed"
)

// Event is the JSON message published for domain changes. Key selects the
// partition so events about one subject stay ordered.
type Event struct {
	Type      string `json:"type"`
	Key       string `json:"key"`
	ActorID   string `json:"actor_id"`
	RecipeID  uint   `json:"recipe_id,omitempty"`
	AuthorID  string `json:"author_id,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// New builds an event stamped with the current time.
func New(eventType, key, actorID string) *Event {
	return &Event{
		Type:      eventType,
		Key:       key,
		ActorID:   actorID,
		Timestamp: time.Now().Unix(),
	}
}

// Publisher sends domain events.
type Publisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, event *Event) error { return nil }

func (NopPublisher) Close() error { return nil }

var _ Publisher = NopPublisher{}
