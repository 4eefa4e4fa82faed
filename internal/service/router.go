package service

import (
	"github.com/google/uuid"

	"github.com/friendscore/backend/internal/realtime"
)

// Router is the realtime fan-out surface, implemented by the WebSocket hub.
// All pushes are best-effort and non-blocking: PublishToUser reports whether
// a live connection accepted the event, and callers may log the outcome but
// must never fail an operation on it.
type Router interface {
	// Publish sends an event to every connection subscribed to the topic.
	Publish(topic realtime.Topic, event *realtime.Event)

	// PublishToUser sends an event to the user's connection on the topic, if
	// one exists. A miss is a no-op, not an error.
	PublishToUser(topic realtime.Topic, userID uuid.UUID, event *realtime.Event) bool
}
