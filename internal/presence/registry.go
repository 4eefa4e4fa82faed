// Package presence tracks which users hold a live connection on which
// realtime topic. The registry is the single piece of shared mutable state in
// the process; everything that needs to know "is this user reachable" asks it.
package presence

import (
	"sync"

	"github.com/google/uuid"

	"github.com/friendscore/backend/internal/realtime"
)

// Registry maps (user, topic) to the connection currently bound to it.
// Registering a new connection for an occupied key supersedes the old one
// (last writer wins); the superseded session silently stops receiving pushes.
type Registry struct {
	mu          sync.RWMutex
	connections map[realtime.Topic]map[uuid.UUID]string
}

func NewRegistry() *Registry {
	return &Registry{
		connections: make(map[realtime.Topic]map[uuid.UUID]string),
	}
}

// Register binds connectionID to (userID, topic), replacing any prior binding.
func (r *Registry) Register(userID uuid.UUID, topic realtime.Topic, connectionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	byUser, ok := r.connections[topic]
	if !ok {
		byUser = make(map[uuid.UUID]string)
		r.connections[topic] = byUser
	}
	byUser[userID] = connectionID
}

// Unregister removes the binding for (userID, topic), but only if
// connectionID is still the current one. A superseded connection's deferred
// teardown must not evict its replacement.
func (r *Registry) Unregister(userID uuid.UUID, topic realtime.Topic, connectionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	byUser, ok := r.connections[topic]
	if !ok {
		return
	}
	if current, ok := byUser[userID]; ok && current == connectionID {
		delete(byUser, userID)
	}
}

// Lookup returns the connection bound to (userID, topic), if any.
func (r *Registry) Lookup(userID uuid.UUID, topic realtime.Topic) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	connID, ok := r.connections[topic][userID]
	return connID, ok
}

// ActiveUserIDs returns the users currently connected on the presence topic.
func (r *Registry) ActiveUserIDs() []uuid.UUID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byUser := r.connections[realtime.TopicPresence]
	ids := make([]uuid.UUID, 0, len(byUser))
	for id := range byUser {
		ids = append(ids, id)
	}
	return ids
}

// OnlineCount returns the number of distinct presence-topic connections.
func (r *Registry) OnlineCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.connections[realtime.TopicPresence])
}
