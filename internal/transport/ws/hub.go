package ws

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/friendscore/backend/internal/metrics"
	"github.com/friendscore/backend/internal/presence"
	"github.com/friendscore/backend/internal/realtime"
	"github.com/friendscore/backend/internal/service"
)

// ConnectionListener is notified after a presence-topic connection is
// registered or torn down. The hub has already updated the registry when it
// fires.
type ConnectionListener interface {
	HandleConnect(userID uuid.UUID)
	HandleDisconnect(userID uuid.UUID)
}

// Services are the operations clients may invoke over the socket.
type Services struct {
	Chat          *service.ChatService
	Notifications *service.NotificationService
}

type clientKey struct {
	topic  realtime.Topic
	userID uuid.UUID
}

// Hub routes events to live WebSocket clients. One hub serves every topic;
// a client is keyed by (topic, user) and a newer connection for the same key
// supersedes the old one.
type Hub struct {
	registry *presence.Registry
	logger   *zap.Logger

	mu      sync.RWMutex
	clients map[clientKey]*Client

	services *Services
	listener ConnectionListener
}

func NewHub(registry *presence.Registry, logger *zap.Logger) *Hub {
	return &Hub{
		registry: registry,
		logger:   logger,
		clients:  make(map[clientKey]*Client),
	}
}

// SetServices wires the operations invocable over the socket. Must be called
// before the hub accepts connections.
func (h *Hub) SetServices(s *Services) {
	h.services = s
}

// SetConnectionListener wires the presence lifecycle hooks. Must be called
// before the hub accepts connections.
func (h *Hub) SetConnectionListener(l ConnectionListener) {
	h.listener = l
}

// Register binds a client to its (topic, user) slot, superseding and closing
// any prior connection for that slot.
func (h *Hub) Register(c *Client) {
	k := clientKey{topic: c.topic, userID: c.userID}

	h.mu.Lock()
	old := h.clients[k]
	h.clients[k] = c
	total := len(h.clients)
	h.mu.Unlock()

	// The registry write lands outside the hub lock, so two racing
	// registrations for the same key can briefly leave the client map and
	// the registry pointing at different connections. Last writer wins in
	// both either way.
	h.registry.Register(c.userID, c.topic, c.id)

	if old != nil {
		old.close()
	} else {
		metrics.Connections.WithLabelValues(string(c.topic)).Inc()
	}

	h.logger.Info("client connected",
		zap.String("user_id", c.userID.String()),
		zap.String("topic", string(c.topic)),
		zap.Int("total_clients", total))

	if c.topic == realtime.TopicPresence {
		metrics.OnlineUsers.Set(float64(h.registry.OnlineCount()))
		if h.listener != nil {
			h.listener.HandleConnect(c.userID)
		}
	}
}

// Unregister tears down a client. A superseded connection's teardown leaves
// its replacement untouched.
func (h *Hub) Unregister(c *Client) {
	k := clientKey{topic: c.topic, userID: c.userID}

	h.mu.Lock()
	current, ok := h.clients[k]
	removed := ok && current == c
	if removed {
		delete(h.clients, k)
	}
	total := len(h.clients)
	h.mu.Unlock()

	h.registry.Unregister(c.userID, c.topic, c.id)
	c.close()

	if !removed {
		return
	}

	metrics.Connections.WithLabelValues(string(c.topic)).Dec()
	h.logger.Info("client disconnected",
		zap.String("user_id", c.userID.String()),
		zap.String("topic", string(c.topic)),
		zap.Int("total_clients", total))

	if c.topic == realtime.TopicPresence {
		metrics.OnlineUsers.Set(float64(h.registry.OnlineCount()))
		if h.listener != nil {
			h.listener.HandleDisconnect(c.userID)
		}
	}
}

// Publish sends an event to every client on the topic. Sends are
// non-blocking; a client with a full buffer misses the event.
func (h *Hub) Publish(topic realtime.Topic, event *realtime.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("marshal broadcast event", zap.Error(err))
		return
	}

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for k, c := range h.clients {
		if k.topic == topic {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		c.trySend(data)
	}
}

// PublishToUser sends an event to the user's connection on the topic and
// reports whether a live connection accepted it. A miss is not an error.
func (h *Hub) PublishToUser(topic realtime.Topic, userID uuid.UUID, event *realtime.Event) bool {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("marshal user event", zap.Error(err))
		return false
	}

	h.mu.RLock()
	c, ok := h.clients[clientKey{topic: topic, userID: userID}]
	h.mu.RUnlock()

	if !ok {
		return false
	}
	return c.trySend(data)
}

var _ service.Router = (*Hub)(nil)
