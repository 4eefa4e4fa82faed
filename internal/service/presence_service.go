package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/friendscore/backend/internal/presence"
	"github.com/friendscore/backend/internal/realtime"
)

// PresenceService reacts to presence-topic connects and disconnects:
// it announces the user to every presence subscriber and refreshes the
// dashboard stats. The hub invokes it after the registry is updated.
type PresenceService struct {
	registry *presence.Registry
	router   Router
	stats    *StatsService
	logger   *zap.Logger
}

func NewPresenceService(registry *presence.Registry, router Router, stats *StatsService, logger *zap.Logger) *PresenceService {
	return &PresenceService{
		registry: registry,
		router:   router,
		stats:    stats,
		logger:   logger,
	}
}

func (s *PresenceService) HandleConnect(userID uuid.UUID) {
	s.announce(realtime.EventTypeUserOnline, userID)
	s.refreshStats()
}

func (s *PresenceService) HandleDisconnect(userID uuid.UUID) {
	s.announce(realtime.EventTypeUserOffline, userID)
	s.refreshStats()
}

// OnlineUsers returns the users currently connected on the presence topic.
func (s *PresenceService) OnlineUsers() []uuid.UUID {
	return s.registry.ActiveUserIDs()
}

func (s *PresenceService) announce(eventType string, userID uuid.UUID) {
	evt, err := realtime.NewEvent(eventType, realtime.PresencePayload{UserID: userID})
	if err != nil {
		s.logger.Error("marshal presence event", zap.Error(err))
		return
	}
	s.router.Publish(realtime.TopicPresence, evt)
}

func (s *PresenceService) refreshStats() {
	if err := s.stats.Broadcast(context.Background()); err != nil {
		s.logger.Warn("stats broadcast on presence change failed", zap.Error(err))
	}
}
