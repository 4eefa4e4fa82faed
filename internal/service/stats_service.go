package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/friendscore/backend/internal/metrics"
	"github.com/friendscore/backend/internal/presence"
	"github.com/friendscore/backend/internal/realtime"
	"github.com/friendscore/backend/internal/repository"
)

// StatsService computes the dashboard snapshot. Every trigger is a fresh
// recompute; there is no incremental accounting or debouncing.
type StatsService struct {
	posts    repository.PostRepository
	friends  repository.FriendRepository
	registry *presence.Registry
	router   Router
	logger   *zap.Logger
}

func NewStatsService(posts repository.PostRepository, friends repository.FriendRepository, registry *presence.Registry, router Router, logger *zap.Logger) *StatsService {
	return &StatsService{
		posts:    posts,
		friends:  friends,
		registry: registry,
		router:   router,
		logger:   logger,
	}
}

// Snapshot recomputes the dashboard numbers from the data store and the
// presence registry.
func (s *StatsService) Snapshot(ctx context.Context) (*realtime.StatsPayload, error) {
	totalPosts, err := s.posts.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting posts: %w", err)
	}

	pending, err := s.friends.CountPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting pending requests: %w", err)
	}

	return &realtime.StatsPayload{
		TotalPosts:      totalPosts,
		PendingRequests: pending,
		OnlineUsers:     s.registry.OnlineCount(),
	}, nil
}

// Broadcast recomputes the snapshot and publishes it to every stats
// subscriber.
func (s *StatsService) Broadcast(ctx context.Context) error {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return err
	}

	evt, err := realtime.NewEvent(realtime.EventTypeStatsUpdate, snap)
	if err != nil {
		s.logger.Error("marshal stats event", zap.Error(err))
		return nil
	}

	s.router.Publish(realtime.TopicStats, evt)
	metrics.StatsBroadcasts.Inc()
	return nil
}
