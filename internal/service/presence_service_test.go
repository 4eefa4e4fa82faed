package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/friendscore/backend/internal/presence"
	"github.com/friendscore/backend/internal/realtime"
)

func newPresenceFixture() (*PresenceService, *presence.Registry, *fakeRouter) {
	registry := presence.NewRegistry()
	router := newFakeRouter()
	logger := zap.NewNop()
	stats := NewStatsService(&memPostRepo{}, &memFriendRepo{}, registry, router, logger)
	return NewPresenceService(registry, router, stats, logger), registry, router
}

func TestPresenceService_ConnectAndDisconnect(t *testing.T) {
	req := require.New(t)
	svc, registry, router := newPresenceFixture()
	alice := uuid.New()
	bob := uuid.New()

	// Two users come online
	registry.Register(alice, realtime.TopicPresence, "c1")
	svc.HandleConnect(alice)
	registry.Register(bob, realtime.TopicPresence, "c2")
	svc.HandleConnect(bob)

	req.Equal([]string{realtime.EventTypeUserOnline, realtime.EventTypeUserOnline},
		router.broadcastTypes(realtime.TopicPresence))
	req.ElementsMatch([]uuid.UUID{alice, bob}, svc.OnlineUsers())

	// Every presence change is followed by a stats refresh
	req.Len(router.broadcastTypes(realtime.TopicStats), 2)

	// One user drops
	registry.Unregister(alice, realtime.TopicPresence, "c1")
	svc.HandleDisconnect(alice)

	types := router.broadcastTypes(realtime.TopicPresence)
	req.Equal(realtime.EventTypeUserOffline, types[len(types)-1])
	req.ElementsMatch([]uuid.UUID{bob}, svc.OnlineUsers())
	req.Len(router.broadcastTypes(realtime.TopicStats), 3)
}
