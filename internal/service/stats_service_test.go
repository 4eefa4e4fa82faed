package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/friendscore/backend/internal/domain"
	"github.com/friendscore/backend/internal/presence"
	"github.com/friendscore/backend/internal/realtime"
)

func TestStatsService_Snapshot(t *testing.T) {
	req := require.New(t)
	posts := &memPostRepo{}
	friends := &memFriendRepo{}
	registry := presence.NewRegistry()
	router := newFakeRouter()
	svc := NewStatsService(posts, friends, registry, router, zap.NewNop())

	posts.Create(context.Background(), &domain.Post{ID: uuid.New(), CreatedAt: time.Now()})
	posts.Create(context.Background(), &domain.Post{ID: uuid.New(), CreatedAt: time.Now()})

	// One pending and one accepted request: only pending counts
	friends.CreateRequest(context.Background(), &domain.FriendRequest{ID: uuid.New(), FromUserID: uuid.New(), ToUserID: uuid.New()})
	accepted := &domain.FriendRequest{ID: uuid.New(), FromUserID: uuid.New(), ToUserID: uuid.New(), IsAccepted: true}
	friends.CreateRequest(context.Background(), accepted)

	registry.Register(uuid.New(), realtime.TopicPresence, "c1")
	registry.Register(uuid.New(), realtime.TopicPresence, "c2")
	registry.Register(uuid.New(), realtime.TopicChat, "c3")

	snap, err := svc.Snapshot(context.Background())
	req.NoError(err)
	req.Equal(2, snap.TotalPosts)
	req.Equal(1, snap.PendingRequests)
	req.Equal(2, snap.OnlineUsers)
}

func TestStatsService_Broadcast(t *testing.T) {
	req := require.New(t)
	router := newFakeRouter()
	svc := NewStatsService(&memPostRepo{}, &memFriendRepo{}, presence.NewRegistry(), router, zap.NewNop())

	req.NoError(svc.Broadcast(context.Background()))

	req.Equal([]string{realtime.EventTypeStatsUpdate}, router.broadcastTypes(realtime.TopicStats))
}
