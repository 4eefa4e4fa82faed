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

type friendFixture struct {
	svc       *FriendService
	users     *memUserRepo
	friends   *memFriendRepo
	notifRepo *memNotificationRepo
	router    *fakeRouter
}

func newFriendFixture() *friendFixture {
	users := &memUserRepo{}
	friends := &memFriendRepo{}
	notifRepo := &memNotificationRepo{}
	posts := &memPostRepo{}
	router := newFakeRouter()
	logger := zap.NewNop()

	notifications := NewNotificationService(notifRepo, router, logger)
	stats := NewStatsService(posts, friends, presence.NewRegistry(), router, logger)
	svc := NewFriendService(friends, users, notifications, stats, router, logger)
	return &friendFixture{svc: svc, users: users, friends: friends, notifRepo: notifRepo, router: router}
}

func (f *friendFixture) addUser(name string) uuid.UUID {
	u := &domain.User{ID: uuid.New(), Email: name + "@example.com", FullName: name, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	f.users.Create(context.Background(), u)
	return u.ID
}

func TestFriendService_SendRequest(t *testing.T) {
	req := require.New(t)
	f := newFriendFixture()
	alice := f.addUser("Alice")
	bob := f.addUser("Bob")

	request, err := f.svc.SendRequest(context.Background(), alice, bob)
	req.NoError(err)
	req.False(request.IsAccepted)

	// Broadcast on the friends topic
	req.Equal([]string{realtime.EventTypeFriendRequestReceived}, f.router.broadcastTypes(realtime.TopicFriends))

	// Recipient got a friend-request notification naming the sender
	ns, err := f.notifRepo.ListUnread(context.Background(), bob)
	req.NoError(err)
	req.Len(ns, 1)
	req.Equal(domain.NotificationFriendRequest, ns[0].Type)
	req.Contains(ns[0].Content, "Alice")
}

func TestFriendService_SendRequest_Duplicate(t *testing.T) {
	req := require.New(t)
	f := newFriendFixture()
	alice := f.addUser("Alice")
	bob := f.addUser("Bob")

	_, err := f.svc.SendRequest(context.Background(), alice, bob)
	req.NoError(err)

	// A second identical request is rejected before any write
	_, err = f.svc.SendRequest(context.Background(), alice, bob)
	req.ErrorIs(err, ErrDuplicateRequest)

	pending, err := f.svc.Pending(context.Background(), bob)
	req.NoError(err)
	req.Len(pending, 1)

	// The reverse direction is a distinct pair and goes through
	_, err = f.svc.SendRequest(context.Background(), bob, alice)
	req.NoError(err)
}

func TestFriendService_SendRequest_Self(t *testing.T) {
	req := require.New(t)
	f := newFriendFixture()
	alice := f.addUser("Alice")

	_, err := f.svc.SendRequest(context.Background(), alice, alice)
	req.ErrorIs(err, ErrCannotRequestSelf)
}

func TestFriendService_SendRequest_UnknownSender(t *testing.T) {
	req := require.New(t)
	f := newFriendFixture()
	bob := f.addUser("Bob")

	_, err := f.svc.SendRequest(context.Background(), uuid.New(), bob)
	req.ErrorIs(err, ErrSenderNotFound)
}

func TestFriendService_Accept(t *testing.T) {
	req := require.New(t)
	f := newFriendFixture()
	alice := f.addUser("Alice")
	bob := f.addUser("Bob")

	request, err := f.svc.SendRequest(context.Background(), alice, bob)
	req.NoError(err)

	req.NoError(f.svc.Accept(context.Background(), request.ID))

	// Accepted in place, gone from pending, present in both friend lists
	pending, err := f.svc.Pending(context.Background(), bob)
	req.NoError(err)
	req.Empty(pending)

	friends, err := f.svc.Friends(context.Background(), bob)
	req.NoError(err)
	req.Len(friends, 1)

	friends, err = f.svc.Friends(context.Background(), alice)
	req.NoError(err)
	req.Len(friends, 1)

	// Announced on the friends topic and reflected in a stats refresh
	req.Contains(f.router.broadcastTypes(realtime.TopicFriends), realtime.EventTypeFriendRequestAccepted)
	req.Contains(f.router.broadcastTypes(realtime.TopicStats), realtime.EventTypeStatsUpdate)

	req.ErrorIs(f.svc.Accept(context.Background(), uuid.New()), ErrRequestNotFound)
}

func TestFriendService_Reject_DeletesOutright(t *testing.T) {
	req := require.New(t)
	f := newFriendFixture()
	alice := f.addUser("Alice")
	bob := f.addUser("Bob")

	request, err := f.svc.SendRequest(context.Background(), alice, bob)
	req.NoError(err)

	req.NoError(f.svc.Reject(context.Background(), request.ID))

	pending, err := f.svc.Pending(context.Background(), bob)
	req.NoError(err)
	req.Empty(pending)

	// No rejected state survives; the same request may be sent again
	_, err = f.svc.SendRequest(context.Background(), alice, bob)
	req.NoError(err)

	req.ErrorIs(f.svc.Reject(context.Background(), uuid.New()), ErrRequestNotFound)
}

func TestFriendService_Suggestions(t *testing.T) {
	req := require.New(t)
	f := newFriendFixture()
	alice := f.addUser("Alice")
	bob := f.addUser("Bob")
	carol := f.addUser("Carol")
	dave := f.addUser("Dave")

	// Alice and Bob are friends; Alice sent Carol a pending request
	request, err := f.svc.SendRequest(context.Background(), alice, bob)
	req.NoError(err)
	req.NoError(f.svc.Accept(context.Background(), request.ID))
	_, err = f.svc.SendRequest(context.Background(), alice, carol)
	req.NoError(err)

	suggestions, err := f.svc.Suggestions(context.Background(), alice)
	req.NoError(err)

	// Self and accepted friends are excluded; the pending target is flagged
	byID := map[uuid.UUID]domain.UserSummary{}
	for _, s := range suggestions {
		byID[s.ID] = s
	}
	req.Len(byID, 2)
	req.NotContains(byID, alice)
	req.NotContains(byID, bob)
	req.True(byID[carol].RequestSent)
	req.False(byID[dave].RequestSent)
}
