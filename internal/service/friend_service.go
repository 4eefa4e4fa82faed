package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/friendscore/backend/internal/domain"
	"github.com/friendscore/backend/internal/realtime"
	"github.com/friendscore/backend/internal/repository"
)

var (
	ErrCannotRequestSelf = errors.New("cannot send a friend request to yourself")
	ErrDuplicateRequest  = errors.New("a pending request already exists")
	ErrRequestNotFound   = errors.New("friend request not found")
	ErrSenderNotFound    = errors.New("sending user not found")
)

// FriendService owns the friend request lifecycle: pending on creation,
// accepted in place, or deleted outright on reject.
type FriendService struct {
	friends       repository.FriendRepository
	users         repository.UserRepository
	notifications *NotificationService
	stats         *StatsService
	router        Router
	logger        *zap.Logger
}

func NewFriendService(friends repository.FriendRepository, users repository.UserRepository, notifications *NotificationService, stats *StatsService, router Router, logger *zap.Logger) *FriendService {
	return &FriendService{
		friends:       friends,
		users:         users,
		notifications: notifications,
		stats:         stats,
		router:        router,
		logger:        logger,
	}
}

// SendRequest creates a pending friend request. At most one pending
// (from, to) pair may exist; duplicates are rejected before any write.
func (s *FriendService) SendRequest(ctx context.Context, fromUserID, toUserID uuid.UUID) (*domain.FriendRequest, error) {
	if fromUserID == toUserID {
		return nil, ErrCannotRequestSelf
	}

	exists, err := s.friends.PendingRequestExists(ctx, fromUserID, toUserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateRequest
	}

	sender, err := s.users.GetByID(ctx, fromUserID)
	if err != nil {
		return nil, err
	}
	if sender == nil {
		return nil, ErrSenderNotFound
	}

	req := &domain.FriendRequest{
		ID:         uuid.New(),
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		IsAccepted: false,
		CreatedAt:  time.Now(),
	}

	if err := s.friends.CreateRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("creating friend request: %w", err)
	}

	s.broadcast(realtime.EventTypeFriendRequestReceived, realtime.FriendRequestReceivedPayload{
		ToUserID: toUserID,
	})

	content := fmt.Sprintf("You received a friend request from %s", sender.FullName)
	if _, err := s.notifications.Notify(ctx, toUserID, domain.NotificationFriendRequest, content, &fromUserID); err != nil {
		return nil, err
	}

	return req, nil
}

// Accept marks a pending request accepted, announces it on the friends
// topic, and refreshes the dashboard stats.
func (s *FriendService) Accept(ctx context.Context, requestID uuid.UUID) error {
	req, err := s.friends.GetRequestByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req == nil {
		return ErrRequestNotFound
	}

	if err := s.friends.AcceptRequest(ctx, requestID); err != nil {
		return fmt.Errorf("accepting friend request: %w", err)
	}

	s.broadcast(realtime.EventTypeFriendRequestAccepted, realtime.FriendRequestAcceptedPayload{
		FromUserID: req.FromUserID,
	})
	s.refreshStats(ctx)
	return nil
}

// Reject deletes a pending request outright; no rejected state is kept.
func (s *FriendService) Reject(ctx context.Context, requestID uuid.UUID) error {
	req, err := s.friends.GetRequestByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req == nil {
		return ErrRequestNotFound
	}

	if err := s.friends.DeleteRequest(ctx, requestID); err != nil {
		return fmt.Errorf("rejecting friend request: %w", err)
	}

	s.refreshStats(ctx)
	return nil
}

// Pending returns the unaccepted requests addressed to the user.
func (s *FriendService) Pending(ctx context.Context, toUserID uuid.UUID) ([]domain.FriendRequest, error) {
	reqs, err := s.friends.ListPending(ctx, toUserID)
	if err != nil {
		return nil, err
	}
	if reqs == nil {
		reqs = []domain.FriendRequest{}
	}
	return reqs, nil
}

// Friends returns the user's accepted friends.
func (s *FriendService) Friends(ctx context.Context, userID uuid.UUID) ([]domain.UserSummary, error) {
	friends, err := s.friends.ListFriends(ctx, userID)
	if err != nil {
		return nil, err
	}
	if friends == nil {
		friends = []domain.UserSummary{}
	}
	return friends, nil
}

// Suggestions returns users the viewer is not friends with, flagging those
// they already sent a pending request to.
func (s *FriendService) Suggestions(ctx context.Context, userID uuid.UUID) ([]domain.UserSummary, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	requests, err := s.friends.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	friendIDs := make(map[uuid.UUID]struct{})
	pendingSent := make(map[uuid.UUID]struct{})
	for _, req := range requests {
		other := req.ToUserID
		if req.ToUserID == userID {
			other = req.FromUserID
		}
		if req.IsAccepted {
			friendIDs[other] = struct{}{}
		} else if req.FromUserID == userID {
			pendingSent[req.ToUserID] = struct{}{}
		}
	}

	suggestions := []domain.UserSummary{}
	for _, u := range users {
		if u.ID == userID {
			continue
		}
		if _, ok := friendIDs[u.ID]; ok {
			continue
		}
		_, sent := pendingSent[u.ID]
		suggestions = append(suggestions, domain.UserSummary{
			ID:              u.ID,
			FullName:        u.FullName,
			ProfileImageURL: u.ProfileImageURL,
			RequestSent:     sent,
		})
	}
	return suggestions, nil
}

func (s *FriendService) broadcast(eventType string, payload any) {
	evt, err := realtime.NewEvent(eventType, payload)
	if err != nil {
		s.logger.Error("marshal friend event", zap.Error(err))
		return
	}
	s.router.Publish(realtime.TopicFriends, evt)
}

func (s *FriendService) refreshStats(ctx context.Context) {
	if err := s.stats.Broadcast(ctx); err != nil {
		s.logger.Warn("stats broadcast on friend change failed", zap.Error(err))
	}
}
