package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/friendscore/backend/internal/domain"
	"github.com/friendscore/backend/internal/metrics"
	"github.com/friendscore/backend/internal/realtime"
	"github.com/friendscore/backend/internal/repository"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationService persists notifications for domain events and pushes
// them to the owner's live notifications connection when there is one.
type NotificationService struct {
	repo   repository.NotificationRepository
	router Router
	logger *zap.Logger
}

func NewNotificationService(repo repository.NotificationRepository, router Router, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		repo:   repo,
		router: router,
		logger: logger,
	}
}

// Notify persists a notification and then pushes it best-effort. The push
// never fails the call: an offline owner discovers the notification later via
// ListUnread.
func (s *NotificationService) Notify(ctx context.Context, ownerID uuid.UUID, typ domain.NotificationType, content string, fromUserID *uuid.UUID) (*domain.Notification, error) {
	n := &domain.Notification{
		ID:         uuid.New(),
		UserID:     ownerID,
		FromUserID: fromUserID,
		Content:    content,
		Type:       typ,
		IsRead:     false,
		CreatedAt:  time.Now(),
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("creating notification: %w", err)
	}

	s.push(n)
	return n, nil
}

func (s *NotificationService) push(n *domain.Notification) {
	evt, err := realtime.NewEvent(realtime.EventTypeReceiveNotification, realtime.NotificationPayload{
		ID:        n.ID,
		Type:      n.Type.String(),
		Content:   n.Content,
		CreatedAt: n.CreatedAt,
		IsRead:    n.IsRead,
	})
	if err != nil {
		s.logger.Error("marshal notification event", zap.Error(err))
		return
	}

	if s.router.PublishToUser(realtime.TopicNotifications, n.UserID, evt) {
		metrics.NotificationPushes.WithLabelValues("pushed").Inc()
	} else {
		metrics.NotificationPushes.WithLabelValues("missed").Inc()
		s.logger.Debug("notification push missed, owner offline",
			zap.String("user_id", n.UserID.String()))
	}
}

// MarkAllRead flips every unread notification for the user in one batch and
// informs the caller's own connection. Idempotent.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.MarkAllRead(ctx, userID); err != nil {
		return fmt.Errorf("marking notifications read: %w", err)
	}

	evt, err := realtime.NewEvent(realtime.EventTypeAllNotificationsRead, nil)
	if err != nil {
		s.logger.Error("marshal all-read event", zap.Error(err))
		return nil
	}
	s.router.PublishToUser(realtime.TopicNotifications, userID, evt)
	return nil
}

// MarkOneRead flips a single notification to read.
func (s *NotificationService) MarkOneRead(ctx context.Context, id uuid.UUID) error {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if n == nil {
		return ErrNotificationNotFound
	}
	return s.repo.MarkRead(ctx, id)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *NotificationService) ListUnread(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	ns, err := s.repo.ListUnread(ctx, userID)
	if err != nil {
		return nil, err
	}
	if ns == nil {
		ns = []domain.Notification{}
	}
	return ns, nil
}

func (s *NotificationService) ListAll(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	ns, err := s.repo.ListAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	if ns == nil {
		ns = []domain.Notification{}
	}
	return ns, nil
}
