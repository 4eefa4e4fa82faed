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
	"github.com/friendscore/backend/internal/presence"
	"github.com/friendscore/backend/internal/realtime"
	"github.com/friendscore/backend/internal/repository"
)

var (
	ErrMessageNotFound = errors.New("chat message not found")
	ErrEmptyMessage    = errors.New("message must have text or media")
	ErrInvalidReceiver = errors.New("receiver is required")
)

// ChatService owns the chat message delivery lifecycle: Sent on creation,
// Delivered once the receiver's live chat connection gets the payload. Read
// is modeled but no operation transitions to it. Messages left in Sent are
// not re-flushed when the receiver reconnects; they surface through History.
type ChatService struct {
	messages      repository.MessageRepository
	notifications *NotificationService
	registry      *presence.Registry
	router        Router
	logger        *zap.Logger
}

func NewChatService(messages repository.MessageRepository, notifications *NotificationService, registry *presence.Registry, router Router, logger *zap.Logger) *ChatService {
	return &ChatService{
		messages:      messages,
		notifications: notifications,
		registry:      registry,
		router:        router,
		logger:        logger,
	}
}

type SendMessageInput struct {
	ReceiverID uuid.UUID `json:"receiver_id"`
	Text       string    `json:"text"`
	MediaURL   *string   `json:"media_url,omitempty"`
	MediaType  *string   `json:"media_type,omitempty"`
	SenderName string    `json:"sender_name"`
}

// Send persists a message as Sent, fans out a notification to the receiver,
// and advances the message to Delivered immediately when the receiver holds a
// live chat connection. The sender is told which of the two happened.
func (s *ChatService) Send(ctx context.Context, senderID uuid.UUID, input SendMessageInput) (*domain.ChatMessage, error) {
	if input.ReceiverID == uuid.Nil {
		return nil, ErrInvalidReceiver
	}
	if input.Text == "" && input.MediaURL == nil {
		return nil, ErrEmptyMessage
	}

	msg := &domain.ChatMessage{
		ID:         uuid.New(),
		SenderID:   senderID,
		ReceiverID: input.ReceiverID,
		Text:       input.Text,
		MediaURL:   input.MediaURL,
		MediaType:  input.MediaType,
		Status:     domain.MessageSent,
		CreatedAt:  time.Now(),
	}

	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("creating chat message: %w", err)
	}

	content := fmt.Sprintf("New message from %s", input.SenderName)
	if _, err := s.notifications.Notify(ctx, input.ReceiverID, domain.NotificationMessage, content, &senderID); err != nil {
		return nil, err
	}

	if _, online := s.registry.Lookup(input.ReceiverID, realtime.TopicChat); online {
		if err := s.messages.UpdateStatus(ctx, msg.ID, domain.MessageDelivered); err != nil {
			return nil, fmt.Errorf("marking message delivered: %w", err)
		}
		msg.Status = domain.MessageDelivered

		s.pushToReceiver(msg, input.SenderName)
		s.pushStatusToSender(realtime.EventTypeMessageDelivered, senderID, msg.ID)
		metrics.MessagesTotal.WithLabelValues("delivered").Inc()
	} else {
		s.pushStatusToSender(realtime.EventTypeMessageSent, senderID, msg.ID)
		metrics.MessagesTotal.WithLabelValues("queued").Inc()
	}

	return msg, nil
}

// MarkDelivered advances a Sent message to Delivered and informs the sender
// if they still hold a chat connection. A message already past Sent is left
// untouched.
func (s *ChatService) MarkDelivered(ctx context.Context, messageID uuid.UUID) error {
	msg, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg == nil {
		return ErrMessageNotFound
	}
	if msg.Status != domain.MessageSent {
		return nil
	}

	if err := s.messages.UpdateStatus(ctx, messageID, domain.MessageDelivered); err != nil {
		return fmt.Errorf("marking message delivered: %w", err)
	}

	s.pushStatusToSender(realtime.EventTypeMessageDelivered, msg.SenderID, messageID)
	return nil
}

// Typing forwards a transient typing indicator to the receiver's chat
// connection. Never persisted, never retried.
func (s *ChatService) Typing(receiverID uuid.UUID, senderName string) {
	evt, err := realtime.NewEvent(realtime.EventTypeUserTyping, realtime.UserTypingPayload{
		SenderName: senderName,
	})
	if err != nil {
		s.logger.Error("marshal typing event", zap.Error(err))
		return
	}
	s.router.PublishToUser(realtime.TopicChat, receiverID, evt)
}

// History returns the full conversation between two users, oldest first.
func (s *ChatService) History(ctx context.Context, userA, userB uuid.UUID) ([]domain.ChatMessage, error) {
	if userA == uuid.Nil || userB == uuid.Nil {
		return nil, ErrInvalidReceiver
	}
	msgs, err := s.messages.ListBetween(ctx, userA, userB)
	if err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []domain.ChatMessage{}
	}
	return msgs, nil
}

func (s *ChatService) pushToReceiver(msg *domain.ChatMessage, senderName string) {
	evt, err := realtime.NewEvent(realtime.EventTypeReceiveMessage, realtime.MessagePayload{
		MessageID:  msg.ID,
		FromUser:   msg.SenderID,
		ToUser:     msg.ReceiverID,
		Text:       msg.Text,
		MediaURL:   msg.MediaURL,
		MediaType:  msg.MediaType,
		SenderName: senderName,
		Timestamp:  msg.CreatedAt,
		Status:     msg.Status.String(),
	})
	if err != nil {
		s.logger.Error("marshal message event", zap.Error(err))
		return
	}
	s.router.PublishToUser(realtime.TopicChat, msg.ReceiverID, evt)
}

func (s *ChatService) pushStatusToSender(eventType string, senderID, messageID uuid.UUID) {
	evt, err := realtime.NewEvent(eventType, realtime.MessageStatusPayload{MessageID: messageID})
	if err != nil {
		s.logger.Error("marshal status event", zap.Error(err))
		return
	}
	s.router.PublishToUser(realtime.TopicChat, senderID, evt)
}
