package domain

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType int

const (
	NotificationFriendRequest NotificationType = iota
	NotificationMessage
	NotificationFriendSuggestion
)

func (t NotificationType) String() string {
	switch t {
	case NotificationFriendRequest:
		return "friend_request"
	case NotificationMessage:
		return "message"
	case NotificationFriendSuggestion:
		return "friend_suggestion"
	default:
		return "unknown"
	}
}

type Notification struct {
	ID         uuid.UUID        `json:"id"`
	UserID     uuid.UUID        `json:"user_id"`
	FromUserID *uuid.UUID       `json:"from_user_id,omitempty"`
	Content    string           `json:"content"`
	Type       NotificationType `json:"type"`
	IsRead     bool             `json:"is_read"`
	CreatedAt  time.Time        `json:"created_at"`
}
