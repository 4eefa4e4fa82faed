package domain

import (
	"time"

	"github.com/google/uuid"
)

// MessageStatus is the delivery lifecycle of a chat message. It only moves
// forward: Sent → Delivered. Read exists in the schema but no operation
// currently transitions to it.
type MessageStatus int

const (
	MessageSent MessageStatus = iota
	MessageDelivered
	MessageRead
)

func (s MessageStatus) String() string {
	switch s {
	case MessageSent:
		return "sent"
	case MessageDelivered:
		return "delivered"
	case MessageRead:
		return "read"
	default:
		return "unknown"
	}
}

type ChatMessage struct {
	ID         uuid.UUID     `json:"id"`
	SenderID   uuid.UUID     `json:"sender_id"`
	ReceiverID uuid.UUID     `json:"receiver_id"`
	Text       string        `json:"text"`
	MediaURL   *string       `json:"media_url,omitempty"`
	MediaType  *string       `json:"media_type,omitempty"` // "image", "file", etc.
	Status     MessageStatus `json:"status"`
	CreatedAt  time.Time     `json:"created_at"`
}
