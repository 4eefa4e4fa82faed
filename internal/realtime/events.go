package realtime

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/friendscore/backend/internal/domain"
)

// Event types - Client → Server
const (
	EventTypeChatSend          = "chat.send"
	EventTypeChatMarkDelivered = "chat.mark_delivered"
	EventTypeChatTyping        = "chat.typing"
	EventTypeMarkAllRead       = "notifications.mark_all_read"
	EventTypePing              = "ping"
)

// Event types - Server → Client
const (
	EventTypeUserOnline            = "user.online"
	EventTypeUserOffline           = "user.offline"
	EventTypeReceiveMessage        = "message.receive"
	EventTypeMessageDelivered      = "message.delivered"
	EventTypeMessageSent           = "message.sent"
	EventTypeUserTyping            = "user.typing"
	EventTypeReceiveNotification   = "notification.receive"
	EventTypeAllNotificationsRead  = "notification.all_read"
	EventTypeReceivePost           = "post.receive"
	EventTypeReceiveLike           = "post.like"
	EventTypeReceiveComment        = "post.comment"
	EventTypeFriendRequestReceived = "friend.request_received"
	EventTypeFriendRequestAccepted = "friend.request_accepted"
	EventTypeProfileUpdated        = "profile.updated"
	EventTypeStatsUpdate           = "stats.update"
	EventTypePong                  = "pong"
	EventTypeError                 = "error"
)

// Event is the base envelope for all WebSocket messages.
type Event struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"ts,omitempty"`
}

// --- Client → Server payloads ---

type ChatSendPayload struct {
	ReceiverID uuid.UUID `json:"receiver_id"`
	Text       string    `json:"text"`
	MediaURL   *string   `json:"media_url,omitempty"`
	MediaType  *string   `json:"media_type,omitempty"`
	SenderName string    `json:"sender_name"`
}

type MarkDeliveredPayload struct {
	MessageID uuid.UUID `json:"message_id"`
}

type TypingPayload struct {
	ReceiverID uuid.UUID `json:"receiver_id"`
	SenderName string    `json:"sender_name"`
}

// --- Server → Client payloads ---

type PresencePayload struct {
	UserID uuid.UUID `json:"user_id"`
}

type MessagePayload struct {
	MessageID  uuid.UUID `json:"message_id"`
	FromUser   uuid.UUID `json:"from_user"`
	ToUser     uuid.UUID `json:"to_user"`
	Text       string    `json:"text"`
	MediaURL   *string   `json:"media_url,omitempty"`
	MediaType  *string   `json:"media_type,omitempty"`
	SenderName string    `json:"sender_name"`
	Timestamp  time.Time `json:"timestamp"`
	Status     string    `json:"status"`
}

type MessageStatusPayload struct {
	MessageID uuid.UUID `json:"message_id"`
}

type UserTypingPayload struct {
	SenderName string `json:"sender_name"`
}

type NotificationPayload struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	IsRead    bool      `json:"is_read"`
}

type PostPayload struct {
	Post domain.Post `json:"post"`
}

type LikePayload struct {
	PostID   uuid.UUID `json:"post_id"`
	UserName string    `json:"user_name"`
}

type CommentPayload struct {
	PostID  uuid.UUID      `json:"post_id"`
	Comment domain.Comment `json:"comment"`
}

type FriendRequestReceivedPayload struct {
	ToUserID uuid.UUID `json:"to_user_id"`
}

type FriendRequestAcceptedPayload struct {
	FromUserID uuid.UUID `json:"from_user_id"`
}

type ProfileUpdatedPayload struct {
	UserID          uuid.UUID `json:"user_id"`
	FullName        string    `json:"full_name"`
	Bio             *string   `json:"bio,omitempty"`
	ProfileImageURL *string   `json:"profile_image_url,omitempty"`
}

type StatsPayload struct {
	TotalPosts      int `json:"total_posts"`
	PendingRequests int `json:"pending_requests"`
	OnlineUsers     int `json:"online_users"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewEvent creates a server→client event with the current timestamp.
func NewEvent(eventType string, payload any) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		Type:      eventType,
		Payload:   data,
		Timestamp: time.Now().Unix(),
	}, nil
}
