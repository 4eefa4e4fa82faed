package domain

import (
	"time"

	"github.com/google/uuid"
)

// FriendRequest is pending while IsAccepted is false. Rejecting deletes the
// row outright; there is no rejected state.
type FriendRequest struct {
	ID         uuid.UUID `json:"id"`
	FromUserID uuid.UUID `json:"from_user_id"`
	ToUserID   uuid.UUID `json:"to_user_id"`
	IsAccepted bool      `json:"is_accepted"`
	CreatedAt  time.Time `json:"created_at"`
	// Joined fields
	FromUserName     string  `json:"from_user_name,omitempty"`
	FromUserImageURL *string `json:"from_user_image_url,omitempty"`
}

// UserSummary is the public card shown in friends lists and suggestions.
type UserSummary struct {
	ID              uuid.UUID `json:"id"`
	FullName        string    `json:"full_name"`
	ProfileImageURL *string   `json:"profile_image_url,omitempty"`
	RequestSent     bool      `json:"request_sent,omitempty"`
}
