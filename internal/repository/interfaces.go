package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/friendscore/backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	UpdateProfile(ctx context.Context, user *domain.User) error
}

type MessageRepository interface {
	Create(ctx context.Context, msg *domain.ChatMessage) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ChatMessage, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.MessageStatus) error
	ListBetween(ctx context.Context, userA, userB uuid.UUID) ([]domain.ChatMessage, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
	ListUnread(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error)
	ListAll(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error)
}

type FriendRepository interface {
	CreateRequest(ctx context.Context, req *domain.FriendRequest) error
	GetRequestByID(ctx context.Context, id uuid.UUID) (*domain.FriendRequest, error)
	PendingRequestExists(ctx context.Context, fromUserID, toUserID uuid.UUID) (bool, error)
	AcceptRequest(ctx context.Context, id uuid.UUID) error
	DeleteRequest(ctx context.Context, id uuid.UUID) error
	ListPending(ctx context.Context, toUserID uuid.UUID) ([]domain.FriendRequest, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.FriendRequest, error)
	ListFriends(ctx context.Context, userID uuid.UUID) ([]domain.UserSummary, error)
	CountPending(ctx context.Context) (int, error)
}

type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	ListAll(ctx context.Context) ([]domain.Post, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]domain.Post, error)
	Count(ctx context.Context) (int, error)
	HasLike(ctx context.Context, postID, userID uuid.UUID) (bool, error)
	CreateLike(ctx context.Context, like *domain.Like) error
	CreateComment(ctx context.Context, comment *domain.Comment) error
}
