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
	ErrPostNotFound = errors.New("post not found")
	ErrEmptyComment = errors.New("comment text is required")
	ErrUserNotFound = errors.New("user not found")
)

type PostService struct {
	posts         repository.PostRepository
	users         repository.UserRepository
	notifications *NotificationService
	router        Router
	logger        *zap.Logger
}

func NewPostService(posts repository.PostRepository, users repository.UserRepository, notifications *NotificationService, router Router, logger *zap.Logger) *PostService {
	return &PostService{
		posts:         posts,
		users:         users,
		notifications: notifications,
		router:        router,
		logger:        logger,
	}
}

type CreatePostInput struct {
	Content  string  `json:"content"`
	ImageURL *string `json:"image_url,omitempty"`
}

// Create persists a post and broadcasts it to every posts subscriber.
func (s *PostService) Create(ctx context.Context, authorID uuid.UUID, input CreatePostInput) (*domain.Post, error) {
	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, ErrUserNotFound
	}

	post := &domain.Post{
		ID:         uuid.New(),
		AuthorID:   author.ID,
		AuthorName: author.FullName,
		Content:    input.Content,
		ImageURL:   input.ImageURL,
		CreatedAt:  time.Now(),
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("creating post: %w", err)
	}

	s.broadcast(realtime.EventTypeReceivePost, realtime.PostPayload{Post: *post})
	return post, nil
}

// Like records a like once per user per post, broadcasts it, and notifies
// the author unless they liked their own post. A repeated like is a no-op.
func (s *PostService) Like(ctx context.Context, postID, userID uuid.UUID) error {
	actor, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if actor == nil {
		return ErrUserNotFound
	}
	userName := actor.FullName

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}

	liked, err := s.posts.HasLike(ctx, postID, userID)
	if err != nil {
		return err
	}
	if liked {
		return nil
	}

	like := &domain.Like{
		ID:        uuid.New(),
		PostID:    postID,
		UserID:    userID,
		UserName:  userName,
		CreatedAt: time.Now(),
	}
	if err := s.posts.CreateLike(ctx, like); err != nil {
		return fmt.Errorf("creating like: %w", err)
	}

	s.broadcast(realtime.EventTypeReceiveLike, realtime.LikePayload{
		PostID:   postID,
		UserName: userName,
	})

	if post.AuthorID != userID {
		content := fmt.Sprintf("%s liked your post", userName)
		if _, err := s.notifications.Notify(ctx, post.AuthorID, domain.NotificationFriendRequest, content, &userID); err != nil {
			return err
		}
	}
	return nil
}

// Comment persists a comment, broadcasts it, and notifies the author unless
// they commented on their own post.
func (s *PostService) Comment(ctx context.Context, postID, userID uuid.UUID, text string) (*domain.Comment, error) {
	if text == "" {
		return nil, ErrEmptyComment
	}

	actor, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, ErrUserNotFound
	}
	userName := actor.FullName

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	comment := &domain.Comment{
		ID:        uuid.New(),
		PostID:    postID,
		UserID:    userID,
		UserName:  userName,
		Text:      text,
		CreatedAt: time.Now(),
	}
	if err := s.posts.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("creating comment: %w", err)
	}

	s.broadcast(realtime.EventTypeReceiveComment, realtime.CommentPayload{
		PostID:  postID,
		Comment: *comment,
	})

	if post.AuthorID != userID {
		content := fmt.Sprintf("%s commented on your post: %q", userName, text)
		if _, err := s.notifications.Notify(ctx, post.AuthorID, domain.NotificationFriendRequest, content, &userID); err != nil {
			return nil, err
		}
	}
	return comment, nil
}

func (s *PostService) ListAll(ctx context.Context) ([]domain.Post, error) {
	posts, err := s.posts.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []domain.Post{}
	}
	return posts, nil
}

func (s *PostService) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]domain.Post, error) {
	posts, err := s.posts.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []domain.Post{}
	}
	return posts, nil
}

func (s *PostService) broadcast(eventType string, payload any) {
	evt, err := realtime.NewEvent(eventType, payload)
	if err != nil {
		s.logger.Error("marshal post event", zap.Error(err))
		return
	}
	s.router.Publish(realtime.TopicPosts, evt)
}
