package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/friendscore/backend/internal/domain"
	"github.com/friendscore/backend/internal/realtime"
	"github.com/friendscore/backend/internal/repository"
)

type ProfileService struct {
	users  repository.UserRepository
	router Router
	logger *zap.Logger
}

func NewProfileService(users repository.UserRepository, router Router, logger *zap.Logger) *ProfileService {
	return &ProfileService{
		users:  users,
		router: router,
		logger: logger,
	}
}

type UpdateProfileInput struct {
	FullName string  `json:"full_name"`
	Bio      *string `json:"bio,omitempty"`
	ImageURL *string `json:"profile_image_url,omitempty"`
}

// Update persists the profile change and pushes it to the user's own
// profile-topic connection.
func (s *ProfileService) Update(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	user.FullName = input.FullName
	user.Bio = input.Bio
	user.ProfileImageURL = input.ImageURL
	user.UpdatedAt = time.Now()

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("updating profile: %w", err)
	}

	evt, err := realtime.NewEvent(realtime.EventTypeProfileUpdated, realtime.ProfileUpdatedPayload{
		UserID:          user.ID,
		FullName:        user.FullName,
		Bio:             user.Bio,
		ProfileImageURL: user.ProfileImageURL,
	})
	if err != nil {
		s.logger.Error("marshal profile event", zap.Error(err))
		return user, nil
	}
	s.router.PublishToUser(realtime.TopicProfile, userID, evt)

	return user, nil
}
