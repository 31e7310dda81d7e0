package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Sumit-9900/backend-project/internal/domain"
	"github.com/Sumit-9900/backend-project/internal/media"
	"github.com/Sumit-9900/backend-project/internal/repository"
)

var ErrNoChanges = errors.New("no changes detected in the user details")

type UserService struct {
	userRepo repository.UserRepository
	uploader media.Uploader
}

func NewUserService(userRepo repository.UserRepository, uploader media.Uploader) *UserService {
	return &UserService{userRepo: userRepo, uploader: uploader}
}

func (s *UserService) CurrentUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

type UpdateDetailsInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

// UpdateDetails persists whichever of the three fields are supplied and
// differ from the stored values. Supplying only unchanged values is rejected.
func (s *UserService) UpdateDetails(ctx context.Context, userID uuid.UUID, input UpdateDetailsInput) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	var username, email, fullName *string

	if v := strings.ToLower(strings.TrimSpace(input.Username)); v != "" && v != user.Username {
		username = &v
		user.Username = v
	}
	if v := strings.TrimSpace(input.Email); v != "" && v != user.Email {
		email = &v
		user.Email = v
	}
	if v := strings.TrimSpace(input.FullName); v != "" && v != user.FullName {
		fullName = &v
		user.FullName = v
	}

	if username == nil && email == nil && fullName == nil {
		return nil, ErrNoChanges
	}

	if err := s.userRepo.UpdateDetails(ctx, userID, username, email, fullName); err != nil {
		return nil, fmt.Errorf("updating user details: %w", err)
	}

	return user, nil
}

func (s *UserService) UpdateAvatar(ctx context.Context, userID uuid.UUID, localPath string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	url, err := s.uploader.Upload(ctx, localPath)
	if err != nil || url == "" {
		return nil, ErrAvatarUpload
	}

	if err := s.userRepo.UpdateAvatar(ctx, userID, url); err != nil {
		return nil, fmt.Errorf("updating avatar: %w", err)
	}
	user.Avatar = url

	return user, nil
}

func (s *UserService) UpdateCoverImage(ctx context.Context, userID uuid.UUID, localPath string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	url, err := s.uploader.Upload(ctx, localPath)
	if err != nil || url == "" {
		return nil, ErrAvatarUpload
	}

	if err := s.userRepo.UpdateCoverImage(ctx, userID, url); err != nil {
		return nil, fmt.Errorf("updating cover image: %w", err)
	}
	user.CoverImage = url

	return user, nil
}
