package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Sumit-9900/backend-project/internal/domain"
	"github.com/Sumit-9900/backend-project/internal/media"
	"github.com/Sumit-9900/backend-project/internal/repository"
	"github.com/Sumit-9900/backend-project/internal/token"
)

var (
	ErrUserExists          = errors.New("user with email or username already exists")
	ErrUserNotFound        = errors.New("user does not exist")
	ErrInvalidCredentials  = errors.New("invalid user credentials")
	ErrAvatarRequired      = errors.New("avatar file is required")
	ErrAvatarUpload        = errors.New("failed to upload avatar")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenReused  = errors.New("refresh token is expired or already used")
	ErrSamePassword        = errors.New("new password must be different from the old password")
	ErrInvalidOldPassword  = errors.New("invalid old password")
)

type AuthService struct {
	userRepo repository.UserRepository
	tokens   *token.Manager
	uploader media.Uploader
}

func NewAuthService(userRepo repository.UserRepository, tokens *token.Manager, uploader media.Uploader) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		uploader: uploader,
	}
}

type RegisterInput struct {
	Username       string
	Email          string
	FullName       string
	Password       string
	AvatarPath     string
	CoverImagePath string
}

type LoginInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	email := strings.TrimSpace(input.Email)

	// Uniqueness is checked before uploading media so a conflict never
	// leaves an orphaned object behind.
	existing, err := s.userRepo.GetByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	if input.AvatarPath == "" {
		return nil, ErrAvatarRequired
	}

	avatarURL, err := s.uploader.Upload(ctx, input.AvatarPath)
	if err != nil || avatarURL == "" {
		return nil, ErrAvatarUpload
	}

	// The cover image is optional and a failed upload degrades to none.
	var coverURL string
	if input.CoverImagePath != "" {
		if url, err := s.uploader.Upload(ctx, input.CoverImagePath); err == nil {
			coverURL = url
		}
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		FullName:     strings.TrimSpace(input.FullName),
		Avatar:       avatarURL,
		CoverImage:   coverURL,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*domain.User, token.Pair, error) {
	user, err := s.userRepo.GetByUsernameOrEmail(ctx, strings.TrimSpace(input.Username), strings.TrimSpace(input.Email))
	if err != nil {
		return nil, token.Pair{}, fmt.Errorf("looking up user: %w", err)
	}
	if user == nil {
		return nil, token.Pair{}, ErrUserNotFound
	}

	if !verifyPassword(input.Password, user.PasswordHash) {
		return nil, token.Pair{}, ErrInvalidCredentials
	}

	pair, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return nil, token.Pair{}, fmt.Errorf("issuing tokens: %w", err)
	}

	if err := s.userRepo.SetRefreshToken(ctx, user.ID, &pair.RefreshToken); err != nil {
		return nil, token.Pair{}, fmt.Errorf("storing refresh token: %w", err)
	}
	user.RefreshToken = &pair.RefreshToken

	return user, pair, nil
}

func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.userRepo.SetRefreshToken(ctx, userID, nil); err != nil {
		return fmt.Errorf("clearing refresh token: %w", err)
	}
	return nil
}

// Refresh exchanges a valid refresh token for a new pair, rotating the stored
// token. A token that no longer matches the stored value is treated as
// replayed and rejected.
func (s *AuthService) Refresh(ctx context.Context, incoming string) (token.Pair, error) {
	if incoming == "" {
		return token.Pair{}, ErrInvalidRefreshToken
	}

	claims, err := s.tokens.Verify(incoming, token.TypeRefresh)
	if err != nil {
		return token.Pair{}, ErrInvalidRefreshToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return token.Pair{}, ErrInvalidRefreshToken
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return token.Pair{}, fmt.Errorf("looking up user: %w", err)
	}
	if user == nil {
		return token.Pair{}, ErrInvalidRefreshToken
	}

	if user.RefreshToken == nil ||
		subtle.ConstantTimeCompare([]byte(*user.RefreshToken), []byte(incoming)) != 1 {
		return token.Pair{}, ErrRefreshTokenReused
	}

	pair, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return token.Pair{}, fmt.Errorf("issuing tokens: %w", err)
	}

	swapped, err := s.userRepo.SwapRefreshToken(ctx, user.ID, incoming, pair.RefreshToken)
	if err != nil {
		return token.Pair{}, fmt.Errorf("rotating refresh token: %w", err)
	}
	if !swapped {
		// A concurrent refresh rotated the token first.
		return token.Pair{}, ErrRefreshTokenReused
	}

	return pair, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	if oldPassword == newPassword {
		return ErrSamePassword
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("looking up user: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}

	if !verifyPassword(oldPassword, user.PasswordHash) {
		return ErrInvalidOldPassword
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	// The stored refresh token is left untouched; existing sessions stay
	// valid after a password change.
	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("updating password: %w", err)
	}

	return nil
}
