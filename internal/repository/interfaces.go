package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/Sumit-9900/backend-project/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error)

	// SetRefreshToken overwrites the stored refresh token. A nil token clears
	// it (logout).
	SetRefreshToken(ctx context.Context, id uuid.UUID, token *string) error

	// SwapRefreshToken replaces the stored refresh token only if it still
	// equals current. Returns false when another rotation got there first.
	SwapRefreshToken(ctx context.Context, id uuid.UUID, current, next string) (bool, error)

	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error

	// UpdateDetails persists only the non-nil fields.
	UpdateDetails(ctx context.Context, id uuid.UUID, username, email, fullName *string) error

	UpdateAvatar(ctx context.Context, id uuid.UUID, url string) error
	UpdateCoverImage(ctx context.Context, id uuid.UUID, url string) error
}
