package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Sumit-9900/backend-project/internal/domain"
)

const userColumns = "id, username, email, full_name, avatar, cover_image, password_hash, refresh_token, created_at, updated_at"

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, username, email, full_name, avatar, cover_image, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		user.ID, user.Username, user.Email, user.FullName,
		user.Avatar, user.CoverImage, user.PasswordHash,
		user.CreatedAt, user.UpdatedAt,
	)
	return err
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.scanUser(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
}

func (r *UserRepo) GetByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error) {
	return r.scanUser(ctx,
		"SELECT "+userColumns+" FROM users WHERE LOWER(username) = LOWER($1) OR LOWER(email) = LOWER($2)",
		username, email,
	)
}

func (r *UserRepo) SetRefreshToken(ctx context.Context, id uuid.UUID, token *string) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE users SET refresh_token = $2, updated_at = $3 WHERE id = $1",
		id, token, time.Now(),
	)
	return err
}

func (r *UserRepo) SwapRefreshToken(ctx context.Context, id uuid.UUID, current, next string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		"UPDATE users SET refresh_token = $3, updated_at = $4 WHERE id = $1 AND refresh_token = $2",
		id, current, next, time.Now(),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1",
		id, passwordHash, time.Now(),
	)
	return err
}

func (r *UserRepo) UpdateDetails(ctx context.Context, id uuid.UUID, username, email, fullName *string) error {
	query := `
		UPDATE users
		SET username = COALESCE($2, username),
		    email = COALESCE($3, email),
		    full_name = COALESCE($4, full_name),
		    updated_at = $5
		WHERE id = $1`

	_, err := r.pool.Exec(ctx, query, id, username, email, fullName, time.Now())
	return err
}

func (r *UserRepo) UpdateAvatar(ctx context.Context, id uuid.UUID, url string) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE users SET avatar = $2, updated_at = $3 WHERE id = $1",
		id, url, time.Now(),
	)
	return err
}

func (r *UserRepo) UpdateCoverImage(ctx context.Context, id uuid.UUID, url string) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE users SET cover_image = $2, updated_at = $3 WHERE id = $1",
		id, url, time.Now(),
	)
	return err
}

func (r *UserRepo) scanUser(ctx context.Context, query string, args ...any) (*domain.User, error) {
	var u domain.User
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&u.ID, &u.Username, &u.Email, &u.FullName,
		&u.Avatar, &u.CoverImage, &u.PasswordHash, &u.RefreshToken,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
