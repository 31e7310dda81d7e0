// Package memory holds an in-memory UserRepository used by tests.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Sumit-9900/backend-project/internal/domain"
)

type UserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := *user
	r.users[u.ID] = &u
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepo) GetByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if (username != "" && strings.EqualFold(u.Username, username)) ||
			(email != "" && strings.EqualFold(u.Email, email)) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) SetRefreshToken(ctx context.Context, id uuid.UUID, token *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.users[id]; ok {
		if token != nil {
			t := *token
			u.RefreshToken = &t
		} else {
			u.RefreshToken = nil
		}
		u.UpdatedAt = time.Now()
	}
	return nil
}

func (r *UserRepo) SwapRefreshToken(ctx context.Context, id uuid.UUID, current, next string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok || u.RefreshToken == nil || *u.RefreshToken != current {
		return false, nil
	}
	t := next
	u.RefreshToken = &t
	u.UpdatedAt = time.Now()
	return true, nil
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.users[id]; ok {
		u.PasswordHash = passwordHash
		u.UpdatedAt = time.Now()
	}
	return nil
}

func (r *UserRepo) UpdateDetails(ctx context.Context, id uuid.UUID, username, email, fullName *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.users[id]; ok {
		if username != nil {
			u.Username = *username
		}
		if email != nil {
			u.Email = *email
		}
		if fullName != nil {
			u.FullName = *fullName
		}
		u.UpdatedAt = time.Now()
	}
	return nil
}

func (r *UserRepo) UpdateAvatar(ctx context.Context, id uuid.UUID, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.users[id]; ok {
		u.Avatar = url
		u.UpdatedAt = time.Now()
	}
	return nil
}

func (r *UserRepo) UpdateCoverImage(ctx context.Context, id uuid.UUID, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.users[id]; ok {
		u.CoverImage = url
		u.UpdatedAt = time.Now()
	}
	return nil
}
