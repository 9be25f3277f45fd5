package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"finmind/internal/domain/user"
)

type UserRepository struct {
	mu     sync.RWMutex
	users  map[int64]*user.User
	nextID int64
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[int64]*user.User), nextID: 1}
}

func (r *UserRepository) Create(ctx context.Context, params user.CreateUserParams) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, params.Email) {
			return nil, user.ErrEmailTaken
		}
	}

	now := time.Now()
	u := &user.User{
		ID:           r.nextID,
		Email:        params.Email,
		Name:         params.Name,
		PasswordHash: params.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.nextID++
	r.users[u.ID] = u

	out := *u
	return &out, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, exists := r.users[id]
	if !exists {
		return nil, nil
	}
	out := *u
	return &out, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			out := *u
			return &out, nil
		}
	}
	return nil, nil
}
