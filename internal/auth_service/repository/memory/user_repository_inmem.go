package memory

import (
	"context"
	"sync"

	"github.com/aradsms/contactbook/internal/auth_service/domain"
)

// UserRepository keeps users in process memory, keyed by username.
type UserRepository struct {
	mu     sync.RWMutex
	users  map[string]domain.User
	lastID int64
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]domain.User)}
}

func (r *UserRepository) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.Username]; ok {
		return domain.ErrUsernameExists
	}
	r.lastID++
	u.ID = r.lastID
	r.users[u.Username] = *u
	return nil
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}
