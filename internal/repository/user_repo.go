package repository

import (
	"context"
	"sync"

	"backend/internal/model"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, bool)
	GetByEmail(ctx context.Context, email string) (*model.User, bool)
}

// memoryUserRepository holds users for the lifetime of the process. Users are
// created on first login; nothing is verified.
type memoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*model.User
	byEmail map[string]uuid.UUID
}

func NewUserRepository() UserRepository {
	return &memoryUserRepository{
		byID:    make(map[uuid.UUID]*model.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (r *memoryUserRepository) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *user
	r.byID[stored.ID] = &stored
	r.byEmail[stored.Email] = stored.ID
	return nil
}

func (r *memoryUserRepository) GetByID(_ context.Context, id uuid.UUID) (*model.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	copied := *user
	return &copied, true
}

func (r *memoryUserRepository) GetByEmail(_ context.Context, email string) (*model.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, false
	}
	user := *r.byID[id]
	return &user, true
}
