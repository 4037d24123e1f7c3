package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/chatapp-auth/internal/model"
)

// MemoryUserRepo is a process-local UserDirectory used for development and
// tests.  Uniqueness is enforced under a single mutex.
type MemoryUserRepo struct {
	mu         sync.RWMutex
	byID       map[string]model.User
	byEmail    map[string]string
	byUsername map[string]string
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{
		byID:       make(map[string]model.User),
		byEmail:    make(map[string]string),
		byUsername: make(map[string]string),
	}
}

func (r *MemoryUserRepo) Create(_ context.Context, u *model.User) (*model.User, error) {
	if err := PrepareUser(u); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[u.Email]; ok {
		return nil, ErrDuplicate
	}
	if _, ok := r.byUsername[u.Username]; ok {
		return nil, ErrDuplicate
	}
	now := time.Now().UTC()
	u.ID = uuid.NewString()
	u.CreatedAt, u.UpdatedAt = now, now

	r.byID[u.ID] = *u
	r.byEmail[u.Email] = u.ID
	r.byUsername[u.Username] = u.ID
	out := *u
	return &out, nil
}

func (r *MemoryUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[NormalizeEmail(email)]
	if !ok {
		return nil, ErrNotFound
	}
	u := r.byID[id]
	return &u, nil
}

func (r *MemoryUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

// Delete removes a user.  No HTTP flow deletes users; it exists so tests can
// exercise tokens that outlive their account.
func (r *MemoryUserRepo) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return
	}
	delete(r.byID, id)
	delete(r.byEmail, u.Email)
	delete(r.byUsername, u.Username)
}
