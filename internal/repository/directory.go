package repository

import (
	"context"

	"github.com/iliyamo/chatapp-auth/internal/model"
)

// UserDirectory is the persistent store of users.  Implementations enforce
// unique username and email and assign ID and timestamps on Create.
type UserDirectory interface {
	// Create validates and inserts u.  The stored user is returned with ID,
	// CreatedAt and UpdatedAt set.
	Create(ctx context.Context, u *model.User) (*model.User, error)
	// GetByEmail returns ErrNotFound when no user has the (normalized) email.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// GetByID returns ErrNotFound when no user has the id.
	GetByID(ctx context.Context, id string) (*model.User, error)
}
