package ports

import (
	"context"

	"github.com/shyaka/todo-backend/internal/core/domain"
)

// UserRepository defines the credential store.
type UserRepository interface {
	// Create persists a new user and returns it with its generated ID.
	// Returns domain.ErrDuplicateEmail if the email is already taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
