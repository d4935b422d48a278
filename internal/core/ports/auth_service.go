package ports

import (
	"context"

	"github.com/shyaka/todo-backend/internal/core/domain"
)

// TokenVerifier resolves a bearer token to the user id it was issued for.
type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

type AuthService interface {
	TokenVerifier
	Signup(ctx context.Context, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	UserInfo(ctx context.Context, userID string) (*domain.User, error)
}
