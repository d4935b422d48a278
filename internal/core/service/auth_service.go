package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/shyaka/todo-backend/internal/core/domain"
	"github.com/shyaka/todo-backend/internal/core/ports"
)

// DefaultBcryptCost is the hashing cost used when none is configured.
const DefaultBcryptCost = 10

// userIDClaim is the JWT claim carrying the user id.
const userIDClaim = "userId"

// AuthOptions tunes token issuance and password hashing.
type AuthOptions struct {
	JWTSecret string
	// TokenTTL adds an exp claim when positive. Zero issues tokens that never expire.
	TokenTTL   time.Duration
	BcryptCost int
}

// AuthService implements signup, login and bearer-token verification.
type AuthService struct {
	repo       ports.UserRepository
	jwtSecret  []byte
	tokenTTL   time.Duration
	bcryptCost int
	log        zerolog.Logger
	now        func() time.Time
}

func NewAuthService(repo ports.UserRepository, opts AuthOptions, log zerolog.Logger) *AuthService {
	cost := opts.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &AuthService{
		repo:       repo,
		jwtSecret:  []byte(opts.JWTSecret),
		tokenTTL:   opts.TokenTTL,
		bcryptCost: cost,
		log:        log,
		now:        time.Now,
	}
}

func (s *AuthService) Signup(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" {
		return nil, domain.Required("email")
	}
	if password == "" {
		return nil, domain.Required("password")
	}

	_, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, domain.ErrDuplicateEmail
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user registered")
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidPassword
	}

	token, err := s.generateToken(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	return token, user, nil
}

// VerifyToken checks the signature of an HS256 token and returns its userId
// claim. Every failure is reported as domain.ErrUnauthorized.
func (s *AuthService) VerifyToken(token string) (string, error) {
	if token == "" {
		return "", domain.ErrUnauthorized
	}

	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !tkn.Valid {
		return "", domain.ErrUnauthorized
	}

	userID, ok := claims[userIDClaim].(string)
	if !ok || userID == "" {
		return "", domain.ErrUnauthorized
	}
	return userID, nil
}

func (s *AuthService) UserInfo(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *AuthService) generateToken(userID string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		userIDClaim: userID,
		"iat":       now.Unix(),
	}
	if s.tokenTTL > 0 {
		claims["exp"] = now.Add(s.tokenTTL).Unix()
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.jwtSecret)
}
