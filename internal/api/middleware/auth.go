package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/shyaka/todo-backend/internal/api/metrics"
	"github.com/shyaka/todo-backend/internal/core/ports"
)

// UserIDKey is the echo context key holding the authenticated user id.
const UserIDKey = "userId"

// Auth verifies the bearer token and stores the caller's user id in the
// context. Missing headers, malformed headers and bad tokens all end the
// request with 401.
func Auth(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, err := verifier.VerifyToken(bearerToken(c.Request().Header.Get("Authorization")))
			if err != nil {
				metrics.TokenRejectionsTotal.Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}

			c.Set(UserIDKey, userID)
			return next(c)
		}
	}
}

// bearerToken extracts <token> from "Bearer <token>", or returns "".
func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
