package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shyaka/todo-backend/internal/api/middleware"
)

// ctxUserID returns the caller id stored by the Auth middleware. A missing id
// means the route was registered without Auth; reject rather than act as nobody.
func ctxUserID(c echo.Context) (string, error) {
	id, _ := c.Get(middleware.UserIDKey).(string)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	return id, nil
}
