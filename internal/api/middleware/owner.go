package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Owner restricts a route to the user named by the given path parameter.
// It must run after Auth.
func Owner(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			owner := c.Param(param)
			if owner == "" {
				return echo.NewHTTPError(http.StatusBadRequest, "User ID is required")
			}

			caller, _ := c.Get(UserIDKey).(string)
			if caller == "" || caller != owner {
				return echo.NewHTTPError(http.StatusForbidden, "Forbidden")
			}
			return next(c)
		}
	}
}
