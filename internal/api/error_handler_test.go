package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func TestHTTPErrorHandler(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"echo not found", echo.ErrNotFound, http.StatusNotFound, "Not Found"},
		{"echo custom", echo.NewHTTPError(http.StatusForbidden, "Forbidden"), http.StatusForbidden, "Forbidden"},
		{"method not allowed", echo.ErrMethodNotAllowed, http.StatusMethodNotAllowed, "Method Not Allowed"},
		{"wrapped echo error", fmt.Errorf("auth: %w", echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")), http.StatusUnauthorized, "Unauthorized"},
		{"echo 5xx hides message", echo.NewHTTPError(http.StatusServiceUnavailable, "mongo down"), http.StatusServiceUnavailable, "Service Unavailable"},
		{"unexpected", errors.New("mongo: connection reset"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			NewHTTPErrorHandler(zerolog.Nop())(tc.err, c)

			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body.Message != tc.msg {
				t.Fatalf("expected %q, got %q", tc.msg, body.Message)
			}
		})
	}
}

func TestHTTPErrorHandler_DoesNotLeakInternals(t *testing.T) {
	var logs bytes.Buffer
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	NewHTTPErrorHandler(zerolog.New(&logs))(errors.New("secret dsn mongodb://admin:pw@db"), c)

	if strings.Contains(rec.Body.String(), "mongodb://") {
		t.Fatalf("internal error leaked: %s", rec.Body.String())
	}
	if !strings.Contains(logs.String(), "unhandled error") {
		t.Fatalf("expected the error to be logged, got %q", logs.String())
	}
}
