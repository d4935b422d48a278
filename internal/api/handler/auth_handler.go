package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/shyaka/todo-backend/internal/api/metrics"
	"github.com/shyaka/todo-backend/internal/core/domain"
	"github.com/shyaka/todo-backend/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	log         zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

// Signup registers a new user.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Email and password"
// @Success      201   {object}  signupResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		metrics.SignupsTotal.WithLabelValues("invalid").Inc()
		return c.JSON(http.StatusBadRequest, errorBody(msgInvalidBody))
	}
	if err := c.Validate(&req); err != nil {
		metrics.SignupsTotal.WithLabelValues("invalid").Inc()
		return c.JSON(http.StatusBadRequest, errorBody(err.Error()))
	}

	user, err := h.authService.Signup(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateEmail):
			metrics.SignupsTotal.WithLabelValues("duplicate").Inc()
			return c.JSON(http.StatusBadRequest, errorBody("Email already exists"))
		case errors.Is(err, domain.ErrValidation):
			metrics.SignupsTotal.WithLabelValues("invalid").Inc()
			return c.JSON(http.StatusBadRequest, errorBody(err.Error()))
		}
		metrics.SignupsTotal.WithLabelValues("error").Inc()
		h.log.Error().Err(err).Msg("signup failed")
		return c.JSON(http.StatusInternalServerError, errorBody("Failed to create user"))
	}

	metrics.SignupsTotal.WithLabelValues("created").Inc()
	return c.JSON(http.StatusCreated, signupResponse{Message: "User created successfully", User: user})
}

// Login authenticates a user and returns a JWT.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody(msgInvalidBody))
	}

	token, _, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			metrics.LoginsTotal.WithLabelValues("user_not_found").Inc()
			return c.JSON(http.StatusNotFound, errorBody("User not found"))
		case errors.Is(err, domain.ErrInvalidPassword):
			metrics.LoginsTotal.WithLabelValues("invalid_password").Inc()
			return c.JSON(http.StatusUnauthorized, errorBody("Invalid password"))
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		h.log.Error().Err(err).Msg("login failed")
		return c.JSON(http.StatusInternalServerError, errorBody("Login failed"))
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, loginResponse{Message: "Login Successfully", Token: token})
}

// UserInfo returns the authenticated user's profile.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /userinfo [get]
func (h *AuthHandler) UserInfo(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	user, err := h.authService.UserInfo(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, errorBody("User not found"))
		}
		h.log.Error().Err(err).Str("user_id", userID).Msg("user info failed")
		return c.JSON(http.StatusInternalServerError, errorBody("Internal server error"))
	}

	return c.JSON(http.StatusOK, user)
}
