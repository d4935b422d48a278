package handler

import "github.com/shyaka/todo-backend/internal/core/domain"

// errorResponse is the error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Message string `json:"message"`
}

func errorBody(msg string) errorResponse {
	return errorResponse{Message: msg}
}

const msgInvalidBody = "Invalid request body"

// --- Auth ---

type credentialsRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type signupResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// --- Tasks ---

type createTaskRequest struct {
	Title       string `json:"title"       validate:"required"`
	Description string `json:"description" validate:"required"`
	Completed   bool   `json:"completed"`
}

// updateTaskRequest uses pointers so omitted fields stay untouched.
type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

type messageResponse struct {
	Message string `json:"message"`
}
