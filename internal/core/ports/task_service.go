package ports

import (
	"context"

	"github.com/shyaka/todo-backend/internal/core/domain"
)

// CreateTaskInput carries the data for a new task. OwnerID always comes from
// the authenticated caller.
type CreateTaskInput struct {
	OwnerID        string
	Title          string
	Description    string
	Completed      bool
	IdempotencyKey string
}

// CreateTaskResult is returned by TaskService.Create.
type CreateTaskResult struct {
	Task *domain.Task
	// Replayed is true when the Idempotency-Key matched a task created earlier.
	Replayed bool
}

// UpdateTaskInput carries a partial update. Nil fields are left untouched.
type UpdateTaskInput struct {
	ID          string
	OwnerID     string
	Title       *string
	Description *string
	Completed   *bool
}

// TaskService defines the owner-scoped task use cases.
type TaskService interface {
	Create(ctx context.Context, input CreateTaskInput) (*CreateTaskResult, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Task, error)
	Update(ctx context.Context, input UpdateTaskInput) (*domain.Task, error)
	Delete(ctx context.Context, id, ownerID string) error
}
