package ports

import (
	"context"

	"github.com/shyaka/todo-backend/internal/core/domain"
)

// TaskRepository defines persistence operations for tasks.
//
// Update and Delete match on both the task id and ownerID; a task owned by
// someone else is reported as domain.ErrTaskNotFound. An empty ownerID
// disables the owner filter.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	FindByID(ctx context.Context, id, ownerID string) (*domain.Task, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Task, error)
	Update(ctx context.Context, id, ownerID string, patch domain.TaskPatch) (*domain.Task, error)
	Delete(ctx context.Context, id, ownerID string) error
}
