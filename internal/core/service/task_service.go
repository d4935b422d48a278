package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/shyaka/todo-backend/internal/core/domain"
	"github.com/shyaka/todo-backend/internal/core/ports"
)

// IdempotencyStore remembers which task an Idempotency-Key produced.
type IdempotencyStore interface {
	// Lookup returns the task id stored for key, or "" when there is none.
	Lookup(ctx context.Context, ownerID, key string) (string, error)
	Remember(ctx context.Context, ownerID, key, taskID string) error
}

type TaskService struct {
	repo   ports.TaskRepository
	idem   IdempotencyStore
	logger zerolog.Logger
}

// NewTaskService returns a TaskService. idem may be nil, in which case
// Idempotency-Key headers are ignored.
func NewTaskService(repo ports.TaskRepository, idem IdempotencyStore, logger zerolog.Logger) *TaskService {
	return &TaskService{repo: repo, idem: idem, logger: logger}
}

// Create stores a new task for input.OwnerID. If an idempotency key is given
// and was already used by the same owner, the earlier task is returned.
func (s *TaskService) Create(ctx context.Context, input ports.CreateTaskInput) (*ports.CreateTaskResult, error) {
	if input.Title == "" {
		return nil, domain.Required("title")
	}
	if input.Description == "" {
		return nil, domain.Required("description")
	}

	if existing := s.replay(ctx, input.OwnerID, input.IdempotencyKey); existing != nil {
		return &ports.CreateTaskResult{Task: existing, Replayed: true}, nil
	}

	task, err := s.repo.Create(ctx, &domain.Task{
		Title:       input.Title,
		Description: input.Description,
		Completed:   input.Completed,
		OwnerID:     input.OwnerID,
	})
	if err != nil {
		return nil, err
	}

	if s.idem != nil && input.IdempotencyKey != "" {
		if err := s.idem.Remember(ctx, input.OwnerID, input.IdempotencyKey, task.ID); err != nil {
			s.logger.Warn().Err(err).Str("idempotency_key", input.IdempotencyKey).Msg("failed to store idempotency key")
		}
	}

	return &ports.CreateTaskResult{Task: task}, nil
}

// replay returns the task an idempotency key already produced, or nil.
// Store failures are logged and treated as a miss.
func (s *TaskService) replay(ctx context.Context, ownerID, key string) *domain.Task {
	if s.idem == nil || key == "" {
		return nil
	}

	taskID, err := s.idem.Lookup(ctx, ownerID, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency lookup failed, creating anyway")
		return nil
	}
	if taskID == "" {
		return nil
	}

	task, err := s.repo.FindByID(ctx, taskID, ownerID)
	if err != nil {
		if !errors.Is(err, domain.ErrTaskNotFound) {
			s.logger.Warn().Err(err).Str("task_id", taskID).Msg("idempotent replay lookup failed")
		}
		return nil
	}

	s.logger.Info().Str("idempotency_key", key).Str("task_id", task.ID).Msg("idempotent replay")
	return task
}

func (s *TaskService) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Task, error) {
	tasks, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	return tasks, nil
}

// Update replaces the fields present in input on a task owned by input.OwnerID.
// Values are stored exactly as sent, empty strings included.
func (s *TaskService) Update(ctx context.Context, input ports.UpdateTaskInput) (*domain.Task, error) {
	return s.repo.Update(ctx, input.ID, input.OwnerID, domain.TaskPatch{
		Title:       input.Title,
		Description: input.Description,
		Completed:   input.Completed,
	})
}

func (s *TaskService) Delete(ctx context.Context, id, ownerID string) error {
	return s.repo.Delete(ctx, id, ownerID)
}
