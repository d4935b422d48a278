package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/shyaka/todo-backend/internal/core/domain"
	"github.com/shyaka/todo-backend/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stubs
// ---------------------------------------------------------------------------

type stubTaskRepo struct {
	tasks     map[string]*domain.Task
	order     []string
	nextID    int
	createErr error
}

func newStubTaskRepo() *stubTaskRepo {
	return &stubTaskRepo{tasks: make(map[string]*domain.Task)}
}

func (r *stubTaskRepo) Create(_ context.Context, t *domain.Task) (*domain.Task, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextID++
	clone := *t
	clone.ID = fmt.Sprintf("task-%d", r.nextID)
	r.tasks[clone.ID] = &clone
	r.order = append(r.order, clone.ID)
	out := clone
	return &out, nil
}

// find mirrors the owner filter of the Mongo repository.
func (r *stubTaskRepo) find(id, ownerID string) (*domain.Task, bool) {
	t, ok := r.tasks[id]
	if !ok || (ownerID != "" && t.OwnerID != ownerID) {
		return nil, false
	}
	return t, true
}

func (r *stubTaskRepo) FindByID(_ context.Context, id, ownerID string) (*domain.Task, error) {
	t, ok := r.find(id, ownerID)
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *stubTaskRepo) ListByOwner(_ context.Context, ownerID string) ([]*domain.Task, error) {
	var out []*domain.Task
	for _, id := range r.order {
		if t, ok := r.tasks[id]; ok && t.OwnerID == ownerID {
			clone := *t
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubTaskRepo) Update(_ context.Context, id, ownerID string, p domain.TaskPatch) (*domain.Task, error) {
	t, ok := r.find(id, ownerID)
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	clone := *t
	return &clone, nil
}

func (r *stubTaskRepo) Delete(_ context.Context, id, ownerID string) error {
	if _, ok := r.find(id, ownerID); !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

type stubIdempotency struct {
	keys      map[string]string
	lookupErr error
}

func newStubIdempotency() *stubIdempotency {
	return &stubIdempotency{keys: make(map[string]string)}
}

func (s *stubIdempotency) Lookup(_ context.Context, ownerID, key string) (string, error) {
	if s.lookupErr != nil {
		return "", s.lookupErr
	}
	return s.keys[ownerID+"/"+key], nil
}

func (s *stubIdempotency) Remember(_ context.Context, ownerID, key, taskID string) error {
	s.keys[ownerID+"/"+key] = taskID
	return nil
}

var discardLogger = zerolog.Nop()

func ptr[T any](v T) *T { return &v }

func createInput(owner string) ports.CreateTaskInput {
	return ports.CreateTaskInput{OwnerID: owner, Title: "T", Description: "D"}
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestTaskService_Create_Success(t *testing.T) {
	repo := newStubTaskRepo()
	svc := NewTaskService(repo, nil, discardLogger)

	res, err := svc.Create(context.Background(), createInput("user-1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Replayed {
		t.Error("new task must not be marked as replayed")
	}
	if res.Task.ID == "" || res.Task.OwnerID != "user-1" {
		t.Errorf("unexpected task: %+v", res.Task)
	}
	if res.Task.Completed {
		t.Error("completed must default to false")
	}
}

func TestTaskService_Create_Validation(t *testing.T) {
	svc := NewTaskService(newStubTaskRepo(), nil, discardLogger)

	in := createInput("user-1")
	in.Title = ""
	if _, err := svc.Create(context.Background(), in); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for missing title, got %v", err)
	}

	in = createInput("user-1")
	in.Description = ""
	if _, err := svc.Create(context.Background(), in); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for missing description, got %v", err)
	}
}

func TestTaskService_Create_RepoError(t *testing.T) {
	repo := newStubTaskRepo()
	repo.createErr = fmt.Errorf("insert task: %w", domain.ErrStorage)
	svc := NewTaskService(repo, nil, discardLogger)

	if _, err := svc.Create(context.Background(), createInput("user-1")); !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}

func TestTaskService_Create_IdempotencyReplay(t *testing.T) {
	repo := newStubTaskRepo()
	svc := NewTaskService(repo, newStubIdempotency(), discardLogger)

	in := createInput("user-1")
	in.IdempotencyKey = "key-abc"

	first, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	second, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}

	if second.Task.ID != first.Task.ID {
		t.Errorf("replay must return the same task: got %q want %q", second.Task.ID, first.Task.ID)
	}
	if !second.Replayed {
		t.Error("replay must set Replayed=true")
	}
	if len(repo.tasks) != 1 {
		t.Errorf("expected 1 stored task, got %d", len(repo.tasks))
	}
}

func TestTaskService_Create_IdempotencyKeyScopedToOwner(t *testing.T) {
	repo := newStubTaskRepo()
	svc := NewTaskService(repo, newStubIdempotency(), discardLogger)

	a := createInput("user-1")
	a.IdempotencyKey = "shared"
	b := createInput("user-2")
	b.IdempotencyKey = "shared"

	_, _ = svc.Create(context.Background(), a)
	res, _ := svc.Create(context.Background(), b)
	if res.Replayed || res.Task.OwnerID != "user-2" {
		t.Fatalf("keys must not leak across owners: %+v", res)
	}
}

func TestTaskService_Create_IdempotencyStoreDown(t *testing.T) {
	repo := newStubTaskRepo()
	idem := newStubIdempotency()
	idem.lookupErr = errors.New("redis down")
	svc := NewTaskService(repo, idem, discardLogger)

	in := createInput("user-1")
	in.IdempotencyKey = "k"
	if _, err := svc.Create(context.Background(), in); err != nil {
		t.Fatalf("store failure must not fail the create: %v", err)
	}
	if len(repo.tasks) != 1 {
		t.Fatalf("expected task to be created")
	}
}

// ---------------------------------------------------------------------------
// List / Update / Delete
// ---------------------------------------------------------------------------

func TestTaskService_ListByOwner(t *testing.T) {
	repo := newStubTaskRepo()
	svc := NewTaskService(repo, nil, discardLogger)

	_, _ = svc.Create(context.Background(), createInput("user-1"))
	_, _ = svc.Create(context.Background(), createInput("user-2"))
	_, _ = svc.Create(context.Background(), createInput("user-1"))

	tasks, err := svc.ListByOwner(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	for _, task := range tasks {
		if task.OwnerID != "user-1" {
			t.Errorf("foreign task leaked: %+v", task)
		}
	}
}

func TestTaskService_ListByOwner_EmptyIsNotNil(t *testing.T) {
	svc := NewTaskService(newStubTaskRepo(), nil, discardLogger)

	tasks, err := svc.ListByOwner(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tasks == nil || len(tasks) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", tasks)
	}
}

func TestTaskService_Update_ReplacesOnlySentFields(t *testing.T) {
	repo := newStubTaskRepo()
	svc := NewTaskService(repo, nil, discardLogger)
	res, _ := svc.Create(context.Background(), createInput("user-1"))

	updated, err := svc.Update(context.Background(), ports.UpdateTaskInput{
		ID:        res.Task.ID,
		OwnerID:   "user-1",
		Completed: ptr(true),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated.Completed || updated.Title != "T" || updated.Description != "D" {
		t.Fatalf("unexpected update result: %+v", updated)
	}
	if updated.OwnerID != "user-1" {
		t.Fatalf("owner must be immutable, got %q", updated.OwnerID)
	}
}

func TestTaskService_Update_NotFound(t *testing.T) {
	svc := NewTaskService(newStubTaskRepo(), nil, discardLogger)

	_, err := svc.Update(context.Background(), ports.UpdateTaskInput{ID: "missing", OwnerID: "user-1", Title: ptr("x")})
	if !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestTaskService_Update_ForeignOwner(t *testing.T) {
	repo := newStubTaskRepo()
	svc := NewTaskService(repo, nil, discardLogger)
	res, _ := svc.Create(context.Background(), createInput("user-1"))

	_, err := svc.Update(context.Background(), ports.UpdateTaskInput{ID: res.Task.ID, OwnerID: "user-2", Completed: ptr(true)})
	if !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound for a foreign task, got %v", err)
	}
	if repo.tasks[res.Task.ID].Completed {
		t.Fatalf("foreign update must not be applied")
	}
}

func TestTaskService_Update_StoresEmptyStringsAsSent(t *testing.T) {
	repo := newStubTaskRepo()
	svc := NewTaskService(repo, nil, discardLogger)
	res, _ := svc.Create(context.Background(), createInput("user-1"))

	updated, err := svc.Update(context.Background(), ports.UpdateTaskInput{
		ID:          res.Task.ID,
		OwnerID:     "user-1",
		Title:       ptr(""),
		Description: ptr(""),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Title != "" || updated.Description != "" {
		t.Fatalf("fields must be replaced exactly as sent: %+v", updated)
	}
}

func TestTaskService_Delete_Twice(t *testing.T) {
	repo := newStubTaskRepo()
	svc := NewTaskService(repo, nil, discardLogger)
	res, _ := svc.Create(context.Background(), createInput("user-1"))

	if err := svc.Delete(context.Background(), res.Task.ID, "user-1"); err != nil {
		t.Fatalf("first delete failed: %v", err)
	}
	if err := svc.Delete(context.Background(), res.Task.ID, "user-1"); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound on second delete, got %v", err)
	}
}

func TestTaskService_Delete_ForeignOwner(t *testing.T) {
	repo := newStubTaskRepo()
	svc := NewTaskService(repo, nil, discardLogger)
	res, _ := svc.Create(context.Background(), createInput("user-1"))

	if err := svc.Delete(context.Background(), res.Task.ID, "user-2"); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
	if _, ok := repo.tasks[res.Task.ID]; !ok {
		t.Fatalf("foreign delete must not remove the task")
	}
}
