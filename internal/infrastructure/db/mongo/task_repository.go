package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shyaka/todo-backend/internal/core/domain"
)

const collectionTodos = "todos"

type TaskRepository struct {
	col *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{col: db.Collection(collectionTodos)}
}

type mongoTask struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Completed   bool               `bson:"completed"`
	UserID      primitive.ObjectID `bson:"userId"`
}

func (t mongoTask) toDomain() *domain.Task {
	return &domain.Task{
		ID:          t.ID.Hex(),
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		OwnerID:     t.UserID.Hex(),
	}
}

// Create inserts a new task document.
func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	owner, err := primitive.ObjectIDFromHex(t.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("insert task: owner id %q: %w", t.OwnerID, domain.ErrStorage)
	}

	doc := mongoTask{
		ID:          primitive.NewObjectID(),
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		UserID:      owner,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert task: %w: %w", domain.ErrStorage, err)
	}
	return doc.toDomain(), nil
}

// FindByID retrieves a task by id. When ownerID is non-empty, an additional
// filter on userId is applied.
func (r *TaskRepository) FindByID(ctx context.Context, id, ownerID string) (*domain.Task, error) {
	filter, ok := taskFilter(id, ownerID)
	if !ok {
		return nil, domain.ErrTaskNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoTask
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w: %w", domain.ErrStorage, err)
	}
	return doc.toDomain(), nil
}

// ListByOwner returns the owner's tasks in creation order.
func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Task, error) {
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return []*domain.Task{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"userId": owner}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w: %w", domain.ErrStorage, err)
	}
	defer cur.Close(ctx)

	var docs []mongoTask
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode tasks: %w: %w", domain.ErrStorage, err)
	}

	tasks := make([]*domain.Task, 0, len(docs))
	for _, d := range docs {
		tasks = append(tasks, d.toDomain())
	}
	return tasks, nil
}

// Update applies patch atomically and returns the updated document.
func (r *TaskRepository) Update(ctx context.Context, id, ownerID string, patch domain.TaskPatch) (*domain.Task, error) {
	if patch.Empty() {
		return r.FindByID(ctx, id, ownerID)
	}

	filter, ok := taskFilter(id, ownerID)
	if !ok {
		return nil, domain.ErrTaskNotFound
	}

	set := bson.M{}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Completed != nil {
		set["completed"] = *patch.Completed
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc mongoTask
	if err := r.col.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("update task: %w: %w", domain.ErrStorage, err)
	}
	return doc.toDomain(), nil
}

func (r *TaskRepository) Delete(ctx context.Context, id, ownerID string) error {
	filter, ok := taskFilter(id, ownerID)
	if !ok {
		return domain.ErrTaskNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete task: %w: %w", domain.ErrStorage, err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the todos collection.
func (r *TaskRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "userId", Value: 1}}})
	return err
}

// taskFilter builds the {_id, userId} filter. ok is false when an id is not a
// valid ObjectID, which callers report as not found.
func taskFilter(id, ownerID string) (bson.M, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, false
	}
	filter := bson.M{"_id": oid}
	if ownerID != "" {
		owner, err := primitive.ObjectIDFromHex(ownerID)
		if err != nil {
			return nil, false
		}
		filter["userId"] = owner
	}
	return filter, true
}
