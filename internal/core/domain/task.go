package domain

// Task is a single todo item. OwnerID references the User that created it
// and never changes after creation.
type Task struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	OwnerID     string `json:"userId"`
}

// TaskPatch carries the fields of an update. Nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Completed   *bool
}

// Empty reports whether the patch changes nothing.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil
}
