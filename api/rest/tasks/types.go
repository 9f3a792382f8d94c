package tasks

import (
	"context"
	"encoding/json"
	"time"

	"codeberg.org/lumina/server/lumina/tasks"
)

// task operations used by the handlers; *tasks.Service satisfies it
type TaskService interface {
	Create(ctx context.Context, userID string, in tasks.CreateInput) (*tasks.Task, error)
	Get(ctx context.Context, userID, taskID string) (*tasks.Task, error)
	List(ctx context.Context, userID string, filters tasks.Filters) ([]tasks.Task, error)
	ListByProject(ctx context.Context, userID, projectID string, done *bool) ([]tasks.Task, error)
	Update(ctx context.Context, userID, taskID string, in tasks.UpdateInput) (*tasks.Task, error)
	AssignProject(ctx context.Context, userID, taskID, projectID string) (*tasks.Task, error)
	Delete(ctx context.Context, userID, taskID string) (int64, error)
	CountRecent(ctx context.Context, userID string) (int64, error)
	CompletionStats(ctx context.Context, userID string) (*tasks.CompletionStats, error)
}

// CreateTaskRequest for new tasks; status and priority default to todo and medium
type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required,max=500"`
	Description string     `json:"description" binding:"max=5000"`
	Status      string     `json:"status" binding:"max=50"`
	Priority    string     `json:"priority" binding:"max=50"`
	Done        bool       `json:"done"`
	DueDate     *time.Time `json:"dueDate"`
	ProjectID   *string    `json:"projectId"`
}

// UpdateTaskRequest is a partial update; omitted fields are kept, a null
// dueDate clears it and an empty projectId detaches the task
type UpdateTaskRequest struct {
	Title       *string      `json:"title" binding:"omitempty,max=500"`
	Description *string      `json:"description" binding:"omitempty,max=5000"`
	Status      *string      `json:"status" binding:"omitempty,max=50"`
	Priority    *string      `json:"priority" binding:"omitempty,max=50"`
	Done        *bool        `json:"done"`
	DueDate     NullableTime `json:"dueDate" swaggertype:"string" format:"date-time"`
	ProjectID   *string      `json:"projectId"`
}

// NullableTime tells an explicit null apart from an omitted field
type NullableTime struct {
	Set   bool
	Value *time.Time
}

func (n *NullableTime) UnmarshalJSON(data []byte) error {
	n.Set = true

	if string(data) == "null" {
		n.Value = nil
		return nil
	}

	var t time.Time
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}

	n.Value = &t
	return nil
}

// reports whether the request asked for the field to be emptied
func (n NullableTime) Cleared() bool {
	return n.Set && n.Value == nil
}

// CountResponse carries a single count, e.g. affected rows
type CountResponse struct {
	Count int64 `json:"count"`
}
