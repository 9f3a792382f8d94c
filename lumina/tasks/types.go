package tasks

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"codeberg.org/lumina/server/internal/events"
	"codeberg.org/lumina/server/lumina/projects"
)

const (
	DefaultStatus   = "todo"
	DefaultPriority = "medium"
)

// handles task database operations
type Repository struct {
	db *pgxpool.Pool
}

type Task struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	ProjectID   *string    `json:"projectId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	Done        bool       `json:"done"`
	DueDate     *time.Time `json:"dueDate"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	// set on list results only
	Project *ProjectRef `json:"project,omitempty"`
}

// the owning project as embedded in task lists
type ProjectRef struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Status projects.Status `json:"status"`
}

func (t *Task) OwnerID() string {
	if t == nil {
		return ""
	}

	return t.UserID
}

type CreateInput struct {
	Title       string
	Description string
	Status      string
	Priority    string
	Done        bool
	DueDate     *time.Time
	ProjectID   *string
}

// partial update; nil fields are left unchanged. An empty ProjectID
// detaches the task from its project
type UpdateInput struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	Done        *bool
	DueDate     *time.Time
	ProjectID   *string

	// removes the due date; takes precedence over DueDate
	ClearDueDate bool
}

// list filters; empty fields match everything
type Filters struct {
	ProjectID string
	Status    string
	Priority  string
}

type CompletionStats struct {
	Total     int64 `json:"total"`
	Completed int64 `json:"completed"`
}

// persistence used by Service; *Repository satisfies it
type Store interface {
	Create(ctx context.Context, userID string, in CreateInput) (*Task, error)
	FindByID(ctx context.Context, taskID string) (*Task, error)
	List(ctx context.Context, userID string, filters Filters) ([]Task, error)
	ListByProject(ctx context.Context, userID, projectID string, done *bool) ([]Task, error)
	Update(ctx context.Context, task *Task) (*Task, error)
	SetProject(ctx context.Context, taskID, userID string, projectID *string) (*Task, error)
	Delete(ctx context.Context, taskID, userID string) (int64, error)
	CountCreatedSince(ctx context.Context, userID string, since time.Time) (int64, error)
	CompletionStats(ctx context.Context, userID string) (*CompletionStats, error)
}

// owner-scoped project read; *projects.Service satisfies it
type ProjectLookup interface {
	Get(ctx context.Context, userID, projectID string) (*projects.Project, error)
}

// owner-scoped task operations
type Service struct {
	store    Store
	projects ProjectLookup
	events   events.Sink
	now      func() time.Time
}
