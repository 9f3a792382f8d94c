package projects

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"codeberg.org/lumina/server/internal/events"
)

// returned by UpdateIfStatus when no row matched id, owner and status
var ErrStale = errors.New("project changed since it was read")

// handles project database operations
type Repository struct {
	db *pgxpool.Pool
}

type Project struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (p *Project) OwnerID() string {
	if p == nil {
		return ""
	}

	return p.UserID
}

// task fields embedded in the projects-with-tasks listing
type TaskSummary struct {
	ID        string     `json:"id"`
	ProjectID string     `json:"projectId"`
	Title     string     `json:"title"`
	Status    string     `json:"status"`
	Priority  string     `json:"priority"`
	Done      bool       `json:"done"`
	DueDate   *time.Time `json:"dueDate"`
	CreatedAt time.Time  `json:"createdAt"`
}

type ProjectWithTasks struct {
	Project
	Tasks []TaskSummary `json:"tasks"`
}

type CreateInput struct {
	Name        string
	Description string
}

// partial update; nil fields are left unchanged
type UpdateInput struct {
	Name        *string
	Description *string
	Status      *string
}

// persistence used by Service; *Repository satisfies it
type Store interface {
	Create(ctx context.Context, userID, name, description string) (*Project, error)
	FindByID(ctx context.Context, projectID string) (*Project, error)
	ListByUser(ctx context.Context, userID string) ([]Project, error)
	ListTaskSummaries(ctx context.Context, userID string) ([]TaskSummary, error)
	UpdateIfStatus(ctx context.Context, projectID, userID string, expected Status, name, description string, next Status) (*Project, error)
	Delete(ctx context.Context, projectID, userID string) (int64, error)
}

// owner-scoped project operations
type Service struct {
	store  Store
	events events.Sink
}
