package projects

import (
	"context"

	"codeberg.org/lumina/server/lumina/projects"
)

// project operations used by the handlers; *projects.Service satisfies it
type ProjectService interface {
	Create(ctx context.Context, userID string, in projects.CreateInput) (*projects.Project, error)
	Get(ctx context.Context, userID, projectID string) (*projects.Project, error)
	List(ctx context.Context, userID string) ([]projects.Project, error)
	ListWithTasks(ctx context.Context, userID string) ([]projects.ProjectWithTasks, error)
	Update(ctx context.Context, userID, projectID string, in projects.UpdateInput) (*projects.Project, error)
	Delete(ctx context.Context, userID, projectID string) (int64, error)
}

// CreateProjectRequest for new projects; the status always starts as new
type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description" binding:"max=5000"`
}

// UpdateProjectRequest is a partial update; omitted fields are kept
type UpdateProjectRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=200"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
	Status      *string `json:"status"`
}

// CountResponse reports how many rows a delete affected
type CountResponse struct {
	Count int64 `json:"count"`
}
