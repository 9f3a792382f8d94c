package projects

import (
	"context"
	"errors"
	"strings"

	apierrors "codeberg.org/lumina/server/internal/errors"
	"codeberg.org/lumina/server/internal/events"
	"codeberg.org/lumina/server/internal/ownership"
)

func NewService(store Store, sink events.Sink) *Service {
	return &Service{store: store, events: events.OrDiscard(sink)}
}

// creates a project for userID; every project starts as new
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (*Project, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apierrors.Invalid("name", "name is required")
	}

	project, err := s.store.Create(ctx, userID, name, strings.TrimSpace(in.Description))
	if err != nil {
		return nil, err
	}

	s.events.Publish(ctx, events.New(events.ProjectCreated, userID, project.ID, map[string]any{
		"name":   project.Name,
		"status": project.Status.String(),
	}))

	return project, nil
}

// returns a project only to its owner
func (s *Service) Get(ctx context.Context, userID, projectID string) (*Project, error) {
	if !apierrors.IsValidUUID(projectID) {
		return nil, apierrors.ErrNotFound
	}

	project, err := s.store.FindByID(ctx, projectID)
	return ownership.Load(project, err, userID)
}

// lists the owner's projects, newest first
func (s *Service) List(ctx context.Context, userID string) ([]Project, error) {
	return s.store.ListByUser(ctx, userID)
}

// lists the owner's projects, each with its tasks newest first
func (s *Service) ListWithTasks(ctx context.Context, userID string) ([]ProjectWithTasks, error) {
	projects, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	tasks, err := s.store.ListTaskSummaries(ctx, userID)
	if err != nil {
		return nil, err
	}

	byProject := make(map[string][]TaskSummary, len(projects))
	for _, t := range tasks {
		byProject[t.ProjectID] = append(byProject[t.ProjectID], t)
	}

	out := make([]ProjectWithTasks, 0, len(projects))
	for _, p := range projects {
		projectTasks := byProject[p.ID]
		if projectTasks == nil {
			projectTasks = []TaskSummary{}
		}

		out = append(out, ProjectWithTasks{Project: p, Tasks: projectTasks})
	}

	return out, nil
}

// applies a partial update. A status change must follow the lifecycle
// table and is written only if nobody changed the status since the read;
// losing that race yields ErrConflict
func (s *Service) Update(ctx context.Context, userID, projectID string, in UpdateInput) (*Project, error) {
	current, err := s.Get(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	name := current.Name
	if in.Name != nil {
		if name = strings.TrimSpace(*in.Name); name == "" {
			return nil, apierrors.Invalid("name", "name cannot be empty")
		}
	}

	description := current.Description
	if in.Description != nil {
		description = strings.TrimSpace(*in.Description)
	}

	next := current.Status
	if in.Status != nil {
		requested, err := ParseStatus(*in.Status)
		if err != nil {
			return nil, err
		}

		if err := ValidateTransition(current.Status, requested); err != nil {
			return nil, err
		}

		next = requested
	}

	updated, err := s.store.UpdateIfStatus(ctx, projectID, userID, current.Status, name, description, next)
	if errors.Is(err, ErrStale) {
		// gone or no longer ours reads as not found, anything else lost a race
		if _, err := s.Get(ctx, userID, projectID); err != nil {
			return nil, err
		}

		return nil, apierrors.ErrConflict
	}

	if err != nil {
		return nil, err
	}

	s.events.Publish(ctx, events.New(events.ProjectUpdated, userID, updated.ID, nil))

	if updated.Status != current.Status {
		s.events.Publish(ctx, events.New(events.ProjectTransitioned, userID, updated.ID, map[string]any{
			"from": current.Status.String(),
			"to":   updated.Status.String(),
		}))
	}

	return updated, nil
}

// deletes the owner's project. Deleting an absent or foreign project
// affects nothing and is not an error
func (s *Service) Delete(ctx context.Context, userID, projectID string) (int64, error) {
	if !apierrors.IsValidUUID(projectID) {
		return 0, nil
	}

	n, err := s.store.Delete(ctx, projectID, userID)
	if err != nil {
		return 0, err
	}

	if n > 0 {
		s.events.Publish(ctx, events.New(events.ProjectDeleted, userID, projectID, nil))
	}

	return n, nil
}
