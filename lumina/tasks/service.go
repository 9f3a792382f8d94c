package tasks

import (
	"context"
	"strings"
	"time"

	apierrors "codeberg.org/lumina/server/internal/errors"
	"codeberg.org/lumina/server/internal/events"
	"codeberg.org/lumina/server/internal/ownership"
)

const recentWindow = 24 * time.Hour

func NewService(store Store, projects ProjectLookup, sink events.Sink) *Service {
	return &Service{
		store:    store,
		projects: projects,
		events:   events.OrDiscard(sink),
		now:      time.Now,
	}
}

// creates a task for userID. A referenced project must belong to the same user
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (*Task, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, apierrors.Invalid("title", "title is required")
	}

	in.Description = strings.TrimSpace(in.Description)
	in.Status = orDefault(in.Status, DefaultStatus)
	in.Priority = orDefault(in.Priority, DefaultPriority)

	projectID, err := s.ownedProject(ctx, userID, in.ProjectID)
	if err != nil {
		return nil, err
	}

	in.ProjectID = projectID

	task, err := s.store.Create(ctx, userID, in)
	if err != nil {
		return nil, err
	}

	s.events.Publish(ctx, events.New(events.TaskCreated, userID, task.ID, map[string]any{
		"title":     task.Title,
		"projectId": stringOrEmpty(task.ProjectID),
	}))

	return task, nil
}

// returns a task only to its owner
func (s *Service) Get(ctx context.Context, userID, taskID string) (*Task, error) {
	if !apierrors.IsValidUUID(taskID) {
		return nil, apierrors.ErrNotFound
	}

	task, err := s.store.FindByID(ctx, taskID)
	return ownership.Load(task, err, userID)
}

// lists the owner's tasks, newest first
func (s *Service) List(ctx context.Context, userID string, filters Filters) ([]Task, error) {
	if filters.ProjectID != "" && !apierrors.IsValidUUID(filters.ProjectID) {
		return []Task{}, nil
	}

	return s.store.List(ctx, userID, filters)
}

// lists the owner's tasks in one project, optionally narrowed by done
func (s *Service) ListByProject(ctx context.Context, userID, projectID string, done *bool) ([]Task, error) {
	if !apierrors.IsValidUUID(projectID) {
		return []Task{}, nil
	}

	return s.store.ListByProject(ctx, userID, projectID, done)
}

// applies a partial update to the owner's task
func (s *Service) Update(ctx context.Context, userID, taskID string, in UpdateInput) (*Task, error) {
	task, err := s.Get(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		if task.Title = strings.TrimSpace(*in.Title); task.Title == "" {
			return nil, apierrors.Invalid("title", "title cannot be empty")
		}
	}

	if in.Description != nil {
		task.Description = strings.TrimSpace(*in.Description)
	}

	if in.Status != nil {
		task.Status = orDefault(*in.Status, task.Status)
	}

	if in.Priority != nil {
		task.Priority = orDefault(*in.Priority, task.Priority)
	}

	if in.Done != nil {
		task.Done = *in.Done
	}

	switch {
	case in.ClearDueDate:
		task.DueDate = nil
	case in.DueDate != nil:
		task.DueDate = in.DueDate
	}

	if in.ProjectID != nil {
		if task.ProjectID, err = s.ownedProject(ctx, userID, in.ProjectID); err != nil {
			return nil, err
		}
	}

	updated, err := s.store.Update(ctx, task)
	if err != nil {
		return nil, err
	}

	s.events.Publish(ctx, events.New(events.TaskUpdated, userID, updated.ID, nil))

	return updated, nil
}

// moves the owner's task into one of the owner's projects
func (s *Service) AssignProject(ctx context.Context, userID, taskID, projectID string) (*Task, error) {
	if _, err := s.Get(ctx, userID, taskID); err != nil {
		return nil, err
	}

	if _, err := s.projects.Get(ctx, userID, projectID); err != nil {
		return nil, err
	}

	task, err := s.store.SetProject(ctx, taskID, userID, &projectID)
	if err != nil {
		return nil, err
	}

	s.events.Publish(ctx, events.New(events.TaskAssigned, userID, task.ID, map[string]any{
		"projectId": projectID,
	}))

	return task, nil
}

// deletes the owner's task. Absent and foreign tasks count zero
func (s *Service) Delete(ctx context.Context, userID, taskID string) (int64, error) {
	if !apierrors.IsValidUUID(taskID) {
		return 0, nil
	}

	n, err := s.store.Delete(ctx, taskID, userID)
	if err != nil {
		return 0, err
	}

	if n > 0 {
		s.events.Publish(ctx, events.New(events.TaskDeleted, userID, taskID, nil))
	}

	return n, nil
}

// counts the owner's tasks created in the trailing 24 hours
func (s *Service) CountRecent(ctx context.Context, userID string) (int64, error) {
	return s.store.CountCreatedSince(ctx, userID, s.now().Add(-recentWindow))
}

func (s *Service) CompletionStats(ctx context.Context, userID string) (*CompletionStats, error) {
	return s.store.CompletionStats(ctx, userID)
}

// resolves an optional project reference. nil and "" mean no project;
// anything else must name a project owned by userID
func (s *Service) ownedProject(ctx context.Context, userID string, projectID *string) (*string, error) {
	if projectID == nil || strings.TrimSpace(*projectID) == "" {
		return nil, nil
	}

	id := strings.TrimSpace(*projectID)
	if _, err := s.projects.Get(ctx, userID, id); err != nil {
		return nil, err
	}

	return &id, nil
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}

	return fallback
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
