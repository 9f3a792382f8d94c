package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	apierrors "codeberg.org/lumina/server/internal/errors"
	"codeberg.org/lumina/server/lumina/projects"
)

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, userID string, in CreateInput) (*Task, error) {
	task, err := scanTask(r.db.QueryRow(
		ctx,
		queryCreate,
		userID,
		in.ProjectID,
		in.Title,
		in.Description,
		in.Status,
		in.Priority,
		in.Done,
		in.DueDate,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

func (r *Repository) FindByID(ctx context.Context, taskID string) (*Task, error) {
	task, err := scanTask(r.db.QueryRow(ctx, queryFindByID, taskID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apierrors.ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// lists a user's tasks newest first, narrowed by the non-empty filters
func (r *Repository) List(ctx context.Context, userID string, filters Filters) ([]Task, error) {
	rows, err := r.db.Query(
		ctx,
		queryList,
		userID,
		nullable(filters.ProjectID),
		nullable(filters.Status),
		nullable(filters.Priority),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	defer rows.Close()
	tasks := []Task{}

	for rows.Next() {
		t, err := scanListedTask(rows)
		if err != nil {
			return nil, err
		}

		tasks = append(tasks, *t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}

func (r *Repository) ListByProject(ctx context.Context, userID, projectID string, done *bool) ([]Task, error) {
	rows, err := r.db.Query(ctx, queryListByProject, userID, projectID, done)
	if err != nil {
		return nil, fmt.Errorf("failed to list project tasks: %w", err)
	}

	return collectTasks(rows)
}

// writes every mutable field of task; ownership is part of the match
func (r *Repository) Update(ctx context.Context, task *Task) (*Task, error) {
	updated, err := scanTask(r.db.QueryRow(
		ctx,
		queryUpdate,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.Done,
		task.DueDate,
		task.ProjectID,
	))

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apierrors.ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return updated, nil
}

func (r *Repository) SetProject(ctx context.Context, taskID, userID string, projectID *string) (*Task, error) {
	task, err := scanTask(r.db.QueryRow(ctx, querySetProject, taskID, userID, projectID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apierrors.ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to assign task: %w", err)
	}

	return task, nil
}

// deletes a task owned by userID and returns the affected row count
func (r *Repository) Delete(ctx context.Context, taskID, userID string) (int64, error) {
	tag, err := r.db.Exec(ctx, queryDelete, taskID, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete task: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (r *Repository) CountCreatedSince(ctx context.Context, userID string, since time.Time) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, queryCountCreatedSince, userID, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	return count, nil
}

func (r *Repository) CompletionStats(ctx context.Context, userID string) (*CompletionStats, error) {
	var stats CompletionStats
	if err := r.db.QueryRow(ctx, queryCompletionStats, userID).Scan(&stats.Total, &stats.Completed); err != nil {
		return nil, fmt.Errorf("failed to compute task stats: %w", err)
	}

	return &stats, nil
}

func collectTasks(rows pgx.Rows) ([]Task, error) {
	defer rows.Close()
	tasks := []Task{}

	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}

		tasks = append(tasks, *t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}

// scans a task row followed by the LEFT JOINed project id, name and status
func scanListedTask(row pgx.Row) (*Task, error) {
	var t Task
	var projectID, projectName, projectStatus *string

	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.ProjectID,
		&t.Title,
		&t.Description,
		&t.Status,
		&t.Priority,
		&t.Done,
		&t.DueDate,
		&t.CreatedAt,
		&t.UpdatedAt,
		&projectID,
		&projectName,
		&projectStatus,
	)

	if err != nil {
		return nil, err
	}

	if projectID != nil {
		t.Project = &ProjectRef{ID: *projectID}

		if projectName != nil {
			t.Project.Name = *projectName
		}

		if projectStatus != nil {
			t.Project.Status = projects.Status(*projectStatus)
		}
	}

	return &t, nil
}

func scanTask(row pgx.Row) (*Task, error) {
	var t Task

	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.ProjectID,
		&t.Title,
		&t.Description,
		&t.Status,
		&t.Priority,
		&t.Done,
		&t.DueDate,
		&t.CreatedAt,
		&t.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return &t, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}
