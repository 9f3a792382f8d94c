package projects

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	apierrors "codeberg.org/lumina/server/internal/errors"
)

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, userID, name, description string) (*Project, error) {
	project, err := scanProject(r.db.QueryRow(ctx, queryCreate, userID, name, description))
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

func (r *Repository) FindByID(ctx context.Context, projectID string) (*Project, error) {
	project, err := scanProject(r.db.QueryRow(ctx, queryFindByID, projectID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apierrors.ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	return project, nil
}

// lists a user's projects, newest first
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]Project, error) {
	rows, err := r.db.Query(ctx, queryListByUser, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	defer rows.Close()
	projects := []Project{}

	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}

		projects = append(projects, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return projects, nil
}

// lists a user's tasks that belong to some project, newest first
func (r *Repository) ListTaskSummaries(ctx context.Context, userID string) ([]TaskSummary, error) {
	rows, err := r.db.Query(ctx, queryListTaskSummaries, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list project tasks: %w", err)
	}

	defer rows.Close()
	var tasks []TaskSummary

	for rows.Next() {
		var t TaskSummary
		err := rows.Scan(
			&t.ID,
			&t.ProjectID,
			&t.Title,
			&t.Status,
			&t.Priority,
			&t.Done,
			&t.DueDate,
			&t.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}

// writes the new fields only if the row still has the expected status.
// Returns ErrStale when nothing matched
func (r *Repository) UpdateIfStatus(
	ctx context.Context,
	projectID, userID string,
	expected Status,
	name, description string,
	next Status,
) (*Project, error) {
	project, err := scanProject(r.db.QueryRow(
		ctx,
		queryUpdateIfStatus,
		projectID,
		userID,
		expected,
		name,
		description,
		next,
	))

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrStale
	}

	if err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// deletes a project owned by userID and returns the affected row count
func (r *Repository) Delete(ctx context.Context, projectID, userID string) (int64, error) {
	tag, err := r.db.Exec(ctx, queryDelete, projectID, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete project: %w", err)
	}

	return tag.RowsAffected(), nil
}

func scanProject(row pgx.Row) (*Project, error) {
	var p Project

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Name,
		&p.Description,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return &p, nil
}
