package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	apierrors "codeberg.org/lumina/server/internal/errors"
)

const pgUniqueViolation = "23505"

// creates a new user repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// inserts a user; a taken email yields apierrors.ErrConflict
func (r *Repository) Create(
	ctx context.Context,
	email, name, picture string,
	passwordHash *string,
) (*User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, queryCreate, email, name, picture, passwordHash))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, apierrors.ErrConflict
		}

		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// finds a user by their ID
func (r *Repository) FindByID(ctx context.Context, userID string) (*User, error) {
	return r.findOne(ctx, queryFindByID, userID)
}

// finds a user by email
func (r *Repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, queryFindByEmail, email)
}

// returns the user with this email, creating a password-less one if
// missing. The flag reports whether a row was inserted
func (r *Repository) FindOrCreateByEmail(
	ctx context.Context,
	email, name, picture string,
) (*User, bool, error) {
	var user User
	var inserted bool

	err := r.db.QueryRow(ctx, queryFindOrCreateByEmail, email, name, picture).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.Picture,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
		&inserted,
	)

	if err != nil {
		return nil, false, fmt.Errorf("failed to find or create user: %w", err)
	}

	return &user, inserted, nil
}

// updates a user's name and picture
func (r *Repository) UpdateProfile(ctx context.Context, userID, name, picture string) (*User, error) {
	return r.findOne(ctx, queryUpdateProfile, name, picture, userID)
}

// replaces a user's password hash
func (r *Repository) UpdatePassword(ctx context.Context, userID, passwordHash string) (*User, error) {
	return r.findOne(ctx, queryUpdatePassword, passwordHash, userID)
}

func (r *Repository) findOne(ctx context.Context, query string, args ...any) (*User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apierrors.ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	return user, nil
}

func scanUser(row pgx.Row) (*User, error) {
	var user User

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.Picture,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return &user, nil
}
