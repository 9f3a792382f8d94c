package users

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"codeberg.org/lumina/server/internal/auth"
	"codeberg.org/lumina/server/internal/events"
	"codeberg.org/lumina/server/internal/identity"
)

const minPasswordLength = 6

// handles user database operations
type Repository struct {
	db *pgxpool.Pool
}

// represents an account in the system
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Picture      string    `json:"picture"`
	PasswordHash *string   `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// reports whether the account can sign in with a password
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// the session snapshot for this user
func (u *User) Identity() identity.Identity {
	return identity.Identity{
		ID:      u.ID,
		Email:   u.Email,
		Name:    u.Name,
		Picture: u.Picture,
	}
}

// fields for a new local account
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// profile record returned by an OAuth provider
type Profile struct {
	Email   string
	Name    string
	Picture string
}

// an authenticated user plus a freshly issued credential
type SignIn struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// persistence used by Service; *Repository satisfies it
type Store interface {
	Create(ctx context.Context, email, name, picture string, passwordHash *string) (*User, error)
	FindByID(ctx context.Context, userID string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindOrCreateByEmail(ctx context.Context, email, name, picture string) (*User, bool, error)
	UpdateProfile(ctx context.Context, userID, name, picture string) (*User, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) (*User, error)
}

// mints credentials for signed-in users; *auth.Codec satisfies it
type Issuer interface {
	Issue(fields auth.ClaimFields) (string, error)
}

// account flows on top of Store
type Service struct {
	store  Store
	issuer Issuer
	events events.Sink
}
