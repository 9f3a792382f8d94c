package auth

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"codeberg.org/lumina/server/internal/identity"
	"codeberg.org/lumina/server/internal/sessions"
	"codeberg.org/lumina/server/lumina/users"
)

// account operations used by the handlers; *users.Service satisfies it
type AccountService interface {
	Register(ctx context.Context, in users.RegisterInput) (*users.SignIn, error)
	Authenticate(ctx context.Context, email, password string) (*users.SignIn, error)
	SignInWithProfile(ctx context.Context, provider string, profile users.Profile) (*users.SignIn, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) (*users.SignIn, error)
	UpdateProfile(ctx context.Context, userID, name, picture string) (*users.SignIn, error)
	Get(ctx context.Context, userID string) (*users.User, error)
}

// session operations used by the handlers; *sessions.Manager satisfies it
type SessionManager interface {
	Load(ctx context.Context, r *http.Request) (*sessions.Session, error)
	Rotate(ctx context.Context, w http.ResponseWriter, r *http.Request, current *sessions.Session, id identity.Identity) (*sessions.Session, error)
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request, current *sessions.Session) error
}

// everything the auth routes need
type Deps struct {
	Accounts  AccountService
	Sessions  SessionManager
	Guard     gin.HandlerFunc
	RateLimit gin.HandlerFunc
	// configured OAuth providers, e.g. "google"
	Providers     []string
	SecureCookies bool
}

// RegisterRequest for local sign up
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,max=254"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest for local sign in
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest for editing the current user
type UpdateProfileRequest struct {
	Name    string `json:"name" binding:"max=100"`
	Picture string `json:"picture" binding:"max=500"`
}

// UpdatePasswordRequest for changing or setting a password
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// LoginResponse returned after a successful local sign in
type LoginResponse struct {
	Token string      `json:"token"`
	User  *users.User `json:"user"`
}

// MessageResponse for simple success messages
type MessageResponse struct {
	Message string `json:"message"`
}
