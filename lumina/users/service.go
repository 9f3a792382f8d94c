package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"codeberg.org/lumina/server/internal/auth"
	apierrors "codeberg.org/lumina/server/internal/errors"
	"codeberg.org/lumina/server/internal/events"
)

func NewService(store Store, issuer Issuer, sink events.Sink) *Service {
	return &Service{store: store, issuer: issuer, events: events.OrDiscard(sink)}
}

// creates a local account and signs it in
func (s *Service) Register(ctx context.Context, in RegisterInput) (*SignIn, error) {
	email := normalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)

	if err := validateEmail(email); err != nil {
		return nil, err
	}

	if name == "" {
		return nil, apierrors.Invalid("name", "name is required")
	}

	if err := validatePassword("password", in.Password); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.store.Create(ctx, email, name, "", &hash)
	if errors.Is(err, apierrors.ErrConflict) {
		return nil, apierrors.Invalid("email", "email already registered")
	}

	if err != nil {
		return nil, err
	}

	s.events.Publish(ctx, events.New(events.UserRegistered, user.ID, user.ID, map[string]any{"method": "password"}))

	return s.signIn(user)
}

// checks email and password. Unknown emails, password-less accounts and
// wrong passwords all fail the same way
func (s *Service) Authenticate(ctx context.Context, email, password string) (*SignIn, error) {
	user, err := s.store.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, apierrors.ErrNotFound) {
		return nil, apierrors.ErrInvalidCredentials
	}

	if err != nil {
		return nil, err
	}

	if !user.HasPassword() || !auth.ComparePassword(*user.PasswordHash, password) {
		return nil, apierrors.ErrInvalidCredentials
	}

	s.events.Publish(ctx, events.New(events.UserSignedIn, user.ID, user.ID, map[string]any{"method": "password"}))

	return s.signIn(user)
}

// finds or creates the account behind an OAuth profile and signs it in
func (s *Service) SignInWithProfile(ctx context.Context, provider string, profile Profile) (*SignIn, error) {
	email := normalizeEmail(profile.Email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	user, created, err := s.store.FindOrCreateByEmail(ctx, email, strings.TrimSpace(profile.Name), profile.Picture)
	if err != nil {
		return nil, err
	}

	if created {
		s.events.Publish(ctx, events.New(events.UserRegistered, user.ID, user.ID, map[string]any{"method": provider}))
	}

	s.events.Publish(ctx, events.New(events.UserSignedIn, user.ID, user.ID, map[string]any{"method": provider}))

	return s.signIn(user)
}

// sets a new password. Accounts that already have one must prove it;
// OAuth-created accounts may set their first password directly
func (s *Service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) (*SignIn, error) {
	if err := validatePassword("newPassword", newPassword); err != nil {
		return nil, err
	}

	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.HasPassword() && !auth.ComparePassword(*user.PasswordHash, currentPassword) {
		return nil, apierrors.ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	updated, err := s.store.UpdatePassword(ctx, userID, hash)
	if err != nil {
		return nil, err
	}

	s.events.Publish(ctx, events.New(events.UserUpdated, userID, userID, map[string]any{"field": "password"}))

	return s.signIn(updated)
}

// edits name and picture; empty name keeps the current one
func (s *Service) UpdateProfile(ctx context.Context, userID, name, picture string) (*SignIn, error) {
	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if name = strings.TrimSpace(name); name == "" {
		name = user.Name
	}

	updated, err := s.store.UpdateProfile(ctx, userID, name, picture)
	if err != nil {
		return nil, err
	}

	s.events.Publish(ctx, events.New(events.UserUpdated, userID, userID, map[string]any{"field": "profile"}))

	return s.signIn(updated)
}

// returns the current account
func (s *Service) Get(ctx context.Context, userID string) (*User, error) {
	return s.store.FindByID(ctx, userID)
}

func (s *Service) signIn(user *User) (*SignIn, error) {
	token, err := s.issuer.Issue(auth.ClaimFields{
		Subject: user.ID,
		Email:   user.Email,
		Name:    user.Name,
		Picture: user.Picture,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &SignIn{User: user, Token: token}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return apierrors.Invalid("email", "a valid email is required")
	}

	return nil
}

func validatePassword(field, password string) error {
	if len(password) < minPasswordLength {
		return apierrors.Invalid(field, fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}

	return nil
}
