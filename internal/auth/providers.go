package auth

import (
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/github"
	"github.com/markbates/goth/providers/google"

	"codeberg.org/lumina/server/internal/config"
)

// sets up the configured OAuth providers using goth and returns their names
func InitializeProviders(cfg *config.Config) ([]string, error) {
	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET must be set")
	}

	// gothic keeps OAuth state in its own short-lived cookie
	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		Secure:   cfg.SecureCookies(),
		SameSite: http.SameSiteLaxMode,
	}

	gothic.Store = store

	var providers []goth.Provider
	var names []string

	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		providers = append(providers, google.New(
			cfg.GoogleClientID,
			cfg.GoogleClientSecret,
			cfg.BaseURL+"/auth/google/callback",
			"email", "profile",
		))
		names = append(names, "google")
	}

	if cfg.GitHubClientID != "" && cfg.GitHubClientSecret != "" {
		providers = append(providers, github.New(
			cfg.GitHubClientID,
			cfg.GitHubClientSecret,
			cfg.BaseURL+"/auth/github/callback",
			"user:email",
		))
		names = append(names, "github")
	}

	goth.UseProviders(providers...)
	return names, nil
}
