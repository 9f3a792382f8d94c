package auth

import (
	"net/http"
	"strings"

	"codeberg.org/lumina/server/internal/identity"
)

// verifies a raw credential into claims; *Codec satisfies it
type Verifier interface {
	Verify(token string) (*Claims, error)
}

// reconciles the session snapshot and a signed token into one identity
type Resolver struct {
	verifier Verifier
}

func NewResolver(verifier Verifier) *Resolver {
	return &Resolver{verifier: verifier}
}

// resolves in priority order: session snapshot, then credential.
// verification errors are swallowed so every failure looks like "absent"
func (r *Resolver) Resolve(snapshot *identity.Identity, credential string) Resolution {
	if !snapshot.IsZero() {
		return Resolution{Identity: *snapshot, Source: SourceSession}
	}

	if credential == "" {
		return Resolution{}
	}

	claims, err := r.verifier.Verify(credential)
	if err != nil || claims == nil {
		return Resolution{}
	}

	id := claims.Identity()
	if id.ID == "" {
		return Resolution{}
	}

	return Resolution{Identity: id, Source: SourceToken}
}

// returns the token from the named cookie, else from a well-formed bearer header
func ExtractCredential(r *http.Request, cookieName string) string {
	if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}

	return parts[1]
}
