package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"codeberg.org/lumina/server/internal/identity"
)

// represents JWT claims; the subject id travels in the registered "sub" claim
type Claims struct {
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// normalizes the claims into a session snapshot, dropping every other field
func (c *Claims) Identity() identity.Identity {
	return identity.Identity{
		ID:      c.Subject,
		Email:   c.Email,
		Name:    c.Name,
		Picture: c.Picture,
	}
}

// fields embedded into a newly issued credential
type ClaimFields struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// where a resolved identity came from
type Source int

const (
	SourceNone Source = iota
	SourceSession
	SourceToken
)

func (s Source) String() string {
	switch s {
	case SourceSession:
		return "session"
	case SourceToken:
		return "token"
	default:
		return "none"
	}
}

// outcome of identity resolution: resolved (with its source) or not
type Resolution struct {
	Identity identity.Identity
	Source   Source
}

func (r Resolution) Resolved() bool {
	return r.Source != SourceNone
}
