package identity

import "context"

// minimal user fields cached in a session after successful resolution
type Identity struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// reports whether the snapshot carries a subject
func (i *Identity) IsZero() bool {
	return i == nil || i.ID == ""
}

type contextKey struct{}

// returns a copy of ctx carrying the identity
func NewContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// extracts the identity attached by the auth guard
func FromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}

	id, ok := ctx.Value(contextKey{}).(Identity)
	if !ok || id.ID == "" {
		return Identity{}, false
	}

	return id, true
}
