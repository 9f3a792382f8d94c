package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultTokenTTL = 7 * 24 * time.Hour

var (
	// no token was presented; distinct from a token that failed verification
	ErrNoCredential = errors.New("no credential presented")

	// the token was malformed, tampered, signed with another key or expired
	ErrInvalidCredential = errors.New("invalid credential")
)

// signs and verifies HS256 identity tokens over a shared secret
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type CodecOption func(*Codec)

// injects a custom clock (useful for tests)
func WithClock(now func() time.Time) CodecOption {
	return func(c *Codec) {
		if now != nil {
			c.now = now
		}
	}
}

// creates a codec; a non-positive ttl falls back to seven days
func NewCodec(secret []byte, ttl time.Duration, opts ...CodecOption) (*Codec, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("JWT_SECRET not set")
	}

	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	c := &Codec{secret: secret, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// returns how long issued tokens stay valid
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// creates a signed token for the given claim fields
func (c *Codec) Issue(fields ClaimFields) (string, error) {
	if fields.Subject == "" {
		return "", fmt.Errorf("token subject is required")
	}

	now := c.now()
	claims := Claims{
		Email:   fields.Email,
		Name:    fields.Name,
		Picture: fields.Picture,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fields.Subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// validates a token and returns its claims
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrNoCredential
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredential, err)
	}

	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidCredential
	}

	return claims, nil
}
