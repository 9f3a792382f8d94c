package auth

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "codeberg.org/lumina/server/internal/errors"
	"codeberg.org/lumina/server/internal/identity"
	"codeberg.org/lumina/server/internal/logger"
	"codeberg.org/lumina/server/internal/sessions"
)

const (
	// cookie carrying the signed identity token
	TokenCookieName = "token"

	contextKeyUserID   = "user_id"
	contextKeyIdentity = "identity"
	contextKeySession  = "session"
)

// loads and updates server-side sessions; *sessions.Manager satisfies it
type SessionManager interface {
	Load(ctx context.Context, r *http.Request) (*sessions.Session, error)
	Rotate(ctx context.Context, w http.ResponseWriter, r *http.Request, current *sessions.Session, id identity.Identity) (*sessions.Session, error)
}

// admits requests carrying an authenticated identity
type Guard struct {
	sessions   SessionManager
	resolver   *Resolver
	cookieName string
}

func NewGuard(sessions SessionManager, resolver *Resolver) *Guard {
	return &Guard{sessions: sessions, resolver: resolver, cookieName: TokenCookieName}
}

// rejects unauthenticated requests with a uniform 401. A token-resolved
// identity is written to a new session before the handler runs, so later
// requests take the session path
func (g *Guard) Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		session, err := g.sessions.Load(ctx, c.Request)
		if err != nil {
			logger.ErrorErr(err, "failed to load session", "path", c.Request.URL.Path)
			deny(c)
			return
		}

		res := g.resolver.Resolve(session.Snapshot(), ExtractCredential(c.Request, g.cookieName))
		if !res.Resolved() {
			deny(c)
			return
		}

		// a token-resolved identity always gets a session id of its own
		if res.Source == SourceToken {
			session, err = g.sessions.Rotate(ctx, c.Writer, c.Request, session, res.Identity)
			if err != nil {
				logger.ErrorErr(err, "failed to attach identity to session", "user_id", res.Identity.ID)
				deny(c)
				return
			}
		}

		c.Set(contextKeyUserID, res.Identity.ID)
		c.Set(contextKeyIdentity, res.Identity)
		c.Set(contextKeySession, session)
		c.Request = c.Request.WithContext(identity.NewContext(c.Request.Context(), res.Identity))

		c.Next()
	}
}

func deny(c *gin.Context) {
	apierrors.Unauthorized(c, apierrors.ErrUnauthenticated.Error())
	c.Abort()
}

// extracts user_id from context after Require
func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(contextKeyUserID)
	if !exists {
		return "", false
	}

	id, ok := userID.(string)
	return id, ok && id != ""
}

// extracts the resolved identity from context after Require
func GetIdentity(c *gin.Context) (identity.Identity, bool) {
	v, exists := c.Get(contextKeyIdentity)
	if !exists {
		return identity.Identity{}, false
	}

	id, ok := v.(identity.Identity)
	return id, ok && id.ID != ""
}

// returns the session bound by Require, if any
func GetSession(c *gin.Context) *sessions.Session {
	v, exists := c.Get(contextKeySession)
	if !exists {
		return nil
	}

	session, _ := v.(*sessions.Session)
	return session
}
