package sessions

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	gsessions "github.com/gorilla/sessions"

	"codeberg.org/lumina/server/internal/identity"
)

const (
	CookieName = "lumina_session"

	// key inside the signed cookie holding the server-side session id
	cookieKeySessionID = "sid"

	DefaultTTL = 24 * time.Hour
)

// binds requests to server-side sessions through a signed cookie
type Manager struct {
	store   Store
	cookies *gsessions.CookieStore
	ttl     time.Duration
	now     func() time.Time
}

type Options struct {
	Secret []byte
	TTL    time.Duration
	Secure bool
}

// returns a new session manager
func NewManager(store Store, opts Options) (*Manager, error) {
	if len(opts.Secret) == 0 {
		return nil, fmt.Errorf("SESSION_SECRET not set")
	}

	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}

	cookies := gsessions.NewCookieStore(opts.Secret)
	cookies.Options = &gsessions.Options{
		Path:     "/",
		MaxAge:   int(opts.TTL.Seconds()),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}

	return &Manager{
		store:   store,
		cookies: cookies,
		ttl:     opts.TTL,
		now:     time.Now,
	}, nil
}

// returns the request's session. Requests without a valid cookie, or whose
// session expired, get a fresh unsaved session with a new id
func (m *Manager) Load(ctx context.Context, r *http.Request) (*Session, error) {
	// a tampered or stale cookie decodes to an empty session, which is fine
	cookie, _ := m.cookies.Get(r, CookieName)

	sid, _ := cookie.Values[cookieKeySessionID].(string)
	if sid == "" {
		return m.fresh(), nil
	}

	session, err := m.store.Get(ctx, sid)
	if errors.Is(err, ErrSessionNotFound) {
		return m.fresh(), nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	return session, nil
}

// stores an identity snapshot on the session as a whole-value replacement
// and writes the session cookie
func (m *Manager) Attach(ctx context.Context, w http.ResponseWriter, r *http.Request, current *Session, id identity.Identity) (*Session, error) {
	if current == nil {
		current = m.fresh()
	}

	next := &Session{
		ID:        current.ID,
		Identity:  &id,
		UpdatedAt: m.now(),
	}

	stored, err := m.store.Replace(ctx, next, m.ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to attach identity: %w", err)
	}

	if err := m.writeCookie(w, r, stored.ID, m.cookies.Options.MaxAge); err != nil {
		return nil, err
	}

	return stored, nil
}

// moves the identity onto a newly minted session id and deletes the old one,
// so a cookie presented before sign-in never resolves to the signed-in user
func (m *Manager) Rotate(ctx context.Context, w http.ResponseWriter, r *http.Request, current *Session, id identity.Identity) (*Session, error) {
	if current != nil && current.ID != "" {
		if err := m.store.Delete(ctx, current.ID); err != nil {
			return nil, fmt.Errorf("failed to rotate session: %w", err)
		}
	}

	return m.Attach(ctx, w, r, m.fresh(), id)
}

// deletes the session and expires its cookie
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request, current *Session) error {
	if current != nil && current.ID != "" {
		if err := m.store.Delete(ctx, current.ID); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
	}

	return m.writeCookie(w, r, "", -1)
}

func (m *Manager) writeCookie(w http.ResponseWriter, r *http.Request, sid string, maxAge int) error {
	cookie, _ := m.cookies.Get(r, CookieName)

	opts := *m.cookies.Options
	opts.MaxAge = maxAge
	cookie.Options = &opts

	if sid == "" {
		delete(cookie.Values, cookieKeySessionID)
	} else {
		cookie.Values[cookieKeySessionID] = sid
	}

	if err := cookie.Save(r, w); err != nil {
		return fmt.Errorf("failed to write session cookie: %w", err)
	}

	return nil
}

func (m *Manager) fresh() *Session {
	return &Session{ID: uuid.NewString(), UpdatedAt: m.now()}
}
