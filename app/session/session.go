package session

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"instafront/app/models"
	"instafront/app/repositories"

	"github.com/google/uuid"
	"golang.org/x/crypto/sha3"
)

// CookieName is the cookie that carries the session token.
const CookieName = "session_id"

// DefaultTTL applies when the manager is configured without one.
const DefaultTTL = 24 * time.Hour

// ErrNoSession means the request carries no usable session.
var ErrNoSession = errors.New("no session")

// Options configure a Manager.
type Options struct {
	TTL    time.Duration
	Secure bool
}

// Manager stores the logged-in user's identifiers behind an opaque cookie.
// The token itself is never persisted, only its SHA3-256 digest.
type Manager struct {
	repo   repositories.SessionRepository
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// NewManager creates a new Manager
func NewManager(repo repositories.SessionRepository, opts Options) *Manager {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{repo: repo, ttl: ttl, secure: opts.Secure, now: time.Now}
}

// Save starts a new session for user and sets the cookie.
func (m *Manager) Save(w http.ResponseWriter, user *models.SessionUser) error {
	if !user.Complete() {
		return fmt.Errorf("session: incomplete user record")
	}
	record := *user
	if record.CreatedAt.IsZero() {
		record.CreatedAt = m.now().UTC()
	}

	token := uuid.New().String()
	if err := m.repo.Put(hashToken(token), &record, m.ttl); err != nil {
		return fmt.Errorf("session: failed to store session: %w", err)
	}
	m.setCookie(w, token)
	return nil
}

func (m *Manager) setCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  m.now().Add(m.ttl),
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Load returns the stored user for the request's cookie, or ErrNoSession
// when there is no cookie, no record, or an incomplete record.
func (m *Manager) Load(r *http.Request) (*models.SessionUser, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, ErrNoSession
	}
	user, err := m.repo.Get(hashToken(cookie.Value))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("session: failed to load session: %w", err)
	}
	if !user.Complete() {
		return nil, ErrNoSession
	}
	return user, nil
}

// Current returns the session user or nil. Storage errors are logged and
// read as logged out.
func (m *Manager) Current(r *http.Request) *models.SessionUser {
	if user := FromContext(r.Context()); user != nil {
		return user
	}
	user, err := m.Load(r)
	if err != nil {
		if !errors.Is(err, ErrNoSession) {
			log.Printf("Error loading session: %v", err)
		}
		return nil
	}
	return user
}

// IsAuthenticated reports whether the request has a complete session.
func (m *Manager) IsAuthenticated(r *http.Request) bool {
	return m.Current(r) != nil
}

// Refresh replaces the record behind the request's existing cookie, used
// after a profile edit changes the username or email. The record and the
// cookie both restart their full TTL.
func (m *Manager) Refresh(w http.ResponseWriter, r *http.Request, user *models.SessionUser) error {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return ErrNoSession
	}
	if !user.Complete() {
		return fmt.Errorf("session: incomplete user record")
	}
	if err := m.repo.Put(hashToken(cookie.Value), user, m.ttl); err != nil {
		return fmt.Errorf("session: failed to refresh session: %w", err)
	}
	m.setCookie(w, cookie.Value)
	return nil
}

// Clear drops the stored record and expires the cookie.
func (m *Manager) Clear(w http.ResponseWriter, r *http.Request) error {
	var err error
	if cookie, cerr := r.Cookie(CookieName); cerr == nil && cookie.Value != "" {
		if derr := m.repo.Delete(hashToken(cookie.Value)); derr != nil {
			err = fmt.Errorf("session: failed to delete session: %w", derr)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return err
}

func hashToken(token string) string {
	sum := sha3.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

type contextKey string

const userContextKey contextKey = "sessionUser"

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user *models.SessionUser) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext returns the user stored by WithUser, or nil.
func FromContext(ctx context.Context) *models.SessionUser {
	user, ok := ctx.Value(userContextKey).(*models.SessionUser)
	if !ok {
		return nil
	}
	return user
}
