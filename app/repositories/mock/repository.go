package mock

import (
	"errors"
	"sync"
	"time"

	"instafront/app/models"
	"instafront/app/repositories"
)

type sessionEntry struct {
	user    models.SessionUser
	expires time.Time
}

// SessionRepository keeps session records in a map. Now can be replaced to
// move the clock in expiry tests.
type SessionRepository struct {
	sessions map[string]sessionEntry
	mutex    sync.RWMutex
	Now      func() time.Time
	Err      error
}

var _ repositories.SessionRepository = (*SessionRepository)(nil)

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]sessionEntry),
		Now:      time.Now,
	}
}

// SessionRepository implementation
func (m *SessionRepository) Put(id string, user *models.SessionUser, ttl time.Duration) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.Err != nil {
		return m.Err
	}
	if id == "" || user == nil {
		return errors.New("session id and user are required")
	}
	entry := sessionEntry{user: *user}
	if ttl > 0 {
		entry.expires = m.Now().Add(ttl)
	}
	m.sessions[id] = entry
	return nil
}

func (m *SessionRepository) Get(id string) (*models.SessionUser, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.Err != nil {
		return nil, m.Err
	}
	entry, exists := m.sessions[id]
	if !exists || m.expired(entry) {
		return nil, repositories.ErrNotFound
	}
	user := entry.user
	return &user, nil
}

func (m *SessionRepository) Delete(id string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	delete(m.sessions, id)
	return m.Err
}

func (m *SessionRepository) Clear() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.sessions = make(map[string]sessionEntry)
	return m.Err
}

func (m *SessionRepository) Count() (int, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	count := 0
	for _, entry := range m.sessions {
		if !m.expired(entry) {
			count++
		}
	}
	return count, m.Err
}

func (m *SessionRepository) expired(entry sessionEntry) bool {
	return !entry.expires.IsZero() && !m.Now().Before(entry.expires)
}
