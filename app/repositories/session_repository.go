package repositories

import (
	"fmt"
	"time"

	"instafront/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerSessionRepository stores session records with a Badger TTL.
type BadgerSessionRepository struct {
	repo *Repository
}

var _ SessionRepository = (*BadgerSessionRepository)(nil)

// NewSessionRepository creates a new BadgerSessionRepository
func NewSessionRepository(repo *Repository) *BadgerSessionRepository {
	return &BadgerSessionRepository{repo: repo}
}

// Put stores user under id. A non-positive ttl stores it without expiry.
func (r *BadgerSessionRepository) Put(id string, user *models.SessionUser, ttl time.Duration) error {
	if id == "" || user == nil {
		return fmt.Errorf("session id and user are required")
	}
	data, err := marshalEntity(user)
	if err != nil {
		return err
	}

	r.repo.mutex.Lock()
	defer r.repo.mutex.Unlock()
	return r.repo.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(sessionKey(id), data)
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		return txn.SetEntry(entry)
	})
}

func (r *BadgerSessionRepository) Get(id string) (*models.SessionUser, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	var user models.SessionUser

	r.repo.mutex.RLock()
	defer r.repo.mutex.RUnlock()
	err := r.repo.db.View(func(txn *badger.Txn) error {
		return readEntity(txn, sessionKey(id), &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete removes the record. Deleting a missing id is not an error.
func (r *BadgerSessionRepository) Delete(id string) error {
	r.repo.mutex.Lock()
	defer r.repo.mutex.Unlock()
	return r.repo.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(sessionKey(id))
	})
}

func (r *BadgerSessionRepository) Clear() error {
	return r.repo.DropPrefix(SessionKeyPrefix)
}

func (r *BadgerSessionRepository) Count() (int, error) {
	return r.repo.CountPrefix(SessionKeyPrefix)
}
