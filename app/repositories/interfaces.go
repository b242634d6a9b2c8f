package repositories

import (
	"time"

	"instafront/app/models"
)

// SessionRepository defines the interface for session record storage
type SessionRepository interface {
	Put(id string, user *models.SessionUser, ttl time.Duration) error
	Get(id string) (*models.SessionUser, error)
	Delete(id string) error
	Clear() error
	Count() (int, error)
}
