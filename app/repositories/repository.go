package repositories

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dgraph-io/badger/v4"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Repository owns the Badger handle shared by the concrete stores.
type Repository struct {
	db       *badger.DB
	mutex    sync.RWMutex
	dbPath   string
	inMemory bool
}

// NewRepository opens the Badger database at path. An empty path opens an
// in-memory database, which is what tests use.
func NewRepository(path string) (*Repository, error) {
	opts := badger.DefaultOptions(path).
		WithLogger(nil).
		WithSyncWrites(false).
		WithNumVersionsToKeep(1).
		WithNumGoroutines(1)
	inMemory := path == ""
	if inMemory {
		opts = opts.WithInMemory(true)
	} else if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	return &Repository{
		db:       db,
		dbPath:   path,
		inMemory: inMemory,
	}, nil
}

// Path returns the on-disk location, empty for an in-memory database.
func (r *Repository) Path() string {
	return r.dbPath
}

func (r *Repository) Close() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.db.Close()
}

// Backup streams a full backup of the database to w.
func (r *Repository) Backup(w io.Writer) error {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	if _, err := r.db.Backup(w, 0); err != nil {
		return fmt.Errorf("failed to backup database: %w", err)
	}
	return nil
}

// Restore loads a backup produced by Backup. Existing keys are kept unless
// the backup overwrites them.
func (r *Repository) Restore(src io.Reader) (err error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic occurred during restore: %v", rec)
		}
	}()
	if err := r.db.Load(src, 4); err != nil {
		return fmt.Errorf("failed to restore database: %w", err)
	}
	return nil
}

// DropPrefix removes every key starting with prefix.
func (r *Repository) DropPrefix(prefix string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.db.DropPrefix([]byte(prefix))
}

// CountPrefix counts the live keys starting with prefix. Expired entries are
// skipped by the iterator.
func (r *Repository) CountPrefix(prefix string) (int, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	count := 0
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}
