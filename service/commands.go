package service

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"instafront/app/repositories"
)

// ErrCancelled is returned when the operator answers no to a prompt.
var ErrCancelled = errors.New("operation cancelled")

func openStore(dbPath string) (*repositories.Repository, *repositories.BadgerSessionRepository, error) {
	repo, err := repositories.NewRepository(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open session store: %w", err)
	}
	return repo, repositories.NewSessionRepository(repo), nil
}

// CountSessions prints how many live sessions the store holds.
func CountSessions(dbPath string, out io.Writer) error {
	if !storeExists(dbPath) {
		fmt.Fprintf(out, "No session store at %s\n", dbPath)
		return nil
	}
	repo, sessions, err := openStore(dbPath)
	if err != nil {
		return err
	}
	defer repo.Close()

	n, err := sessions.Count()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%d active sessions\n", n)
	return nil
}

// CleanSessions logs everyone out by dropping every session record.
func CleanSessions(dbPath string, in io.Reader, out io.Writer) error {
	if !storeExists(dbPath) {
		fmt.Fprintln(out, "Session store is already clean (does not exist)")
		return nil
	}
	if !confirm(in, out, "Are you sure you want to remove every session? All users will be logged out.") {
		fmt.Fprintln(out, "Operation cancelled")
		return ErrCancelled
	}

	repo, sessions, err := openStore(dbPath)
	if err != nil {
		return err
	}
	defer repo.Close()

	if err := sessions.Clear(); err != nil {
		return fmt.Errorf("failed to clean sessions: %w", err)
	}
	fmt.Fprintln(out, "Sessions cleaned successfully")
	return nil
}

// BackupSessions writes a full backup of the store into backupDir and
// returns the file it wrote.
func BackupSessions(dbPath, backupDir string, out io.Writer) (string, error) {
	if !storeExists(dbPath) {
		fmt.Fprintln(out, "No session store exists to backup")
		return "", nil
	}
	if err := os.MkdirAll(backupDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	repo, _, err := openStore(dbPath)
	if err != nil {
		return "", err
	}
	defer repo.Close()

	backupFile := filepath.Join(backupDir, fmt.Sprintf("sessions_%d.bak", time.Now().UnixNano()))
	f, err := os.Create(backupFile)
	if err != nil {
		return "", fmt.Errorf("failed to create backup file: %w", err)
	}
	defer f.Close()

	if err := repo.Backup(f); err != nil {
		return "", fmt.Errorf("failed to backup sessions: %w", err)
	}
	fmt.Fprintf(out, "Sessions backed up successfully to %s\n", backupFile)
	return backupFile, nil
}

// RestoreSessions replaces the store with the contents of backupFile. The
// backup is loaded into a staging directory next to dbPath first, so a
// backup that fails to load leaves the existing store untouched.
func RestoreSessions(dbPath, backupFile string, in io.Reader, out io.Writer) error {
	fi, err := os.Stat(backupFile)
	if err != nil {
		return fmt.Errorf("backup file does not exist: %s", backupFile)
	}
	if fi.Size() == 0 {
		return fmt.Errorf("backup file is empty: %s", backupFile)
	}

	replace := storeExists(dbPath)
	if replace && !confirm(in, out, "Existing session store found. Do you want to replace it?") {
		fmt.Fprintln(out, "Operation cancelled")
		return ErrCancelled
	}

	f, err := os.Open(backupFile)
	if err != nil {
		return fmt.Errorf("failed to open backup file: %w", err)
	}
	defer f.Close()

	parent := filepath.Dir(dbPath)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return fmt.Errorf("failed to create session store directory: %w", err)
	}
	staging, err := os.MkdirTemp(parent, "."+filepath.Base(dbPath)+".restore-*")
	if err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	if err := loadBackup(staging, f); err != nil {
		return fmt.Errorf("failed to restore sessions: %w", err)
	}
	if err := swapStore(dbPath, staging, replace); err != nil {
		return err
	}
	fmt.Fprintln(out, "Sessions restored successfully")
	return nil
}

func loadBackup(dir string, src io.Reader) error {
	repo, _, err := openStore(dir)
	if err != nil {
		return err
	}
	if err := repo.Restore(src); err != nil {
		repo.Close()
		return err
	}
	return repo.Close()
}

// swapStore moves staging into dbPath. A replaced store is renamed aside
// and put back if the move fails.
func swapStore(dbPath, staging string, replace bool) error {
	if !replace {
		if err := os.Rename(staging, dbPath); err != nil {
			return fmt.Errorf("failed to install restored session store: %w", err)
		}
		return nil
	}

	old := fmt.Sprintf("%s.old-%d", dbPath, time.Now().UnixNano())
	if err := os.Rename(dbPath, old); err != nil {
		return fmt.Errorf("failed to move existing session store aside: %w", err)
	}
	if err := os.Rename(staging, dbPath); err != nil {
		if rerr := os.Rename(old, dbPath); rerr != nil {
			log.Printf("Failed to put back session store %s: %v", old, rerr)
		}
		return fmt.Errorf("failed to install restored session store: %w", err)
	}
	if err := os.RemoveAll(old); err != nil {
		log.Printf("Failed to remove previous session store %s: %v", old, err)
	}
	return nil
}
