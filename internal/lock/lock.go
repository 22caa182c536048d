// Package lock provides a lock file guarding mutable local state against
// concurrent coldvault processes on the same host. The shadow inventory has
// no internal synchronization; whoever opens it holds this lock for the
// duration.
package lock

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileLock is an exclusive, create-based lock file. A lock left behind by
// a crashed process is considered stale after StaleAfter and is reclaimed.
type FileLock struct {
	path       string
	staleAfter time.Duration

	mu   sync.Mutex
	file *os.File
	held bool
}

// DefaultStaleAfter bounds how long a crashed process can block others.
const DefaultStaleAfter = 24 * time.Hour

// New returns a lock guarding target (the lock file is target + ".lock").
func New(target string, staleAfter time.Duration) *FileLock {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	return &FileLock{path: target + ".lock", staleAfter: staleAfter}
}

// Acquire takes the lock or fails immediately if another live process
// holds it.
func (l *FileLock) Acquire() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held {
		return fmt.Errorf("lock %s already held by this process", l.path)
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create lock dir: %w", err)
	}

	file, err := l.create()
	if os.IsExist(err) {
		info, statErr := os.Stat(l.path)
		if statErr != nil && !os.IsNotExist(statErr) {
			return fmt.Errorf("lock file exists and stat failed: %w", statErr)
		}
		if statErr == nil && time.Since(info.ModTime()) < l.staleAfter {
			return fmt.Errorf("lock file exists: %s (another coldvault process may be running)", l.path)
		}
		if removeErr := os.Remove(l.path); removeErr != nil && !os.IsNotExist(removeErr) {
			return fmt.Errorf("remove stale lock: %w", removeErr)
		}
		file, err = l.create()
	}
	if err != nil {
		return fmt.Errorf("create lock file: %w", err)
	}

	if _, err := fmt.Fprintf(file, "%d\n", os.Getpid()); err != nil {
		_ = file.Close()
		_ = os.Remove(l.path)
		return fmt.Errorf("write lock file: %w", err)
	}
	l.file = file
	l.held = true
	return nil
}

func (l *FileLock) create() (*os.File, error) {
	return os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o640)
}

// Release drops the lock. Safe to call when not held.
func (l *FileLock) Release() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.held {
		return nil
	}
	l.held = false
	closeErr := l.file.Close()
	l.file = nil
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove lock file: %w", err)
	}
	return closeErr
}
