// Package runlock serializes mutating runs over a work root so two
// invocations cannot rename or rewrite the same files concurrently.
package runlock

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

const lockFileName = ".jewelcase.lock"

// ErrBusy indicates another run already holds the lock for this root.
var ErrBusy = errors.New("another jewelcase run is already working in this directory")

// Lock guards a single work root. The lock file stays behind after
// release; only the flock matters.
type Lock struct {
	path string
	lock *flock.Flock
}

// New prepares a lock for the given work root.
func New(root string) *Lock {
	path := filepath.Join(root, lockFileName)
	return &Lock{path: path, lock: flock.New(path)}
}

// Acquire takes the lock without blocking. ErrBusy is returned when a
// concurrent run holds it.
func (l *Lock) Acquire() error {
	ok, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock %s: %w", l.path, err)
	}
	if !ok {
		return ErrBusy
	}
	return nil
}

// Release drops the lock.
func (l *Lock) Release() error {
	return l.lock.Unlock()
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}
