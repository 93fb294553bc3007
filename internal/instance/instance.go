// Package instance keeps a second timer from starting on the same machine.
package instance

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrAlreadyRunning is returned when another process holds the lock.
var ErrAlreadyRunning = errors.New("another yolodoro instance is already running")

// LockName is the lock file name under the temp directory.
const LockName = "yolodoro.lock"

// DefaultPath returns the lock file location, $TMPDIR/yolodoro.lock.
func DefaultPath() string {
	return filepath.Join(os.TempDir(), LockName)
}

// Guard holds the instance lock until Release.
type Guard struct {
	lock *flock.Flock
}

// Acquire takes a non-blocking exclusive lock on path.
func Acquire(path string) (*Guard, error) {
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", path, err)
	}
	if !ok {
		return nil, ErrAlreadyRunning
	}
	return &Guard{lock: lock}, nil
}

// Path returns the lock file path.
func (g *Guard) Path() string {
	return g.lock.Path()
}

// Release unlocks the file. The file itself is left in place.
func (g *Guard) Release() error {
	if g == nil || g.lock == nil {
		return nil
	}
	if err := g.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}
