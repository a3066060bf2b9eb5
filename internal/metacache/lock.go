package metacache

import (
	"errors"
	"fmt"

	"github.com/gofrs/flock"
)

// ErrLocked reports that another reelwrap run holds the cache lock.
var ErrLocked = errors.New("metadata cache is in use by another reelwrap run")

// Lock is an advisory, non-blocking file lock guarding the cache file for
// the duration of one enrichment run.
type Lock struct {
	path string
	fl   *flock.Flock
}

// AcquireLock takes the lock at path or fails immediately with ErrLocked.
func AcquireLock(path string) (*Lock, error) {
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire cache lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock file %s)", ErrLocked, path)
	}
	return &Lock{path: path, fl: fl}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string { return l.path }

// Release drops the lock. It is safe to call on a nil Lock.
func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	if err := l.fl.Unlock(); err != nil {
		return fmt.Errorf("release cache lock %s: %w", l.path, err)
	}
	return nil
}
