// Package runlock keeps at most one run in flight per input pair, across
// processes.
package runlock

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// returned when another run holds the lock for the same inputs
var ErrBusy = errors.New("another run for these inputs is already in progress")

type Lock struct {
	path string
	fl   *flock.Flock
}

// Key derives a stable lock name from the absolute form of paths.
func Key(paths ...string) (string, error) {
	h := sha256.New()
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return "", fmt.Errorf("resolve %q: %w", p, err)
		}
		h.Write([]byte(abs))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil)[:16]), nil
}

// Acquire takes the lock for paths without blocking. ErrBusy means another
// run is active; the caller decides whether to retry.
func Acquire(dir string, paths ...string) (*Lock, error) {
	key, err := Key(paths...)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lockPath := filepath.Join(dir, key+".lock")
	fl := flock.New(lockPath)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock %s)", ErrBusy, lockPath)
	}
	return &Lock{path: lockPath, fl: fl}, nil
}

func (l *Lock) Path() string {
	return l.path
}

// Release unlocks; the lock file stays for reuse.
func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	if err := l.fl.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}
