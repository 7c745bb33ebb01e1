// Package runlock keeps two implement runs from applying changes at the
// same time.
package runlock

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/seopilot/seopilot/internal/errors"
)

// FileName is the lock file created inside the lock directory.
const FileName = "run.lock"

// ErrHeld is returned by Acquire when another process holds the lock.
var ErrHeld = errors.New("another run is in progress")

// Lock is an exclusive flock(2) lock on a file in a directory.
type Lock struct {
	path string
	file *os.File
}

// New creates a Lock for dir. Nothing is created until Acquire.
func New(dir string) *Lock {
	return &Lock{path: filepath.Join(dir, FileName)}
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}

// Acquire takes the lock without blocking. It fails with ErrHeld when the
// lock belongs to another open file description. The holder's PID is
// written to the lock file for diagnosis.
func (l *Lock) Acquire() error {
	if l.file != nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		_ = f.Close()
		if err == syscall.EWOULDBLOCK {
			return fmt.Errorf("%w (lock %s)", ErrHeld, l.path)
		}
		return fmt.Errorf("flock: %w", err)
	}

	if err := f.Truncate(0); err == nil {
		_, _ = f.WriteAt([]byte(strconv.Itoa(os.Getpid())+"\n"), 0)
	}

	l.file = f
	return nil
}

// Release drops the lock. Releasing a lock that is not held is a no-op.
func (l *Lock) Release() error {
	if l.file == nil {
		return nil
	}

	if err := syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN); err != nil {
		_ = l.file.Close()
		l.file = nil
		return fmt.Errorf("funlock: %w", err)
	}

	err := l.file.Close()
	l.file = nil
	return err
}
