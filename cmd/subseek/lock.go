package main

import (
	"fmt"
	"log/slog"

	"github.com/gofrs/flock"

	"subseek/internal/logging"
)

// sessionLock keeps two CLI processes from holding catalog sessions for the
// same account at once.
type sessionLock struct {
	path string
	lock *flock.Flock
}

func acquireSessionLock(path string) (*sessionLock, error) {
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire session lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("another subseek session is active (lock %s)", path)
	}
	return &sessionLock{path: path, lock: lock}, nil
}

func (l *sessionLock) release(logger *slog.Logger) {
	if l == nil {
		return
	}
	if err := l.lock.Unlock(); err != nil {
		logging.WarnWithContext(logger, "failed to release session lock", "session_lock_release_failed",
			logging.Error(err),
			logging.String("lock", l.path),
			logging.String(logging.FieldErrorHint, "remove the lock file if no subseek process is running"),
		)
	}
}
