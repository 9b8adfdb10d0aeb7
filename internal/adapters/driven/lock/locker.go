// Package lock implements the cross-process locker with an advisory
// flock on a file under the state directory.
package lock

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/custodia-labs/ccswitch/internal/core/domain"
	"github.com/custodia-labs/ccswitch/internal/core/ports/driven"
)

// retryInterval is how often a blocked acquire re-attempts the flock.
const retryInterval = 50 * time.Millisecond

// Locker takes an exclusive flock on a fixed lock file.
type Locker struct {
	path    string
	timeout time.Duration
}

var _ driven.Locker = (*Locker)(nil)

// NewLocker builds a locker over stateDir/.lock using the configured
// acquisition bound.
func NewLocker(stateDir string, settings domain.LockSettings) *Locker {
	return &Locker{
		path:    filepath.Join(stateDir, ".lock"),
		timeout: settings.Timeout,
	}
}

// Acquire takes the lock, retrying until the timeout elapses or ctx is
// cancelled. Either outcome wraps domain.ErrBusy.
func (l *Locker) Acquire(ctx context.Context) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o700); err != nil {
		return nil, fmt.Errorf("creating lock directory: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	fl := flock.New(l.path)
	locked, err := fl.TryLockContext(ctx, retryInterval)
	if err != nil || !locked {
		return nil, fmt.Errorf("%w: another ccswitch operation holds %s", domain.ErrBusy, l.path)
	}

	return func() {
		fl.Unlock()
	}, nil
}
