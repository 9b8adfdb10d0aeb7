package driven

import "context"

// Locker serialises mutating operations across processes with an
// advisory exclusive lock. The lock is acquired before the first read of
// a mutating sequence and released after its final durable write.
type Locker interface {
	// Acquire takes the lock, waiting up to the configured bound.
	// It returns a release func on success and wraps domain.ErrBusy
	// when the lock cannot be obtained in time.
	Acquire(ctx context.Context) (release func(), err error)
}
