package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/ccswitch/internal/core/domain"
	"github.com/custodia-labs/ccswitch/internal/core/ports/driven"
)

// Ensure Locker implements the interface.
var _ driven.Locker = (*Locker)(nil)

// Locker is an in-process lock that fails busy instead of waiting,
// mirroring the bounded-wait behaviour of the flock adapter.
type Locker struct {
	mu   sync.Mutex
	held bool

	// Acquisitions counts successful Acquire calls. Test helper.
	Acquisitions int
}

// NewLocker creates a new in-memory locker.
func NewLocker() *Locker {
	return &Locker{}
}

// Acquire takes the lock or fails busy when it is already held.
func (l *Locker) Acquire(_ context.Context) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held {
		return nil, domain.ErrBusy
	}
	l.held = true
	l.Acquisitions++
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.held = false
	}, nil
}
