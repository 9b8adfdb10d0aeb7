// Package memory provides in-memory implementations of the driven ports
// for testing.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/ccswitch/internal/core/domain"
	"github.com/custodia-labs/ccswitch/internal/core/ports/driven"
)

// Ensure Backend implements the interfaces.
var (
	_ driven.CredentialBackend = (*Backend)(nil)
	_ driven.TokenSlot         = (*Backend)(nil)
)

// Backend is an in-memory credential backend and token slot.
type Backend struct {
	mu      sync.RWMutex
	entries map[string][]byte
	token   string
	hasTok  bool
}

// NewBackend creates a new in-memory backend.
func NewBackend() *Backend {
	return &Backend{entries: make(map[string][]byte)}
}

func entryKey(acct domain.Account, kind driven.EntryKind) string {
	return fmt.Sprintf("%d-%s-%s", acct.ID, acct.Label, kind)
}

// Store writes a blob, overwriting any existing entry.
func (b *Backend) Store(_ context.Context, acct domain.Account, kind driven.EntryKind, blob []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	cp := make([]byte, len(blob))
	copy(cp, blob)
	b.entries[entryKey(acct, kind)] = cp
	return nil
}

// Load reads a blob.
func (b *Backend) Load(_ context.Context, acct domain.Account, kind driven.EntryKind) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	blob, ok := b.entries[entryKey(acct, kind)]
	if !ok {
		return nil, domain.ErrBackendMissing
	}
	cp := make([]byte, len(blob))
	copy(cp, blob)
	return cp, nil
}

// Delete removes an entry.
func (b *Backend) Delete(_ context.Context, acct domain.Account, kind driven.EntryKind) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := entryKey(acct, kind)
	if _, ok := b.entries[key]; !ok {
		return domain.ErrBackendMissing
	}
	delete(b.entries, key)
	return nil
}

// WriteToken overwrites the active-token slot.
func (b *Backend) WriteToken(_ context.Context, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.token = value
	b.hasTok = true
	return nil
}

// ReadToken returns the active-token slot value.
func (b *Backend) ReadToken(_ context.Context) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.hasTok {
		return "", domain.ErrTokenNotSet
	}
	return b.token, nil
}

// Len returns the number of stored entries. Test helper.
func (b *Backend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}
