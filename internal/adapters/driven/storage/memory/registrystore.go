package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/ccswitch/internal/core/domain"
	"github.com/custodia-labs/ccswitch/internal/core/ports/driven"
)

// Ensure RegistryStore implements the interface.
var _ driven.RegistryStore = (*RegistryStore)(nil)

// RegistryStore is an in-memory registry document store.
type RegistryStore struct {
	mu  sync.RWMutex
	reg domain.Registry
}

// NewRegistryStore creates a new in-memory registry store.
func NewRegistryStore() *RegistryStore {
	return &RegistryStore{}
}

// Load returns a copy of the stored registry.
func (s *RegistryStore) Load(_ context.Context) (*domain.Registry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := s.reg
	cp.Accounts = append([]domain.Account(nil), s.reg.Accounts...)
	return &cp, nil
}

// Save replaces the stored registry.
func (s *RegistryStore) Save(_ context.Context, reg *domain.Registry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *reg
	cp.Accounts = append([]domain.Account(nil), reg.Accounts...)
	s.reg = cp
	return nil
}
