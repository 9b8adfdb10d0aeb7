package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/ccswitch/internal/core/domain"
	"github.com/custodia-labs/ccswitch/internal/core/ports/driven"
	"github.com/custodia-labs/ccswitch/internal/core/ports/driving"
)

// Ensure RegistryService implements the interface.
var _ driving.AccountService = (*RegistryService)(nil)

// RegistryService maintains the durable account list and the
// active-account marker. Every mutation rewrites the whole document
// through the store's atomic replace, so readers always see a complete
// snapshot.
//
// RegistryService performs no cross-process locking itself; mutating
// callers (the swap engine) hold the advisory lock around whole
// operations.
type RegistryService struct {
	store driven.RegistryStore
}

// NewRegistryService creates a new registry service.
func NewRegistryService(store driven.RegistryStore) *RegistryService {
	return &RegistryService{store: store}
}

// Load returns the current registry snapshot.
func (s *RegistryService) Load(ctx context.Context) (*domain.Registry, error) {
	return s.store.Load(ctx)
}

// List returns all managed accounts in rotation order.
func (s *RegistryService) List(ctx context.Context) ([]domain.Account, error) {
	reg, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return reg.Accounts, nil
}

// Active returns the active account.
func (s *RegistryService) Active(ctx context.Context) (domain.Account, error) {
	reg, err := s.store.Load(ctx)
	if err != nil {
		return domain.Account{}, err
	}
	acct, ok := reg.Active()
	if !ok {
		return domain.Account{}, domain.ErrNotFound
	}
	return acct, nil
}

// Resolve maps a selector (numeric ID first, then exact label) to an
// account.
func (s *RegistryService) Resolve(ctx context.Context, selector string) (domain.Account, error) {
	reg, err := s.store.Load(ctx)
	if err != nil {
		return domain.Account{}, err
	}
	acct, ok := reg.Resolve(selector)
	if !ok {
		return domain.Account{}, fmt.Errorf("no account matching %q: %w", selector, domain.ErrNotFound)
	}
	return acct, nil
}

// RotateNext returns the account following the active one in rotation
// order, wrapping to the first after the last. With no active account it
// returns the first account.
func (s *RegistryService) RotateNext(ctx context.Context) (domain.Account, error) {
	reg, err := s.store.Load(ctx)
	if err != nil {
		return domain.Account{}, err
	}
	if len(reg.Accounts) == 0 {
		return domain.Account{}, domain.ErrEmptyRegistry
	}
	idx := reg.IndexOf(reg.ActiveID)
	if idx < 0 {
		return reg.Accounts[0], nil
	}
	return reg.Accounts[(idx+1)%len(reg.Accounts)], nil
}

// Append adds a fully-built account row. The caller allocates the ID
// from the same snapshot under the advisory lock.
func (s *RegistryService) Append(ctx context.Context, acct domain.Account) error {
	reg, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	if _, exists := reg.FindByLabel(acct.Label); exists {
		return fmt.Errorf("account %q: %w", acct.Label, domain.ErrDuplicateLabel)
	}
	reg.Accounts = append(reg.Accounts, acct)
	reg.LastUpdated = domain.NowUTC()
	return s.store.Save(ctx, reg)
}

// Remove deletes the account row. Removing the active account clears the
// active marker; it never promotes a replacement.
func (s *RegistryService) Remove(ctx context.Context, id int) error {
	reg, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	idx := reg.IndexOf(id)
	if idx < 0 {
		return fmt.Errorf("account %d: %w", id, domain.ErrNotFound)
	}
	reg.Accounts = append(reg.Accounts[:idx], reg.Accounts[idx+1:]...)
	if reg.ActiveID == id {
		reg.ActiveID = 0
	}
	reg.LastUpdated = domain.NowUTC()
	return s.store.Save(ctx, reg)
}

// SetActive marks the given account active and persists. Exactly one
// account is active at a time; this replaces any previous marker.
func (s *RegistryService) SetActive(ctx context.Context, id int) error {
	reg, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	if _, ok := reg.Lookup(id); !ok {
		return fmt.Errorf("account %d: %w", id, domain.ErrNotFound)
	}
	reg.ActiveID = id
	reg.LastUpdated = domain.NowUTC()
	return s.store.Save(ctx, reg)
}
