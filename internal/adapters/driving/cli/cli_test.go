package cli

import (
	"context"

	"github.com/custodia-labs/ccswitch/internal/core/domain"
	"github.com/custodia-labs/ccswitch/internal/core/ports/driving"
)

// mockAccountService implements driving.AccountService for testing.
type mockAccountService struct {
	accounts []domain.Account
	activeID int
}

func (m *mockAccountService) List(_ context.Context) ([]domain.Account, error) {
	return m.accounts, nil
}

func (m *mockAccountService) Active(_ context.Context) (domain.Account, error) {
	for _, acct := range m.accounts {
		if acct.ID == m.activeID {
			return acct, nil
		}
	}
	return domain.Account{}, domain.ErrNotFound
}

func (m *mockAccountService) Resolve(_ context.Context, selector string) (domain.Account, error) {
	for _, acct := range m.accounts {
		if acct.Label == selector {
			return acct, nil
		}
	}
	return domain.Account{}, domain.ErrNotFound
}

func (m *mockAccountService) RotateNext(_ context.Context) (domain.Account, error) {
	if len(m.accounts) == 0 {
		return domain.Account{}, domain.ErrEmptyRegistry
	}
	return m.accounts[0], nil
}

// mockSwapService implements driving.SwapService for testing.
type mockSwapService struct {
	switchResult *driving.SwitchResult
	addResult    *driving.AddResult
	removed      domain.Account
	err          error

	switchedTo []string
	nextCalls  int
	addedLabel string
	addedKind  domain.AuthKind
	removedSel []string
}

func (m *mockSwapService) SwitchTo(_ context.Context, selector string) (*driving.SwitchResult, error) {
	m.switchedTo = append(m.switchedTo, selector)
	return m.switchResult, m.err
}

func (m *mockSwapService) SwitchNext(_ context.Context) (*driving.SwitchResult, error) {
	m.nextCalls++
	return m.switchResult, m.err
}

func (m *mockSwapService) Add(_ context.Context, label string, kind domain.AuthKind, _ string) (*driving.AddResult, error) {
	m.addedLabel = label
	m.addedKind = kind
	return m.addResult, m.err
}

func (m *mockSwapService) Remove(_ context.Context, selector string) (domain.Account, error) {
	m.removedSel = append(m.removedSel, selector)
	return m.removed, m.err
}

// mockHostInfo implements HostInfo for testing.
type mockHostInfo struct {
	email    string
	envToken bool
}

func (m *mockHostInfo) CurrentEmail() string { return m.email }
func (m *mockHostInfo) HasEnvToken() bool    { return m.envToken }

func testAccounts() []domain.Account {
	return []domain.Account{
		{ID: 1, Label: "work", Kind: domain.AuthOAuth},
		{ID: 2, Label: "personal", Kind: domain.AuthOAuth},
		{ID: 3, Label: "ci", Kind: domain.AuthToken},
	}
}

// setupServices swaps in mocks and returns a cleanup func.
func setupServices(accounts driving.AccountService, swap driving.SwapService, host HostInfo) func() {
	oldAccounts, oldSwap, oldHost := accountService, swapService, hostInfo
	accountService, swapService, hostInfo = accounts, swap, host
	return func() {
		accountService, swapService, hostInfo = oldAccounts, oldSwap, oldHost
	}
}
