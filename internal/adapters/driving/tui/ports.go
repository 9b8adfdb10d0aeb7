// Package tui provides the interactive account picker. It implements a
// driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/ccswitch/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Accounts provides read access to the registry.
	Accounts driving.AccountService

	// Swap performs switches and removals.
	Swap driving.SwapService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(accounts driving.AccountService, swap driving.SwapService) *Ports {
	return &Ports{Accounts: accounts, Swap: swap}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Accounts == nil {
		return ErrMissingAccountService
	}
	if p.Swap == nil {
		return ErrMissingSwapService
	}
	return nil
}
