// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and command results that flow through the
// Elm architecture.
package messages

import (
	"github.com/custodia-labs/ccswitch/internal/core/domain"
	"github.com/custodia-labs/ccswitch/internal/core/ports/driving"
)

// AccountsLoaded carries the registry snapshot into the picker.
type AccountsLoaded struct {
	Accounts []domain.Account
	ActiveID int
	Err      error
}

// SwitchCompleted carries the outcome of a switch back to the picker.
type SwitchCompleted struct {
	Result *driving.SwitchResult
	Err    error
}

// RemoveCompleted carries the outcome of a remove back to the picker.
type RemoveCompleted struct {
	Removed domain.Account
	Err     error
}
