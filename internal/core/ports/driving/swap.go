package driving

import (
	"context"

	"github.com/custodia-labs/ccswitch/internal/core/domain"
)

// SwitchResult describes a completed switch for display.
type SwitchResult struct {
	// From is the previously-active account label, or "" when none.
	From string

	// To is the now-active account.
	To domain.Account

	// NoOp is true when the target was already active.
	NoOp bool

	// TokenSyncErr holds a step-6 token-slot failure. The credential
	// swap is already committed when this is set; it is reported, never
	// rolled back.
	TokenSyncErr error
}

// AddResult describes a completed add for display.
type AddResult struct {
	// Account is the newly managed account, already marked active.
	Account domain.Account

	// RcFileCreated is true when the one-time shell loader was written
	// by this call (token accounts only).
	RcFileCreated bool

	// RcFilePath is the shell loader location, for the one-time setup
	// hint.
	RcFilePath string
}

// SwapService transactionally exchanges Claude Code's live state with a
// stored account's state. All mutating operations hold the advisory
// lock for their whole duration.
type SwapService interface {
	// SwitchTo makes the live state equal the target account's stored
	// state, preserving the previously-live state first. Switching to
	// the already-active account is a no-op that still verifies the
	// target's stored entries exist.
	SwitchTo(ctx context.Context, selector string) (*SwitchResult, error)

	// SwitchNext rotates to the account after the active one.
	SwitchNext(ctx context.Context) (*SwitchResult, error)

	// Add captures the current live state as a new managed account and
	// marks it active. For token accounts the credential snapshot is
	// the supplied token value.
	Add(ctx context.Context, label string, kind domain.AuthKind, token string) (*AddResult, error)

	// Remove deletes an account's snapshots (best effort) and registry
	// row. Removing the active account clears the active marker without
	// promoting a replacement.
	Remove(ctx context.Context, selector string) (domain.Account, error)
}
