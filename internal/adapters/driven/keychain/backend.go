// Package keychain implements credential storage backed by the OS
// secure store via go-keyring. It holds one keychain item per managed
// account plus a dedicated active-token slot read by the shell loader.
package keychain

import (
	"context"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/custodia-labs/ccswitch/internal/core/domain"
	"github.com/custodia-labs/ccswitch/internal/core/ports/driven"
)

// serviceUser is the account name attached to every keychain item.
// Claude Code itself stores its live credentials under the current OS
// user, but snapshot items only need a stable constant.
const serviceUser = "ccswitch"

// servicePrefix matches the naming Claude Code uses for its own
// keychain item so snapshots sort next to it in Keychain Access.
const servicePrefix = "Claude Code"

// activeTokenService is the keychain item the rc file reads the
// current long-lived token from.
const activeTokenService = servicePrefix + "-active-token"

// Backend stores credential and config snapshots as keychain items.
type Backend struct{}

var _ driven.CredentialBackend = (*Backend)(nil)
var _ driven.TokenSlot = (*Backend)(nil)

// NewBackend returns a keychain-backed credential store.
func NewBackend() *Backend {
	return &Backend{}
}

// serviceName builds the keychain service string for one stored entry.
func serviceName(acct domain.Account, kind driven.EntryKind) string {
	if kind == driven.EntryConfig {
		return fmt.Sprintf("%s-Config-%d-%s", servicePrefix, acct.ID, acct.Label)
	}
	return fmt.Sprintf("%s-Account-%d-%s", servicePrefix, acct.ID, acct.Label)
}

// Store writes one snapshot entry, replacing any previous value.
func (b *Backend) Store(_ context.Context, acct domain.Account, kind driven.EntryKind, blob []byte) error {
	if err := keyring.Set(serviceName(acct, kind), serviceUser, string(blob)); err != nil {
		return fmt.Errorf("%w: keychain set %s: %v", domain.ErrBackendWrite, serviceName(acct, kind), err)
	}
	return nil
}

// Load reads one snapshot entry.
func (b *Backend) Load(_ context.Context, acct domain.Account, kind driven.EntryKind) ([]byte, error) {
	val, err := keyring.Get(serviceName(acct, kind), serviceUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, fmt.Errorf("%w: keychain item %s", domain.ErrBackendMissing, serviceName(acct, kind))
		}
		return nil, fmt.Errorf("keychain get %s: %w", serviceName(acct, kind), err)
	}
	return []byte(val), nil
}

// Delete removes one snapshot entry. A missing item is not an error.
func (b *Backend) Delete(_ context.Context, acct domain.Account, kind driven.EntryKind) error {
	err := keyring.Delete(serviceName(acct, kind), serviceUser)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("keychain delete %s: %w", serviceName(acct, kind), err)
	}
	return nil
}

// WriteToken stores the long-lived token in the active-token slot.
func (b *Backend) WriteToken(_ context.Context, token string) error {
	if err := keyring.Set(activeTokenService, serviceUser, token); err != nil {
		return fmt.Errorf("%w: keychain set %s: %v", domain.ErrBackendWrite, activeTokenService, err)
	}
	return nil
}

// ReadToken reads the active-token slot.
func (b *Backend) ReadToken(_ context.Context) (string, error) {
	val, err := keyring.Get(activeTokenService, serviceUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("%w: keychain item %s", domain.ErrTokenNotSet, activeTokenService)
		}
		return "", fmt.Errorf("keychain get %s: %w", activeTokenService, err)
	}
	return val, nil
}

// LookupCommand returns the shell command the rc file uses to read the
// active-token slot on macOS.
func (b *Backend) LookupCommand() string {
	return fmt.Sprintf("security find-generic-password -s %q -w 2>/dev/null", activeTokenService)
}
