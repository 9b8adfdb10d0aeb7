package driven

import (
	"context"

	"github.com/custodia-labs/ccswitch/internal/core/domain"
)

// EntryKind selects which of an account's two snapshots an operation
// addresses.
type EntryKind string

// Available entry kinds.
const (
	// EntryCredential is the account's credential snapshot.
	EntryCredential EntryKind = "credential"

	// EntryConfig is the account's config snapshot.
	EntryConfig EntryKind = "config"
)

// String returns the string representation.
func (k EntryKind) String() string {
	return string(k)
}

// CredentialBackend stores opaque credential/config blobs per account.
// Entries are keyed deterministically by (account ID, label, kind);
// callers never see storage names.
//
// Two variants exist: a secure-store (OS keychain) variant and a
// filesystem variant with restrictive permissions. The variant is picked
// once at startup by platform detection.
type CredentialBackend interface {
	// Store writes a blob, overwriting any existing entry. Overwrites
	// are atomic from the caller's perspective: a concurrent reader
	// observes either the old or the new value, never garbage.
	// Failures wrap domain.ErrBackendWrite.
	Store(ctx context.Context, acct domain.Account, kind EntryKind, blob []byte) error

	// Load reads a blob. Absent entries wrap domain.ErrBackendMissing.
	Load(ctx context.Context, acct domain.Account, kind EntryKind) ([]byte, error)

	// Delete removes an entry. Absent entries wrap
	// domain.ErrBackendMissing; cleanup callers treat that as a no-op.
	Delete(ctx context.Context, acct domain.Account, kind EntryKind) error
}

// TokenSlot is the single active-token entry updated on every switch to
// a token account. The shell loader resolves it at shell start, which is
// why the loader file itself never changes.
type TokenSlot interface {
	// WriteToken overwrites the slot with the given token value.
	WriteToken(ctx context.Context, value string) error

	// ReadToken returns the current slot value. An absent slot wraps
	// domain.ErrTokenNotSet.
	ReadToken(ctx context.Context) (string, error)
}
