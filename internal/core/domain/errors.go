package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a selector matched no managed account.
	ErrNotFound = errors.New("account not found")

	// ErrDuplicateLabel indicates the label is already managed.
	ErrDuplicateLabel = errors.New("label already managed")

	// ErrEmptyRegistry indicates no accounts are managed yet.
	ErrEmptyRegistry = errors.New("no accounts managed")

	// ErrCorruptState indicates the registry document is unparsable or
	// the registry and the credential backend have desynchronised.
	// Fatal for the current invocation; never auto-repaired.
	ErrCorruptState = errors.New("corrupt state")

	// ErrBackendWrite indicates the credential backend failed to store
	// an entry (secure-store failure or filesystem I/O error).
	ErrBackendWrite = errors.New("backend write failed")

	// ErrBackendMissing indicates a credential backend entry is absent.
	ErrBackendMissing = errors.New("backend entry missing")

	// ErrTokenNotSet indicates the token environment variable is absent
	// or empty when adding a token account.
	ErrTokenNotSet = errors.New("token not set")

	// ErrBusy indicates the advisory lock could not be acquired within
	// the bounded wait. Another invocation holds it.
	ErrBusy = errors.New("another ccswitch operation is in progress")

	// ErrPermission indicates the required file modes or ownership
	// cannot be satisfied.
	ErrPermission = errors.New("permission denied")
)
