package domain

import (
	"strconv"
	"time"
)

// TokenEnvVar is the environment variable Claude Code reads a
// long-lived token from. It overrides the credentials file when set.
const TokenEnvVar = "CLAUDE_CODE_OAUTH_TOKEN"

// AuthKind identifies how an account authenticates with Claude Code.
type AuthKind string

// Available auth kinds.
const (
	// AuthOAuth is a browser-login account. Its live credentials are
	// refreshed by Claude Code and must be re-snapshotted on every switch.
	AuthOAuth AuthKind = "oauth"

	// AuthToken is a long-lived token account (claude setup-token).
	// Its stored token is static and never re-captured after add.
	AuthToken AuthKind = "token"
)

// IsValid returns true if the auth kind is recognised.
func (k AuthKind) IsValid() bool {
	switch k {
	case AuthOAuth, AuthToken:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k AuthKind) String() string {
	return string(k)
}

// Account is a managed Claude Code account.
// Its credential and config snapshots live in the credential backend,
// keyed deterministically by ID and Label.
type Account struct {
	// ID is the positive, stable account number. IDs are allocated as
	// max(existing)+1 and never reused after removal.
	ID int `json:"id"`

	// Label is the unique human-readable identifier, usually the
	// account's email address. Used as an alternate lookup key.
	Label string `json:"label"`

	// Kind is the authentication kind (oauth or token).
	Kind AuthKind `json:"kind"`

	// UUID is the host application's account UUID, captured from the
	// live config at add time. Empty for token accounts.
	UUID string `json:"uuid,omitempty"`

	// Added is when the account was added, RFC3339 UTC.
	Added string `json:"added,omitempty"`
}

// Registry is the durable account list, persisted as sequence.json.
// The accounts slice order is add order and defines rotation order.
type Registry struct {
	// Accounts is the ordered account list.
	Accounts []Account `json:"accounts"`

	// ActiveID is the ID of the active account, or 0 when none is active.
	// Serialised as activeId and omitted when unset.
	ActiveID int `json:"activeId,omitempty"`

	// LastUpdated is when the registry was last written, RFC3339 UTC.
	LastUpdated string `json:"lastUpdated,omitempty"`
}

// NextID returns the ID to assign to the next added account.
func (r *Registry) NextID() int {
	max := 0
	for _, a := range r.Accounts {
		if a.ID > max {
			max = a.ID
		}
	}
	return max + 1
}

// Lookup returns the account with the given ID.
func (r *Registry) Lookup(id int) (Account, bool) {
	for _, a := range r.Accounts {
		if a.ID == id {
			return a, true
		}
	}
	return Account{}, false
}

// FindByLabel returns the account with the given label.
func (r *Registry) FindByLabel(label string) (Account, bool) {
	for _, a := range r.Accounts {
		if a.Label == label {
			return a, true
		}
	}
	return Account{}, false
}

// Resolve maps a selector (numeric ID or exact label) to an account.
// Numeric selectors are tried as IDs first; a number that matches no ID
// does not fall back to label matching.
func (r *Registry) Resolve(selector string) (Account, bool) {
	if id, err := strconv.Atoi(selector); err == nil {
		return r.Lookup(id)
	}
	return r.FindByLabel(selector)
}

// Active returns the active account, if any.
func (r *Registry) Active() (Account, bool) {
	if r.ActiveID == 0 {
		return Account{}, false
	}
	return r.Lookup(r.ActiveID)
}

// IndexOf returns the position of the account with the given ID in
// rotation order, or -1 when absent.
func (r *Registry) IndexOf(id int) int {
	for i, a := range r.Accounts {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// NowUTC returns the current time formatted for registry timestamps.
func NowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}
