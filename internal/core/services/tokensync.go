package services

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/custodia-labs/ccswitch/internal/core/domain"
	"github.com/custodia-labs/ccswitch/internal/core/ports/driven"
)

// TokenSync manages the auxiliary token-forwarding path for token
// accounts: a single active-token slot plus a write-once shell loader
// that resolves the slot into domain.TokenEnvVar at shell start. The loader
// never contains a raw token, only a lookup command, which is why it is
// written once and never touched again.
type TokenSync struct {
	slot driven.TokenSlot

	// rcPath is the shell loader location (~/.ccswitchrc).
	rcPath string

	// lookup is the platform-specific shell command that resolves the
	// active-token slot to stdout.
	lookup string
}

// NewTokenSync creates a new token sync service. lookup is the shell
// command substituted into the loader line.
func NewTokenSync(slot driven.TokenSlot, rcPath, lookup string) *TokenSync {
	return &TokenSync{slot: slot, rcPath: rcPath, lookup: lookup}
}

// RcPath returns the shell loader location.
func (s *TokenSync) RcPath() string {
	return s.rcPath
}

// UpdateActiveToken overwrites the active-token slot. This is the only
// entry mutated on a switch to a token account.
func (s *TokenSync) UpdateActiveToken(ctx context.Context, value string) error {
	if strings.TrimSpace(value) == "" {
		return domain.ErrTokenNotSet
	}
	return s.slot.WriteToken(ctx, value)
}

// CaptureFromEnvironment reads the token from domain.TokenEnvVar at invocation
// time.
func (s *TokenSync) CaptureFromEnvironment() (string, error) {
	return CaptureTokenFromEnvironment()
}

// CaptureTokenFromEnvironment reads the token from domain.TokenEnvVar.
// The CLI's add flow shares this with TokenSync so the trim and
// absent-value semantics live in one place.
func CaptureTokenFromEnvironment() (string, error) {
	value := strings.TrimSpace(os.Getenv(domain.TokenEnvVar))
	if value == "" {
		return "", fmt.Errorf("%s is empty: %w", domain.TokenEnvVar, domain.ErrTokenNotSet)
	}
	return value, nil
}

// EnsureRcFile writes the shell loader exactly once. If the file already
// exists it is left untouched, including anything the user appended.
// The write-once guard is purely file existence; no process state.
func (s *TokenSync) EnsureRcFile() (created bool, err error) {
	f, err := os.OpenFile(s.rcPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if os.IsExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("creating %s: %w", s.rcPath, err)
	}
	defer f.Close()

	content := fmt.Sprintf(
		"# ccswitch shell loader. Sourced from your shell rc file.\n"+
			"# Resolves the active ccswitch token on shell start.\n"+
			"export %s=\"$(%s)\"\n",
		domain.TokenEnvVar, s.lookup,
	)
	if _, err := f.WriteString(content); err != nil {
		return false, fmt.Errorf("writing %s: %w", s.rcPath, err)
	}
	return true, nil
}
