package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/ccswitch/internal/core/domain"
	"github.com/custodia-labs/ccswitch/internal/core/ports/driven"
)

// Ensure TokenSlot implements the interface.
var _ driven.TokenSlot = (*TokenSlot)(nil)

// TokenSlot keeps the active token in a single 0600 file. The shell
// loader cats it at shell start.
type TokenSlot struct {
	path string
}

// NewTokenSlot creates a file token slot at path.
func NewTokenSlot(path string) *TokenSlot {
	return &TokenSlot{path: path}
}

// Path returns the slot file location.
func (s *TokenSlot) Path() string {
	return s.path
}

// LookupCommand returns the shell command the rc file uses to read the
// slot.
func (s *TokenSlot) LookupCommand() string {
	return fmt.Sprintf("cat %q 2>/dev/null", s.path)
}

// WriteToken overwrites the slot.
func (s *TokenSlot) WriteToken(_ context.Context, value string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return wrapWriteErr(err)
	}
	if err := AtomicWrite(s.path, []byte(value), 0o600); err != nil {
		return wrapWriteErr(err)
	}
	return nil
}

// ReadToken returns the slot value.
func (s *TokenSlot) ReadToken(_ context.Context) (string, error) {
	blob, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s: %w", s.path, domain.ErrTokenNotSet)
		}
		return "", err
	}
	return string(blob), nil
}
