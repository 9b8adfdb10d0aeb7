package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/ccswitch/internal/core/domain"
	"github.com/custodia-labs/ccswitch/internal/core/ports/driven"
)

// Ensure Backend implements the interface.
var _ driven.CredentialBackend = (*Backend)(nil)

// Backend stores one snapshot file per (account, kind) under a private
// directory: <dir>/<id>-<label>.json, mode 0600 in a 0700 directory.
type Backend struct {
	dir string
}

// NewBackend creates a filesystem backend rooted at dir. The directory
// is created private on first use.
func NewBackend(dir string) *Backend {
	return &Backend{dir: dir}
}

// entryPath derives the deterministic snapshot file name.
func (b *Backend) entryPath(acct domain.Account) string {
	// Labels are usually emails; strip anything that would escape the
	// snapshot directory.
	label := strings.NewReplacer("/", "_", string(os.PathSeparator), "_").Replace(acct.Label)
	return filepath.Join(b.dir, fmt.Sprintf("%d-%s.json", acct.ID, label))
}

// Store writes a snapshot, overwriting any existing one.
func (b *Backend) Store(_ context.Context, acct domain.Account, _ driven.EntryKind, blob []byte) error {
	if err := os.MkdirAll(b.dir, 0o700); err != nil {
		return wrapWriteErr(fmt.Errorf("creating %s: %w", b.dir, err))
	}
	if err := AtomicWrite(b.entryPath(acct), blob, 0o600); err != nil {
		return wrapWriteErr(err)
	}
	return nil
}

// Load reads a snapshot.
func (b *Backend) Load(_ context.Context, acct domain.Account, _ driven.EntryKind) ([]byte, error) {
	blob, err := os.ReadFile(b.entryPath(acct))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", b.entryPath(acct), domain.ErrBackendMissing)
		}
		return nil, err
	}
	return blob, nil
}

// Delete removes a snapshot.
func (b *Backend) Delete(_ context.Context, acct domain.Account, _ driven.EntryKind) error {
	if err := os.Remove(b.entryPath(acct)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", b.entryPath(acct), domain.ErrBackendMissing)
		}
		return err
	}
	return nil
}

// wrapWriteErr maps a write failure onto the domain taxonomy.
func wrapWriteErr(err error) error {
	if os.IsPermission(err) {
		return fmt.Errorf("%v: %w", err, domain.ErrPermission)
	}
	return fmt.Errorf("%v: %w", err, domain.ErrBackendWrite)
}
