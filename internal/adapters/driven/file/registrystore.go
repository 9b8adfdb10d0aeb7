package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/ccswitch/internal/core/domain"
	"github.com/custodia-labs/ccswitch/internal/core/ports/driven"
)

// Ensure RegistryStore implements the interface.
var _ driven.RegistryStore = (*RegistryStore)(nil)

// RegistryStore persists sequence.json. Saves replace the whole
// document through the atomic writer, so a concurrent reader sees
// either the fully-old or fully-new document.
type RegistryStore struct {
	path string
}

// NewRegistryStore creates a registry store at path.
func NewRegistryStore(path string) *RegistryStore {
	return &RegistryStore{path: path}
}

// Path returns the document location.
func (s *RegistryStore) Path() string {
	return s.path
}

// Load reads the registry. A missing document is an empty registry; an
// unparsable one is corrupt state, fatal for the invocation.
func (s *RegistryStore) Load(_ context.Context) (*domain.Registry, error) {
	blob, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &domain.Registry{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}

	var reg domain.Registry
	if err := json.Unmarshal(blob, &reg); err != nil {
		return nil, fmt.Errorf("invalid JSON in %s: %w", s.path, domain.ErrCorruptState)
	}
	return &reg, nil
}

// Save atomically replaces the document.
func (s *RegistryStore) Save(_ context.Context, reg *domain.Registry) error {
	blob, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("serialising registry: %w", err)
	}
	blob = append(blob, '\n')

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return wrapWriteErr(err)
	}
	if err := AtomicWrite(s.path, blob, 0o600); err != nil {
		return wrapWriteErr(err)
	}
	return nil
}
