package driven

import (
	"context"

	"github.com/custodia-labs/ccswitch/internal/core/domain"
)

// RegistryStore persists the account registry as a single document.
type RegistryStore interface {
	// Load reads the registry. A missing document yields an empty
	// registry; an unparsable one wraps domain.ErrCorruptState.
	Load(ctx context.Context) (*domain.Registry, error)

	// Save replaces the whole document atomically (temp file + rename),
	// so a concurrent reader always sees either the fully-old or the
	// fully-new document.
	Save(ctx context.Context, reg *domain.Registry) error
}
