package driving

import (
	"context"

	"github.com/custodia-labs/ccswitch/internal/core/domain"
)

// AccountService is the read-mostly registry surface used by the CLI and
// TUI. Lookups never take the advisory lock; the registry's atomic
// replace guarantees a consistent snapshot.
type AccountService interface {
	// List returns all managed accounts in rotation order.
	List(ctx context.Context) ([]domain.Account, error)

	// Active returns the active account. domain.ErrNotFound when none.
	Active(ctx context.Context) (domain.Account, error)

	// Resolve maps a selector (numeric ID or exact label) to an
	// account. domain.ErrNotFound when nothing matches.
	Resolve(ctx context.Context, selector string) (domain.Account, error)

	// RotateNext returns the account after the active one in rotation
	// order, wrapping past the end; the first account when none is
	// active. domain.ErrEmptyRegistry with zero accounts.
	RotateNext(ctx context.Context) (domain.Account, error)
}
