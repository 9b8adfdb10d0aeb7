package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/ccswitch/internal/core/domain"
	"github.com/custodia-labs/ccswitch/internal/core/ports/driven"
	"github.com/custodia-labs/ccswitch/internal/core/ports/driving"
	"github.com/custodia-labs/ccswitch/internal/logger"
)

// Ensure SwapEngine implements the interface.
var _ driving.SwapService = (*SwapEngine)(nil)

// SwapEngine transactionally exchanges Claude Code's live credential and
// config state with a stored account's state.
//
// A switch walks a fixed sequence, each step one durable atomic
// operation: back up the previously-live state, write the target's state
// into the live locations, mark the target active, then sync the token
// slot for token accounts. Rename is the sole commit point for every
// file, so a crash at any point leaves the filesystem matching either
// "before the switch" or "after the switch", never a hybrid.
type SwapEngine struct {
	registry *RegistryService

	// creds stores credential snapshots: the keychain variant on macOS,
	// the file variant elsewhere.
	creds driven.CredentialBackend

	// configs stores config snapshots: the file variant on every
	// platform.
	configs driven.CredentialBackend

	host   driven.HostState
	tokens *TokenSync
	locker driven.Locker
}

// NewSwapEngine creates a new swap engine.
func NewSwapEngine(
	registry *RegistryService,
	creds driven.CredentialBackend,
	configs driven.CredentialBackend,
	host driven.HostState,
	tokens *TokenSync,
	locker driven.Locker,
) *SwapEngine {
	return &SwapEngine{
		registry: registry,
		creds:    creds,
		configs:  configs,
		host:     host,
		tokens:   tokens,
		locker:   locker,
	}
}

// tokenBlob is the credential snapshot format for token accounts.
type tokenBlob struct {
	Token string `json:"token"`
}

// SwitchTo makes the live state equal the target account's stored state.
func (e *SwapEngine) SwitchTo(ctx context.Context, selector string) (*driving.SwitchResult, error) {
	release, err := e.locker.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	reg, err := e.registry.Load(ctx)
	if err != nil {
		return nil, err
	}

	target, ok := reg.Resolve(selector)
	if !ok {
		return nil, fmt.Errorf("no account matching %q: %w", selector, domain.ErrNotFound)
	}

	current, hasCurrent := reg.Active()

	if hasCurrent && current.ID == target.ID {
		// Already active: no-op, but still verify the stored entries
		// exist so registry/backend desync is caught here rather than
		// on the switch away.
		if err := e.verifyStored(ctx, target); err != nil {
			return nil, err
		}
		return &driving.SwitchResult{From: current.Label, To: target, NoOp: true}, nil
	}

	// Step 2: preserve the previously-live state. Only OAuth accounts
	// are snapshotted: Claude Code refreshes their live credentials, so
	// the stored copy must follow. A token account's stored state is
	// immutable after add and the live files never represent it.
	// The swap does not start if this backup cannot be made.
	if hasCurrent && current.Kind == domain.AuthOAuth {
		if err := e.backupLive(ctx, current); err != nil {
			return nil, fmt.Errorf("preserving state of %s: %w", current.Label, err)
		}
	}

	// Step 3: read the target's stored state. A registry-listed account
	// with missing backend entries means the registry and the backend
	// have desynchronised.
	credBlob, err := e.creds.Load(ctx, target, driven.EntryCredential)
	if err != nil {
		if errors.Is(err, domain.ErrBackendMissing) {
			return nil, fmt.Errorf("credentials for account %d missing from backend: %w", target.ID, domain.ErrCorruptState)
		}
		return nil, err
	}

	// Step 4: make the target's state live. Rename is the only step
	// that exposes the new state.
	switch target.Kind {
	case domain.AuthOAuth:
		cfgBlob, err := e.configs.Load(ctx, target, driven.EntryConfig)
		if err != nil {
			if errors.Is(err, domain.ErrBackendMissing) {
				return nil, fmt.Errorf("config for account %d missing from backend: %w", target.ID, domain.ErrCorruptState)
			}
			return nil, err
		}
		if err := e.host.WriteCredentials(ctx, credBlob); err != nil {
			return nil, fmt.Errorf("writing live credentials: %w", err)
		}
		if err := e.host.WriteConfig(ctx, cfgBlob); err != nil {
			return nil, fmt.Errorf("writing live config: %w", err)
		}
	case domain.AuthToken:
		// Token accounts are activated through the token slot in step
		// 6; the live files stay as they are.
	}

	// Step 5: record the new active account. If this fails after step 4
	// the live files are already correct and rerunning the switch to
	// the same target reconciles.
	if err := e.registry.SetActive(ctx, target.ID); err != nil {
		return nil, fmt.Errorf("credentials switched but registry not updated (rerun switch to %d to reconcile): %w", target.ID, err)
	}

	result := &driving.SwitchResult{To: target}
	if hasCurrent {
		result.From = current.Label
	}

	// Step 6: token accounts forward through the active-token slot. A
	// failure here is reported but never rolls back the committed swap.
	if target.Kind == domain.AuthToken {
		token, err := extractToken(credBlob)
		if err != nil {
			result.TokenSyncErr = err
		} else if err := e.tokens.UpdateActiveToken(ctx, token); err != nil {
			logger.Warn("active-token slot update failed: %v", err)
			result.TokenSyncErr = err
		}
	}

	return result, nil
}

// SwitchNext rotates to the account after the active one.
func (e *SwapEngine) SwitchNext(ctx context.Context) (*driving.SwitchResult, error) {
	next, err := e.registry.RotateNext(ctx)
	if err != nil {
		return nil, err
	}
	return e.SwitchTo(ctx, strconv.Itoa(next.ID))
}

// Add captures the current live state as a new managed account and marks
// it active.
func (e *SwapEngine) Add(ctx context.Context, label string, kind domain.AuthKind, token string) (*driving.AddResult, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, errors.New("label must not be empty")
	}

	release, err := e.locker.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	reg, err := e.registry.Load(ctx)
	if err != nil {
		return nil, err
	}
	if _, exists := reg.FindByLabel(label); exists {
		return nil, fmt.Errorf("account %q: %w", label, domain.ErrDuplicateLabel)
	}

	// The same preservation as a switch: whatever account was live
	// before must not lose the state the new account displaces.
	current, hasCurrent := reg.Active()
	if hasCurrent && current.Kind == domain.AuthOAuth {
		if err := e.backupLive(ctx, current); err != nil {
			return nil, fmt.Errorf("preserving state of %s: %w", current.Label, err)
		}
	}

	acct := domain.Account{
		ID:    reg.NextID(),
		Label: label,
		Kind:  kind,
		Added: domain.NowUTC(),
	}

	var credBlob, cfgBlob []byte
	switch kind {
	case domain.AuthToken:
		if strings.TrimSpace(token) == "" {
			return nil, domain.ErrTokenNotSet
		}
		credBlob, err = json.Marshal(tokenBlob{Token: token})
		if err != nil {
			return nil, fmt.Errorf("encoding token snapshot: %w", err)
		}
		// Token users may have no live config at all.
		cfgBlob, err = e.host.ReadConfig(ctx)
		if err != nil {
			cfgBlob = []byte("{}")
		}
	default:
		acct.UUID = e.host.CurrentUUID()
		credBlob, err = e.host.ReadCredentials(ctx)
		if err != nil {
			return nil, fmt.Errorf("reading live credentials: %w", err)
		}
		cfgBlob, err = e.host.ReadConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("reading live config: %w", err)
		}
	}

	// Snapshots land before the registry row: a failed store leaves no
	// trace, while a row without backend entries would be corrupt state.
	if err := e.creds.Store(ctx, acct, driven.EntryCredential, credBlob); err != nil {
		return nil, fmt.Errorf("storing credential snapshot: %w", err)
	}
	if err := e.configs.Store(ctx, acct, driven.EntryConfig, cfgBlob); err != nil {
		return nil, fmt.Errorf("storing config snapshot: %w", err)
	}

	if err := e.registry.Append(ctx, acct); err != nil {
		return nil, err
	}
	if err := e.registry.SetActive(ctx, acct.ID); err != nil {
		return nil, err
	}

	result := &driving.AddResult{Account: acct, RcFilePath: e.tokens.RcPath()}

	if kind == domain.AuthToken {
		if err := e.tokens.UpdateActiveToken(ctx, token); err != nil {
			return nil, fmt.Errorf("writing active-token slot: %w", err)
		}
		created, err := e.tokens.EnsureRcFile()
		if err != nil {
			return nil, err
		}
		result.RcFileCreated = created
	}

	return result, nil
}

// Remove deletes an account's snapshots and registry row. The registry
// row is the authoritative record: backend deletes are best effort and
// only logged on failure.
func (e *SwapEngine) Remove(ctx context.Context, selector string) (domain.Account, error) {
	release, err := e.locker.Acquire(ctx)
	if err != nil {
		return domain.Account{}, err
	}
	defer release()

	reg, err := e.registry.Load(ctx)
	if err != nil {
		return domain.Account{}, err
	}
	acct, ok := reg.Resolve(selector)
	if !ok {
		return domain.Account{}, fmt.Errorf("no account matching %q: %w", selector, domain.ErrNotFound)
	}

	if err := e.creds.Delete(ctx, acct, driven.EntryCredential); err != nil && !errors.Is(err, domain.ErrBackendMissing) {
		logger.Warn("deleting credential snapshot for account %d: %v", acct.ID, err)
	}
	if err := e.configs.Delete(ctx, acct, driven.EntryConfig); err != nil && !errors.Is(err, domain.ErrBackendMissing) {
		logger.Warn("deleting config snapshot for account %d: %v", acct.ID, err)
	}

	if err := e.registry.Remove(ctx, acct.ID); err != nil {
		return domain.Account{}, err
	}
	return acct, nil
}

// backupLive snapshots the live credential and config files under the
// given account. Both stores must succeed before the switch proceeds.
func (e *SwapEngine) backupLive(ctx context.Context, acct domain.Account) error {
	credBlob, err := e.host.ReadCredentials(ctx)
	if err != nil {
		return fmt.Errorf("reading live credentials: %w", err)
	}
	cfgBlob, err := e.host.ReadConfig(ctx)
	if err != nil {
		return fmt.Errorf("reading live config: %w", err)
	}
	if err := e.creds.Store(ctx, acct, driven.EntryCredential, credBlob); err != nil {
		return err
	}
	return e.configs.Store(ctx, acct, driven.EntryConfig, cfgBlob)
}

// verifyStored checks that the account's backend entries exist.
func (e *SwapEngine) verifyStored(ctx context.Context, acct domain.Account) error {
	if _, err := e.creds.Load(ctx, acct, driven.EntryCredential); err != nil {
		if errors.Is(err, domain.ErrBackendMissing) {
			return fmt.Errorf("credentials for account %d missing from backend: %w", acct.ID, domain.ErrCorruptState)
		}
		return err
	}
	if acct.Kind != domain.AuthOAuth {
		return nil
	}
	if _, err := e.configs.Load(ctx, acct, driven.EntryConfig); err != nil {
		if errors.Is(err, domain.ErrBackendMissing) {
			return fmt.Errorf("config for account %d missing from backend: %w", acct.ID, domain.ErrCorruptState)
		}
		return err
	}
	return nil
}

// extractToken pulls the raw token out of a token account's credential
// snapshot.
func extractToken(blob []byte) (string, error) {
	var tb tokenBlob
	if err := json.Unmarshal(blob, &tb); err != nil {
		return "", fmt.Errorf("credential snapshot is not a token blob: %w", domain.ErrCorruptState)
	}
	if tb.Token == "" {
		return "", fmt.Errorf("credential snapshot has no token: %w", domain.ErrCorruptState)
	}
	return tb.Token, nil
}
