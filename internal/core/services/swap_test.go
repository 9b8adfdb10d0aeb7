package services

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ccswitch/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ccswitch/internal/core/domain"
	"github.com/custodia-labs/ccswitch/internal/core/ports/driven"
)

// failingBackend injects a Store error over a working backend.
type failingBackend struct {
	driven.CredentialBackend
	storeErr error
}

func (f *failingBackend) Store(ctx context.Context, acct domain.Account, kind driven.EntryKind, blob []byte) error {
	if f.storeErr != nil {
		return f.storeErr
	}
	return f.CredentialBackend.Store(ctx, acct, kind, blob)
}

// failingRegistryStore injects a Save error over a working store.
type failingRegistryStore struct {
	driven.RegistryStore
	saveErr error
}

func (f *failingRegistryStore) Save(ctx context.Context, reg *domain.Registry) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	return f.RegistryStore.Save(ctx, reg)
}

type engineFixture struct {
	engine  *SwapEngine
	store   *memory.RegistryStore
	creds   *memory.Backend
	configs *memory.Backend
	slot    *memory.Backend
	host    *memory.HostState
	locker  *memory.Locker
	tokens  *TokenSync
}

func newFixture(t *testing.T) *engineFixture {
	t.Helper()
	f := &engineFixture{
		store:   memory.NewRegistryStore(),
		creds:   memory.NewBackend(),
		configs: memory.NewBackend(),
		slot:    memory.NewBackend(),
		host:    memory.NewHostState(),
		locker:  memory.NewLocker(),
	}
	f.tokens = NewTokenSync(f.slot, filepath.Join(t.TempDir(), ".ccswitchrc"), "cat slot")
	f.engine = NewSwapEngine(
		NewRegistryService(f.store),
		f.creds, f.configs, f.host, f.tokens, f.locker,
	)
	return f
}

// seed installs accounts with stored snapshots and an active marker.
// OAuth accounts get both entry kinds, token accounts a token blob plus
// a config snapshot.
func (f *engineFixture) seed(t *testing.T, activeID int, accounts ...domain.Account) {
	t.Helper()
	ctx := context.Background()
	for _, acct := range accounts {
		if acct.Kind == domain.AuthToken {
			blob, err := json.Marshal(tokenBlob{Token: "tok-" + acct.Label})
			require.NoError(t, err)
			require.NoError(t, f.creds.Store(ctx, acct, driven.EntryCredential, blob))
			require.NoError(t, f.configs.Store(ctx, acct, driven.EntryConfig, []byte("{}")))
		} else {
			require.NoError(t, f.creds.Store(ctx, acct, driven.EntryCredential, []byte("cred-"+acct.Label)))
			require.NoError(t, f.configs.Store(ctx, acct, driven.EntryConfig, []byte("conf-"+acct.Label)))
		}
	}
	require.NoError(t, f.store.Save(ctx, &domain.Registry{Accounts: accounts, ActiveID: activeID}))
}

func oauthPair() (domain.Account, domain.Account) {
	return domain.Account{ID: 1, Label: "work", Kind: domain.AuthOAuth},
		domain.Account{ID: 2, Label: "personal", Kind: domain.AuthOAuth}
}

func TestSwitchToExchangesLiveState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	work, personal := oauthPair()
	f.seed(t, work.ID, work, personal)

	// Live state has drifted since "work" was stored; the switch must
	// capture the drifted bytes, not the stale snapshot.
	f.host.Credentials = []byte("cred-work-refreshed")
	f.host.Config = []byte("conf-work-refreshed")

	res, err := f.engine.SwitchTo(ctx, "personal")
	require.NoError(t, err)
	assert.False(t, res.NoOp)
	assert.Equal(t, "work", res.From)
	assert.Equal(t, personal.ID, res.To.ID)
	assert.NoError(t, res.TokenSyncErr)

	// The target's stored bytes are now live, unmodified.
	assert.Equal(t, []byte("cred-personal"), f.host.Credentials)
	assert.Equal(t, []byte("conf-personal"), f.host.Config)

	// The previous account's snapshot tracks the refreshed live state.
	stored, err := f.creds.Load(ctx, work, driven.EntryCredential)
	require.NoError(t, err)
	assert.Equal(t, []byte("cred-work-refreshed"), stored)

	reg, err := f.store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, personal.ID, reg.ActiveID)
}

func TestSwitchRoundTripRestoresExactBytes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	work, personal := oauthPair()
	f.seed(t, work.ID, work, personal)

	f.host.Credentials = []byte("cred-work-v2")
	f.host.Config = []byte("conf-work-v2")

	_, err := f.engine.SwitchTo(ctx, "personal")
	require.NoError(t, err)

	// Claude Code refreshes nothing in between; switching back must
	// restore the exact bytes that were live before.
	_, err = f.engine.SwitchTo(ctx, "work")
	require.NoError(t, err)

	assert.Equal(t, []byte("cred-work-v2"), f.host.Credentials)
	assert.Equal(t, []byte("conf-work-v2"), f.host.Config)
}

func TestSwitchToSameAccountIsVerifiedNoOp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	work, personal := oauthPair()
	f.seed(t, work.ID, work, personal)
	f.host.Credentials = []byte("live")

	res, err := f.engine.SwitchTo(ctx, "work")
	require.NoError(t, err)
	assert.True(t, res.NoOp)
	assert.Equal(t, work.ID, res.To.ID)

	// Nothing moved.
	assert.Equal(t, []byte("live"), f.host.Credentials)
}

func TestSwitchToSameAccountDetectsMissingSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	work, personal := oauthPair()
	f.seed(t, work.ID, work, personal)
	require.NoError(t, f.creds.Delete(ctx, work, driven.EntryCredential))

	_, err := f.engine.SwitchTo(ctx, "work")
	assert.ErrorIs(t, err, domain.ErrCorruptState)
}

func TestSwitchToUnknownSelector(t *testing.T) {
	f := newFixture(t)
	work, personal := oauthPair()
	f.seed(t, work.ID, work, personal)

	_, err := f.engine.SwitchTo(context.Background(), "nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSwitchToMissingTargetSnapshotIsCorruptState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	work, personal := oauthPair()
	f.seed(t, work.ID, work, personal)
	require.NoError(t, f.creds.Delete(ctx, personal, driven.EntryCredential))

	_, err := f.engine.SwitchTo(ctx, "personal")
	assert.ErrorIs(t, err, domain.ErrCorruptState)
}

func TestSwitchToBackupFailureAbortsBeforeLiveWrites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	work, personal := oauthPair()
	f.seed(t, work.ID, work, personal)
	f.host.Credentials = []byte("live-before")
	f.host.Config = []byte("conf-before")

	// Backup of the outgoing account fails at the store.
	f.engine.creds = &failingBackend{CredentialBackend: f.creds, storeErr: domain.ErrBackendWrite}

	_, err := f.engine.SwitchTo(ctx, "personal")
	require.ErrorIs(t, err, domain.ErrBackendWrite)

	// The live state and the active marker are untouched.
	assert.Equal(t, []byte("live-before"), f.host.Credentials)
	assert.Equal(t, []byte("conf-before"), f.host.Config)
	reg, err := f.store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, work.ID, reg.ActiveID)
}

func TestSwitchToMarkerFailureAfterLiveWriteReconcilesOnRerun(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	work, personal := oauthPair()
	f.seed(t, work.ID, work, personal)
	f.host.Credentials = []byte("cred-work-live")
	f.host.Config = []byte("conf-work-live")

	// The live writes land, then persisting the active marker fails.
	failStore := &failingRegistryStore{RegistryStore: f.store, saveErr: errors.New("disk full")}
	f.engine.registry = NewRegistryService(failStore)

	_, err := f.engine.SwitchTo(ctx, "personal")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rerun switch")

	// Live files already hold the target's bytes; the marker still
	// names the old account.
	assert.Equal(t, []byte("cred-personal"), f.host.Credentials)
	assert.Equal(t, []byte("conf-personal"), f.host.Config)
	reg, err := f.store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, work.ID, reg.ActiveID)

	// Rerunning the same switch brings the marker in line.
	failStore.saveErr = nil
	res, err := f.engine.SwitchTo(ctx, "personal")
	require.NoError(t, err)
	assert.Equal(t, personal.ID, res.To.ID)

	reg, err = f.store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, personal.ID, reg.ActiveID)
	assert.Equal(t, []byte("cred-personal"), f.host.Credentials)
}

func TestSwitchToTokenAccountLeavesLiveFilesAlone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	work := domain.Account{ID: 1, Label: "work", Kind: domain.AuthOAuth}
	ci := domain.Account{ID: 2, Label: "ci", Kind: domain.AuthToken}
	f.seed(t, work.ID, work, ci)
	f.host.Credentials = []byte("work-live")
	f.host.Config = []byte("work-conf")

	res, err := f.engine.SwitchTo(ctx, "ci")
	require.NoError(t, err)
	assert.NoError(t, res.TokenSyncErr)

	// Live files still hold the previous OAuth state; only the token
	// slot and the registry moved.
	assert.Equal(t, []byte("work-live"), f.host.Credentials)
	assert.Equal(t, []byte("work-conf"), f.host.Config)

	tok, err := f.slot.ReadToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-ci", tok)

	reg, err := f.store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, ci.ID, reg.ActiveID)
}

func TestSwitchAwayFromTokenAccountSkipsBackup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ci := domain.Account{ID: 1, Label: "ci", Kind: domain.AuthToken}
	work := domain.Account{ID: 2, Label: "work", Kind: domain.AuthOAuth}
	f.seed(t, ci.ID, ci, work)
	f.host.Credentials = []byte("stale-oauth-live")

	_, err := f.engine.SwitchTo(ctx, "work")
	require.NoError(t, err)

	// The token account's stored blob must survive the switch; live
	// files never represent a token account.
	blob, err := f.creds.Load(ctx, ci, driven.EntryCredential)
	require.NoError(t, err)
	var tb tokenBlob
	require.NoError(t, json.Unmarshal(blob, &tb))
	assert.Equal(t, "tok-ci", tb.Token)
}

func TestSwitchToCorruptTokenSnapshotReportsSyncError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	work := domain.Account{ID: 1, Label: "work", Kind: domain.AuthOAuth}
	ci := domain.Account{ID: 2, Label: "ci", Kind: domain.AuthToken}
	f.seed(t, work.ID, work, ci)
	require.NoError(t, f.creds.Store(ctx, ci, driven.EntryCredential, []byte("not a token blob")))

	res, err := f.engine.SwitchTo(ctx, "ci")
	require.NoError(t, err)

	// The switch itself committed; only the forwarding step failed.
	assert.ErrorIs(t, res.TokenSyncErr, domain.ErrCorruptState)
	reg, err := f.store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, ci.ID, reg.ActiveID)
}

func TestSwitchToWhenLockHeld(t *testing.T) {
	f := newFixture(t)
	work, personal := oauthPair()
	f.seed(t, work.ID, work, personal)

	release, err := f.locker.Acquire(context.Background())
	require.NoError(t, err)
	defer release()

	_, err = f.engine.SwitchTo(context.Background(), "personal")
	assert.ErrorIs(t, err, domain.ErrBusy)
}

func TestSwitchNextRotates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	work, personal := oauthPair()
	f.seed(t, personal.ID, work, personal)

	res, err := f.engine.SwitchNext(ctx)
	require.NoError(t, err)
	assert.Equal(t, work.ID, res.To.ID)

	// A second rotation wraps back.
	res, err = f.engine.SwitchNext(ctx)
	require.NoError(t, err)
	assert.Equal(t, personal.ID, res.To.ID)
}

func TestSwitchNextEmptyRegistry(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.SwitchNext(context.Background())
	assert.ErrorIs(t, err, domain.ErrEmptyRegistry)
}

func TestAddCapturesLiveState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.host.Credentials = []byte("live-cred")
	f.host.Config = []byte("live-conf")
	f.host.UUID = "uuid-1"

	res, err := f.engine.Add(ctx, "work", domain.AuthOAuth, "")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Account.ID)
	assert.Equal(t, "uuid-1", res.Account.UUID)
	assert.False(t, res.RcFileCreated)

	stored, err := f.creds.Load(ctx, res.Account, driven.EntryCredential)
	require.NoError(t, err)
	assert.Equal(t, []byte("live-cred"), stored)

	reg, err := f.store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, reg.Accounts, 1)
	assert.Equal(t, res.Account.ID, reg.ActiveID)
}

func TestAddPreservesPreviousOAuthAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	work := domain.Account{ID: 1, Label: "work", Kind: domain.AuthOAuth}
	f.seed(t, work.ID, work)
	f.host.Credentials = []byte("work-refreshed")
	f.host.Config = []byte("work-conf")

	res, err := f.engine.Add(ctx, "personal", domain.AuthOAuth, "")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Account.ID)

	stored, err := f.creds.Load(ctx, work, driven.EntryCredential)
	require.NoError(t, err)
	assert.Equal(t, []byte("work-refreshed"), stored)
}

func TestAddDuplicateLabel(t *testing.T) {
	f := newFixture(t)
	work := domain.Account{ID: 1, Label: "work", Kind: domain.AuthOAuth}
	f.seed(t, work.ID, work)
	f.host.Credentials = []byte("live")
	f.host.Config = []byte("{}")

	_, err := f.engine.Add(context.Background(), "work", domain.AuthOAuth, "")
	assert.ErrorIs(t, err, domain.ErrDuplicateLabel)
}

func TestAddTokenAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.host.ConfigErr = domain.ErrBackendMissing

	res, err := f.engine.Add(ctx, "ci", domain.AuthToken, "sk-ant-ci")
	require.NoError(t, err)
	assert.True(t, res.RcFileCreated)
	assert.Equal(t, f.tokens.RcPath(), res.RcFilePath)

	// The credential snapshot is a token blob, not live bytes.
	blob, err := f.creds.Load(ctx, res.Account, driven.EntryCredential)
	require.NoError(t, err)
	var tb tokenBlob
	require.NoError(t, json.Unmarshal(blob, &tb))
	assert.Equal(t, "sk-ant-ci", tb.Token)

	// Absent live config falls back to an empty document.
	conf, err := f.configs.Load(ctx, res.Account, driven.EntryConfig)
	require.NoError(t, err)
	assert.Equal(t, []byte("{}"), conf)

	tok, err := f.slot.ReadToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sk-ant-ci", tok)
}

func TestAddRejectsEmptyLabel(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.Add(context.Background(), "   ", domain.AuthOAuth, "")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "label")
}

func TestAddTokenAccountRequiresToken(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.Add(context.Background(), "ci", domain.AuthToken, "  ")
	assert.ErrorIs(t, err, domain.ErrTokenNotSet)
}

func TestAddStoreFailureLeavesNoRegistryRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.host.Credentials = []byte("live")
	f.host.Config = []byte("{}")
	f.engine.creds = &failingBackend{CredentialBackend: f.creds, storeErr: errors.New("disk full")}

	_, err := f.engine.Add(ctx, "work", domain.AuthOAuth, "")
	require.Error(t, err)

	reg, err := f.store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, reg.Accounts)
}

func TestRemoveDeletesSnapshotsAndRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	work, personal := oauthPair()
	f.seed(t, work.ID, work, personal)

	removed, err := f.engine.Remove(ctx, "personal")
	require.NoError(t, err)
	assert.Equal(t, personal.ID, removed.ID)

	_, err = f.creds.Load(ctx, personal, driven.EntryCredential)
	assert.ErrorIs(t, err, domain.ErrBackendMissing)

	reg, err := f.store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, reg.Accounts, 1)
	assert.Equal(t, work.ID, reg.ActiveID)
}

func TestRemoveActiveClearsMarker(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	work, personal := oauthPair()
	f.seed(t, work.ID, work, personal)

	_, err := f.engine.Remove(ctx, "work")
	require.NoError(t, err)

	reg, err := f.store.Load(ctx)
	require.NoError(t, err)
	assert.Zero(t, reg.ActiveID)
}

func TestRemoveSurvivesMissingSnapshots(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	work, personal := oauthPair()
	f.seed(t, work.ID, work, personal)
	require.NoError(t, f.creds.Delete(ctx, personal, driven.EntryCredential))

	// The registry row is authoritative; the missing snapshot is not an
	// error.
	_, err := f.engine.Remove(ctx, "personal")
	require.NoError(t, err)
}

func TestRemoveEmptyRegistry(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.Remove(context.Background(), "1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
