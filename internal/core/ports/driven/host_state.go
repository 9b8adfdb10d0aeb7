package driven

import "context"

// HostState reads and writes Claude Code's live credential and config
// state. On macOS the live credentials are a keychain entry owned by
// Claude Code itself; on Linux and WSL they are a file. The live config
// is a file on every platform.
type HostState interface {
	// ReadCredentials returns the live credential blob.
	ReadCredentials(ctx context.Context) ([]byte, error)

	// WriteCredentials replaces the live credential blob. File-backed
	// writes go through temp-file-then-rename.
	WriteCredentials(ctx context.Context, blob []byte) error

	// ReadConfig returns the live config document.
	ReadConfig(ctx context.Context) ([]byte, error)

	// WriteConfig replaces the live config document atomically.
	WriteConfig(ctx context.Context, blob []byte) error

	// CurrentEmail returns the email of the logged-in OAuth account,
	// or "" when the live config has none.
	CurrentEmail() string

	// CurrentUUID returns the account UUID from the live config, or "".
	CurrentUUID() string

	// HasEnvToken reports whether the token environment variable is set
	// for this invocation. The env var overrides file credentials, so a
	// set variable means the user is effectively in token mode.
	HasEnvToken() bool
}
