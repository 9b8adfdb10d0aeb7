package domain

import "time"

// AppSettings holds the optional tool configuration read from config.toml.
// Every field has a sensible default; the file may be entirely absent.
type AppSettings struct {
	// Lock controls the cross-process advisory lock.
	Lock LockSettings

	// Host overrides the host application's live file locations.
	Host HostSettings
}

// LockSettings controls advisory lock acquisition.
type LockSettings struct {
	// Timeout is how long a mutating operation waits for the lock
	// before failing busy.
	Timeout time.Duration
}

// HostSettings overrides the live Claude Code file locations.
// Empty values mean the platform defaults.
type HostSettings struct {
	// ConfigPath overrides the live config file location.
	ConfigPath string

	// CredentialsPath overrides the live credentials file location
	// (file-backed platforms only).
	CredentialsPath string
}

// DefaultAppSettings returns the settings used when config.toml is
// absent or a key is unset.
func DefaultAppSettings() *AppSettings {
	return &AppSettings{
		Lock: LockSettings{
			Timeout: 2 * time.Second,
		},
	}
}
