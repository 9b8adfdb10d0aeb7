// Package platform detects the runtime environment. The result picks
// the credential backend variant once at process start; nothing else
// branches on the platform.
package platform

import (
	"os"
	"runtime"
)

// Platform identifies the runtime environment.
type Platform string

// Recognised platforms.
const (
	// MacOS uses the system keychain for credential snapshots.
	MacOS Platform = "macos"

	// Linux uses 0600 files for credential snapshots.
	Linux Platform = "linux"

	// WSL behaves like Linux; the Windows keychain is not reachable.
	WSL Platform = "wsl"
)

// String returns a human-readable name.
func (p Platform) String() string {
	switch p {
	case MacOS:
		return "macOS"
	case WSL:
		return "WSL"
	default:
		return "Linux"
	}
}

// UsesSecureStore reports whether credential snapshots live in the OS
// keychain on this platform.
func (p Platform) UsesSecureStore() bool {
	return p == MacOS
}

// Detect returns the current platform. Unknown systems are treated as
// Linux (file backend).
func Detect() Platform {
	switch runtime.GOOS {
	case "darwin":
		return MacOS
	case "linux":
		if os.Getenv("WSL_DISTRO_NAME") != "" || os.Getenv("WSL_INTEROP") != "" {
			return WSL
		}
		return Linux
	default:
		return Linux
	}
}
