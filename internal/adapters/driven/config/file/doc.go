// Package file provides the file-based implementation of the
// driven.ConfigStore port: TOML configuration storage under the
// ccswitch state directory.
package file
