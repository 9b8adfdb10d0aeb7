// Package cli implements the command-line surface. Each command lives
// in its own file and registers itself with the root command in init().
// Services are injected as package globals before Execute runs.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/ccswitch/internal/core/ports/driving"
	"github.com/custodia-labs/ccswitch/internal/logger"
)

// version is stamped at build time via -ldflags.
var version = "dev"

var (
	verbose  bool
	stateDir string
)

// Injected services. Nil until SetServices or the bootstrapper runs;
// commands fail with a clear error rather than panic.
var (
	accountService driving.AccountService
	swapService    driving.SwapService
	hostInfo       HostInfo
)

// HostInfo is the small read-only slice of live host state the CLI
// needs for status display and add-mode routing.
type HostInfo interface {
	// CurrentEmail returns the logged-in OAuth account email, or "".
	CurrentEmail() string

	// HasEnvToken reports whether the token environment variable is
	// set for this invocation.
	HasEnvToken() bool
}

// Bootstrapper builds the service graph once global flags are parsed,
// so --state-dir can take effect before any service touches disk.
type Bootstrapper func(stateDir string) (driving.AccountService, driving.SwapService, HostInfo, error)

var bootstrap Bootstrapper

var rootCmd = &cobra.Command{
	Use:   "ccswitch",
	Short: "Switch between Claude Code accounts",
	Long: `ccswitch manages multiple Claude Code accounts and swaps the live
credential and config state between them.

Run with no arguments to pick an account interactively.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		if bootstrap != nil && accountService == nil {
			accounts, swap, host, err := bootstrap(stateDir)
			if err != nil {
				return err
			}
			accountService, swapService, hostInfo = accounts, swap, host
		}
		return nil
	},
	RunE: runInteractive,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&stateDir, "state-dir", "", "override the state directory (default ~/.ccswitch)")
}

// SetVersion sets the version string printed by the version command.
func SetVersion(v string) {
	version = v
}

// SetBootstrapper registers the service graph builder.
func SetBootstrapper(b Bootstrapper) {
	bootstrap = b
}

// SetServices injects pre-built services, bypassing the bootstrapper.
func SetServices(accounts driving.AccountService, swap driving.SwapService, host HostInfo) {
	accountService, swapService, hostInfo = accounts, swap, host
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
