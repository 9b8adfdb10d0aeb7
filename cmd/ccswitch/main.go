// Command ccswitch switches Claude Code between managed accounts.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/ccswitch/internal/adapters/driven/file"
	"github.com/custodia-labs/ccswitch/internal/adapters/driven/host"
	"github.com/custodia-labs/ccswitch/internal/adapters/driven/keychain"
	"github.com/custodia-labs/ccswitch/internal/adapters/driven/lock"
	"github.com/custodia-labs/ccswitch/internal/adapters/driving/cli"
	"github.com/custodia-labs/ccswitch/internal/core/ports/driven"
	"github.com/custodia-labs/ccswitch/internal/core/ports/driving"
	"github.com/custodia-labs/ccswitch/internal/core/services"
	"github.com/custodia-labs/ccswitch/internal/platform"

	configfile "github.com/custodia-labs/ccswitch/internal/adapters/driven/config/file"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetBootstrapper(buildServices)

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildServices wires the full service graph for the detected platform.
// stateDir comes from --state-dir; empty means ~/.ccswitch.
func buildServices(stateDir string) (driving.AccountService, driving.SwapService, cli.HostInfo, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("resolving home directory: %w", err)
	}
	if stateDir == "" {
		stateDir = filepath.Join(home, ".ccswitch")
	}

	configStore, err := configfile.NewConfigStore(stateDir)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening config store: %w", err)
	}
	settings := services.NewSettingsService(configStore).Get()

	plat := platform.Detect()

	var creds driven.CredentialBackend
	var slot driven.TokenSlot
	var lookup string
	if plat.UsesSecureStore() {
		kc := keychain.NewBackend()
		creds = kc
		slot = kc
		lookup = kc.LookupCommand()
	} else {
		creds = file.NewBackend(filepath.Join(stateDir, "credentials"))
		fs := file.NewTokenSlot(filepath.Join(stateDir, "active-token"))
		slot = fs
		lookup = fs.LookupCommand()
	}
	configs := file.NewBackend(filepath.Join(stateDir, "configs"))

	hostState, err := host.New(settings.Host, plat)
	if err != nil {
		return nil, nil, nil, err
	}

	registry := services.NewRegistryService(file.NewRegistryStore(filepath.Join(stateDir, "sequence.json")))
	tokens := services.NewTokenSync(slot, filepath.Join(home, ".ccswitchrc"), lookup)
	locker := lock.NewLocker(stateDir, settings.Lock)

	engine := services.NewSwapEngine(registry, creds, configs, hostState, tokens, locker)

	return registry, engine, hostState, nil
}
