package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/ccswitch/internal/adapters/driving/tui"
)

// runInteractive launches the account picker when ccswitch is invoked
// with no subcommand.
func runInteractive(_ *cobra.Command, _ []string) error {
	if accountService == nil || swapService == nil {
		return errors.New("services not configured")
	}

	// Panic recovery to get stack traces out of the alt screen.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	app, err := tui.NewApp(tui.NewPorts(accountService, swapService))
	if err != nil {
		return err
	}

	final, err := tea.NewProgram(app).Run()
	if err != nil {
		return fmt.Errorf("running picker: %w", err)
	}
	if a, ok := final.(*tui.App); ok && a.Err() != nil {
		return a.Err()
	}
	return nil
}
