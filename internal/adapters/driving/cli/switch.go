package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ccswitch/internal/core/domain"
	"github.com/custodia-labs/ccswitch/internal/core/ports/driving"
)

var switchCmd = &cobra.Command{
	Use:   "switch [selector]",
	Short: "Switch to another account",
	Long: `Switches the live Claude Code state to the given account.
The selector is a numeric ID or an exact label. With no selector the
next account in rotation order becomes active.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSwitch,
}

func init() {
	rootCmd.AddCommand(switchCmd)
}

func runSwitch(cmd *cobra.Command, args []string) error {
	if swapService == nil {
		return errors.New("swap service not configured")
	}

	ctx := context.Background()

	var res *driving.SwitchResult
	var err error
	if len(args) == 0 {
		res, err = swapService.SwitchNext(ctx)
	} else {
		res, err = swapService.SwitchTo(ctx, args[0])
	}
	if err != nil {
		if errors.Is(err, domain.ErrEmptyRegistry) {
			return fmt.Errorf("no accounts managed yet, run 'ccswitch add' first")
		}
		return fmt.Errorf("switch failed: %w", err)
	}

	printSwitchResult(cmd, res)
	return nil
}

func printSwitchResult(cmd *cobra.Command, res *driving.SwitchResult) {
	if res.NoOp {
		cmd.Printf("Already on [%d] %s.\n", res.To.ID, res.To.Label)
		return
	}

	if res.From != "" {
		cmd.Printf("Switched from %s to [%d] %s.\n", res.From, res.To.ID, res.To.Label)
	} else {
		cmd.Printf("Switched to [%d] %s.\n", res.To.ID, res.To.Label)
	}

	if res.To.Kind == domain.AuthToken {
		if res.TokenSyncErr != nil {
			cmd.Printf("Warning: account is active but the token slot was not updated: %v\n", res.TokenSyncErr)
			cmd.Println("Re-run the switch to retry.")
		} else {
			cmd.Println("Open a new shell (or source your rc file) to pick up the token.")
		}
	}
}
