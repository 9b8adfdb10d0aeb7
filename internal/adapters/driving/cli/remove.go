package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ccswitch/internal/core/domain"
)

var removeYes bool

var removeCmd = &cobra.Command{
	Use:   "remove <selector>",
	Short: "Remove a managed account",
	Long: `Removes an account's stored snapshots and registry entry.
Removing the active account leaves no account active.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	removeCmd.Flags().BoolVarP(&removeYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	if swapService == nil || accountService == nil {
		return errors.New("swap service not configured")
	}

	ctx := context.Background()
	selector := args[0]

	acct, err := accountService.Resolve(ctx, selector)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no account matching %q", selector)
		}
		return err
	}

	if !removeYes {
		cmd.Printf("Remove [%d] %s and its stored snapshots? [y/N] ", acct.ID, acct.Label)
		reader := bufio.NewReader(cmd.InOrStdin())
		answer, _ := reader.ReadString('\n')
		if !strings.EqualFold(strings.TrimSpace(answer), "y") {
			cmd.Println("Aborted.")
			return nil
		}
	}

	removed, err := swapService.Remove(ctx, selector)
	if err != nil {
		return fmt.Errorf("remove failed: %w", err)
	}

	cmd.Printf("Removed [%d] %s.\n", removed.ID, removed.Label)
	return nil
}
