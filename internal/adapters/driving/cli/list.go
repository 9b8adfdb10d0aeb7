package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ccswitch/internal/core/domain"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List managed accounts",
	Long: `Lists all managed accounts in rotation order.
The active account is marked with an asterisk.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output accounts as JSON")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	if accountService == nil {
		return errors.New("account service not configured")
	}

	ctx := context.Background()
	accounts, err := accountService.List(ctx)
	if err != nil {
		return fmt.Errorf("listing accounts: %w", err)
	}

	active, err := accountService.Active(ctx)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	if listJSON {
		return outputListJSON(cmd, accounts, active.ID)
	}

	if len(accounts) == 0 {
		cmd.Println("No accounts managed yet. Run 'ccswitch add' to start.")
		return nil
	}

	for _, acct := range accounts {
		marker := " "
		if acct.ID == active.ID {
			marker = "*"
		}
		cmd.Printf("%s [%d] %s (%s)\n", marker, acct.ID, acct.Label, acct.Kind)
	}
	return nil
}

func outputListJSON(cmd *cobra.Command, accounts []domain.Account, activeID int) error {
	doc := struct {
		Accounts []domain.Account `json:"accounts"`
		ActiveID int              `json:"active_id,omitempty"`
	}{Accounts: accounts, ActiveID: activeID}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal accounts: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
