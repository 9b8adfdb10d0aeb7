package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ccswitch/internal/core/domain"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the active account",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if accountService == nil {
		return errors.New("account service not configured")
	}

	active, err := accountService.Active(context.Background())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			if hostInfo != nil && hostInfo.HasEnvToken() {
				cmd.Printf("No active managed account, but %s is set.\n", domain.TokenEnvVar)
				cmd.Println("Run 'ccswitch add' to manage this token.")
				return nil
			}
			cmd.Println("No active account.")
			return nil
		}
		return fmt.Errorf("reading active account: %w", err)
	}

	cmd.Printf("Active: [%d] %s (%s)\n", active.ID, active.Label, active.Kind)
	if hostInfo != nil {
		if email := hostInfo.CurrentEmail(); email != "" && email != active.Label {
			cmd.Printf("Logged in as: %s\n", email)
		}
		if active.Kind == domain.AuthOAuth && hostInfo.HasEnvToken() {
			cmd.Printf("Warning: %s is set and overrides the active OAuth credentials.\n", domain.TokenEnvVar)
		}
	}
	return nil
}
