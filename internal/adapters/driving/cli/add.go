package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/ccswitch/internal/core/domain"
	"github.com/custodia-labs/ccswitch/internal/core/services"
)

var addToken bool

var addCmd = &cobra.Command{
	Use:   "add [label]",
	Short: "Capture the current login as a managed account",
	Long: `Snapshots the current Claude Code login as a new managed account
and marks it active.

OAuth logins are captured from the live credential and config state;
the label defaults to the logged-in email. Token mode is chosen when
the token environment variable is set or no OAuth login is present,
and captures the token value instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().BoolVar(&addToken, "token", false, "add a long-lived token account")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	if swapService == nil {
		return errors.New("swap service not configured")
	}

	kind := domain.AuthOAuth
	if addToken || shouldRouteToToken() {
		kind = domain.AuthToken
	}

	var label string
	if len(args) > 0 {
		label = strings.TrimSpace(args[0])
	}
	if label == "" && kind == domain.AuthOAuth && hostInfo != nil {
		label = hostInfo.CurrentEmail()
	}
	if label == "" {
		return errors.New("no label given and none could be derived, run 'ccswitch add <label>'")
	}

	var token string
	if kind == domain.AuthToken {
		var err error
		token, err = resolveToken(cmd)
		if err != nil {
			return err
		}
	}

	res, err := swapService.Add(context.Background(), label, kind, token)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateLabel) {
			return fmt.Errorf("account %q already exists", label)
		}
		return fmt.Errorf("add failed: %w", err)
	}

	cmd.Printf("Added [%d] %s (%s), now active.\n", res.Account.ID, res.Account.Label, res.Account.Kind)
	if res.RcFileCreated {
		cmd.Printf("Created %s. Source it from your shell rc file:\n", res.RcFilePath)
		cmd.Printf("  echo 'source %s' >> ~/.zshrc\n", res.RcFilePath)
	}
	return nil
}

// shouldRouteToToken decides the account kind when --token is not
// given: a set token env var, or no OAuth login to capture, means the
// user is in token mode.
func shouldRouteToToken() bool {
	if hostInfo == nil {
		return false
	}
	return hostInfo.HasEnvToken() || hostInfo.CurrentEmail() == ""
}

// resolveToken takes the token from the environment or, on a TTY, a
// masked prompt. The value never appears in shell history or process
// listings.
func resolveToken(cmd *cobra.Command) (string, error) {
	if value, err := services.CaptureTokenFromEnvironment(); err == nil {
		return value, nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("%s is empty and stdin is not a terminal: %w", domain.TokenEnvVar, domain.ErrTokenNotSet)
	}

	cmd.Print("Token: ")
	raw, err := term.ReadPassword(fd)
	cmd.Println()
	if err != nil {
		return "", fmt.Errorf("reading token: %w", err)
	}
	value := strings.TrimSpace(string(raw))
	if value == "" {
		return "", domain.ErrTokenNotSet
	}
	return value, nil
}
