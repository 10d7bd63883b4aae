package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/kandy/internal/wire"
)

// TokenCmd returns the token command
func TokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for an account",
		Long:  "Issue a bearer token for the account named by --as without a password. Requires direct database access.",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("as")
			if email == "" {
				return fmt.Errorf("--as is required")
			}
			resp, err := wire.AuthService().IssueToken(cmd.Context(), email)
			if err != nil {
				return fmt.Errorf("failed to issue token: %w", err)
			}
			fmt.Println(resp.Token)
			return nil
		},
	}
	addAsFlag(cmd)
	return cmd
}
