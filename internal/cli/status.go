package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/kandy/internal/wire"
)

// StatusCmd returns the status command
func StatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the dashboard for an account",
		Long: `Display the role-scoped dashboard for the account named by --as:
- Electricians see their day, month and rating
- Managers see task, electrician and issue counts
- Admins see account and activity counts`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, _, err := sessionContext(cmd)
			if err != nil {
				return err
			}
			stats, err := wire.DashboardService().GetStats(ctx)
			if err != nil {
				return fmt.Errorf("failed to load dashboard: %w", err)
			}
			printStats(os.Stdout, stats)

			limit, _ := cmd.Flags().GetInt("activity")
			if limit <= 0 {
				return nil
			}
			activities, err := wire.DashboardService().ListActivity(ctx, limit)
			if err != nil {
				// Only admins and managers may read the log.
				return nil //nolint:nilerr
			}
			fmt.Println()
			color.New(color.FgHiMagenta).Println("Recent activity")
			for _, a := range activities {
				line := fmt.Sprintf("  %s %s %s %s", a.CreatedAt.In(wire.Config().Location()).Format("15:04"), a.ActorID, a.Action, a.EntityID)
				if a.FieldName != "" {
					line += fmt.Sprintf(" %s: %s -> %s", a.FieldName, a.OldValue, a.NewValue)
				}
				fmt.Println(line)
			}
			return nil
		},
	}
	addAsFlag(cmd)
	cmd.Flags().Int("activity", 0, "Also show the N most recent activity log entries")
	return cmd
}
