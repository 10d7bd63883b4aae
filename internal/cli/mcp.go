package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/kandy/internal/adapters/mcp"
	"github.com/example/kandy/internal/wire"
)

// McpCmd returns the mcp command
func McpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the MCP tools over stdio",
		Long:  "Expose task and issue tools to an MCP client, acting as the account named by --as.",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, session, err := sessionContext(cmd)
			if err != nil {
				return err
			}
			s := mcp.NewServer(mcp.Services{
				Tasks:     wire.TaskService(),
				Issues:    wire.IssueService(),
				Dashboard: wire.DashboardService(),
			}, session)
			return mcp.Serve(s)
		},
	}
	addAsFlag(cmd)
	return cmd
}
