package main

import (
	"fmt"
	"os"
	_ "time/tzdata"

	"github.com/spf13/cobra"

	"github.com/example/kandy/internal/cli"
	"github.com/example/kandy/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "kandy",
		Short:   "Kandy Electricians task backend",
		Version: version.String(),
		Long: `kandy runs the Kandy Electricians API and the operator tools around it.
Managers schedule and assign jobs, electricians work them and report issues.`,
		PersistentPreRunE:  cli.Setup,
		PersistentPostRunE: cli.Teardown,
		SilenceUsage:       true,
	}
	rootCmd.PersistentFlags().String("config", "", "Path to kandy.yaml (or KANDY_CONFIG)")

	// Server
	rootCmd.AddCommand(cli.ServeCmd())
	rootCmd.AddCommand(cli.McpCmd())

	// Operator tools
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.UserCmd())
	rootCmd.AddCommand(cli.TaskCmd())
	rootCmd.AddCommand(cli.StatusCmd())
	rootCmd.AddCommand(cli.TokenCmd())
	rootCmd.AddCommand(cli.RemoteCmd())
	rootCmd.AddCommand(cli.VersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
