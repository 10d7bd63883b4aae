package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/kandy/internal/client"
	"github.com/example/kandy/internal/ports/primary"
)

var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Query a running kandy API",
	Long:  "Talk to a kandy server over HTTP with a bearer token from --token or KANDY_TOKEN.",
}

func remoteClient(cmd *cobra.Command) (*client.Client, error) {
	server, _ := cmd.Flags().GetString("server")
	token, _ := cmd.Flags().GetString("token")
	if token == "" {
		token = os.Getenv("KANDY_TOKEN")
	}
	if token == "" {
		return nil, fmt.Errorf("no token\nHint: run `kandy token --as <email>` or `kandy remote login`")
	}
	return client.New(server, client.WithToken(token)), nil
}

var remoteLoginCmd = &cobra.Command{
	Use:   "login [email]",
	Short: "Log in and print a bearer token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		server, _ := cmd.Flags().GetString("server")
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			password = os.Getenv("KANDY_PASSWORD")
		}
		resp, err := client.New(server).Login(cmd.Context(), args[0], password)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		fmt.Println(resp.Token)
		return nil
	},
}

var remoteStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the remote dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := remoteClient(cmd)
		if err != nil {
			return err
		}
		stats, err := c.DashboardStats(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load dashboard: %w", err)
		}
		printStats(os.Stdout, stats)
		return nil
	},
}

var remoteTasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List remote tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := remoteClient(cmd)
		if err != nil {
			return err
		}
		status, _ := cmd.Flags().GetString("status")
		date, _ := cmd.Flags().GetString("date")
		tasks, err := c.ListTasks(cmd.Context(), primary.TaskFilters{Status: status, ScheduledDate: date})
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}
		if len(tasks) == 0 {
			fmt.Println("No tasks found.")
			return nil
		}
		fmt.Printf("Found %d task(s):\n\n", len(tasks))
		for _, t := range tasks {
			printTask(os.Stdout, t)
		}
		return nil
	},
}

func init() {
	remoteCmd.PersistentFlags().String("server", "http://localhost:8080", "Base URL of the kandy API")
	remoteCmd.PersistentFlags().String("token", "", "Bearer token (or KANDY_TOKEN)")

	remoteLoginCmd.Flags().String("password", "", "Password (or KANDY_PASSWORD)")
	remoteTasksCmd.Flags().String("status", "", "Filter by status")
	remoteTasksCmd.Flags().String("date", "", "Filter by scheduled date (YYYY-MM-DD)")

	remoteCmd.AddCommand(remoteLoginCmd)
	remoteCmd.AddCommand(remoteStatsCmd)
	remoteCmd.AddCommand(remoteTasksCmd)
}

// RemoteCmd returns the remote command
func RemoteCmd() *cobra.Command {
	return remoteCmd
}
