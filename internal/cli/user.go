package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/kandy/internal/models"
	"github.com/example/kandy/internal/ports/primary"
	"github.com/example/kandy/internal/wire"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage accounts",
	Long:  "Create, list, activate and deactivate kandy accounts. Commands act as the admin named by --as.",
}

var userCreateCmd = &cobra.Command{
	Use:   "create [email]",
	Short: "Create an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, _, err := sessionContext(cmd)
		if err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("name")
		phone, _ := cmd.Flags().GetString("phone")
		role, _ := cmd.Flags().GetString("role")
		password, _ := cmd.Flags().GetString("password")
		skills, _ := cmd.Flags().GetStringSlice("skills")
		code, _ := cmd.Flags().GetString("employee-code")
		if password == "" {
			password = os.Getenv("KANDY_USER_PASSWORD")
		}

		user, err := wire.UserService().CreateUser(ctx, primary.CreateUserRequest{
			FullName:     name,
			Email:        args[0],
			Phone:        phone,
			Role:         role,
			Password:     password,
			Skills:       skills,
			EmployeeCode: code,
		})
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		fmt.Printf("✓ Created %s %s (%s)\n", user.Role, user.Email, user.ID)
		return nil
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, _, err := sessionContext(cmd)
		if err != nil {
			return err
		}
		role, _ := cmd.Flags().GetString("role")
		status, _ := cmd.Flags().GetString("status")

		users, err := wire.UserService().ListUsers(ctx, primary.UserFilters{Role: role, Status: status})
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}
		if len(users) == 0 {
			fmt.Println("No users found.")
			return nil
		}
		fmt.Printf("Found %d user(s):\n\n", len(users))
		for _, u := range users {
			printUser(os.Stdout, u)
		}
		return nil
	},
}

func userStatusCmd(use string, status models.UserStatus) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " [user-id]",
		Short: strings.ToUpper(use[:1]) + use[1:] + " an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, _, err := sessionContext(cmd)
			if err != nil {
				return err
			}
			user, err := wire.UserService().SetUserStatus(ctx, args[0], string(status))
			if err != nil {
				return fmt.Errorf("failed to %s user: %w", use, err)
			}
			fmt.Printf("✓ %s is now %s\n", user.Email, user.Status)
			return nil
		},
	}
	addAsFlag(cmd)
	return cmd
}

func init() {
	addAsFlag(userCreateCmd)
	userCreateCmd.Flags().String("name", "", "Full name")
	userCreateCmd.Flags().String("phone", "", "Phone number")
	userCreateCmd.Flags().String("role", string(models.RoleElectrician), "Role: Admin, Manager or Electrician")
	userCreateCmd.Flags().String("password", "", "Initial password (or KANDY_USER_PASSWORD)")
	userCreateCmd.Flags().StringSlice("skills", nil, "Comma-separated skills")
	userCreateCmd.Flags().String("employee-code", "", "Employee code")

	addAsFlag(userListCmd)
	userListCmd.Flags().String("role", "", "Filter by role")
	userListCmd.Flags().String("status", "", "Filter by status")

	userCmd.AddCommand(userCreateCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userStatusCmd("activate", models.UserStatusActive))
	userCmd.AddCommand(userStatusCmd("deactivate", models.UserStatusInactive))
}

// UserCmd returns the user command
func UserCmd() *cobra.Command {
	return userCmd
}
