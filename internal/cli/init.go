package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/kandy/internal/adapters/auth"
	"github.com/example/kandy/internal/db"
	"github.com/example/kandy/internal/models"
	"github.com/example/kandy/internal/ports/primary"
	"github.com/example/kandy/internal/wire"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the kandy database",
		Long: `Create the kandy database and apply migrations.

With --admin-email, the first Admin account is created. With --seed, a set of
development fixtures (one account per role and a day of tasks) is loaded
instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg := wire.Config()
			seed, _ := cmd.Flags().GetBool("seed")
			email, _ := cmd.Flags().GetString("admin-email")

			if seed && email != "" {
				return fmt.Errorf("--seed and --admin-email cannot be combined")
			}

			fmt.Printf("Initializing kandy database at %s\n", cfg.Database.Path)
			database := wire.Database()
			version, err := db.CurrentVersion(database)
			if err != nil {
				return fmt.Errorf("failed to read schema version: %w", err)
			}
			fmt.Printf("✓ Schema at version %d\n", version)

			switch {
			case seed:
				password, _ := cmd.Flags().GetString("seed-password")
				hash, err := auth.NewBcryptHasher(0).Hash(password)
				if err != nil {
					return fmt.Errorf("failed to hash seed password: %w", err)
				}
				day := time.Now().In(cfg.Location()).Format("2006-01-02")
				if err := db.SeedFixtures(database, hash, day); err != nil {
					return fmt.Errorf("failed to seed fixtures: %w", err)
				}
				fmt.Printf("✓ Seeded fixtures for %s (password %q)\n", day, password)
			case email != "":
				name, _ := cmd.Flags().GetString("admin-name")
				password, _ := cmd.Flags().GetString("admin-password")
				if password == "" {
					password = os.Getenv("KANDY_ADMIN_PASSWORD")
				}
				admin, err := wire.UserService().BootstrapAdmin(ctx, primary.CreateUserRequest{
					FullName: name,
					Email:    email,
					Role:     string(models.RoleAdmin),
					Password: password,
				})
				if err != nil {
					return fmt.Errorf("failed to create admin: %w", err)
				}
				fmt.Printf("✓ Created admin %s (%s)\n", admin.Email, admin.ID)
			}

			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  kandy serve")
			fmt.Println("  kandy status --as <email>")
			return nil
		},
	}
	cmd.Flags().Bool("seed", false, "Load development fixtures")
	cmd.Flags().String("seed-password", "kandy123", "Password shared by the seeded accounts")
	cmd.Flags().String("admin-email", "", "Email of the first Admin account")
	cmd.Flags().String("admin-name", "Administrator", "Full name of the first Admin account")
	cmd.Flags().String("admin-password", "", "Password of the first Admin account (or KANDY_ADMIN_PASSWORD)")
	return cmd
}
