package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/kandy/internal/config"
	"github.com/example/kandy/internal/ctxutil"
	"github.com/example/kandy/internal/wire"
)

// Setup loads the config named by --config and hands it to wire. It is meant
// to run as the root command's PersistentPreRunE.
func Setup(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	return wire.Configure(cfg)
}

// Teardown closes the database opened during the command.
func Teardown(_ *cobra.Command, _ []string) error {
	return wire.Close()
}

// sessionContext returns a context acting as the user named by --as.
func sessionContext(cmd *cobra.Command) (context.Context, ctxutil.Session, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	email, _ := cmd.Flags().GetString("as")
	if email == "" {
		return nil, ctxutil.Session{}, fmt.Errorf("--as is required\nHint: pass the email of the account to act as")
	}
	session, err := wire.AuthService().SessionFor(ctx, email)
	if err != nil {
		return nil, ctxutil.Session{}, fmt.Errorf("cannot act as %s: %w", email, err)
	}
	return ctxutil.WithSession(ctx, session), session, nil
}

func addAsFlag(cmd *cobra.Command) {
	cmd.Flags().String("as", "", "Email of the account to act as")
}
