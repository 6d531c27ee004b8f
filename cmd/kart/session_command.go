package main

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tsksoundkits/storefront/internal/session"
)

func newSessionCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Show the current cart session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			location := session.DirFor(cfg.Session.Root, cfg.Session.ID)
			if cfg.Session.Backend == backendSQLite {
				location = cfg.Session.SQLitePath
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Session:  %s\n", cfg.Session.ID)
			fmt.Fprintf(out, "Backend:  %s\n", cfg.Session.Backend)
			fmt.Fprintf(out, "Location: %s\n", location)
			return nil
		},
	}

	cmd.AddCommand(newSessionNewCommand())
	cmd.AddCommand(newSessionExpireCommand(ctx))
	return cmd
}

func newSessionNewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Print a fresh session id for KART_SESSION",
		Long: "Print a fresh session id. Share one cart across terminals with\n" +
			"  export KART_SESSION=$(kart session new)",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), uuid.NewString())
			return nil
		},
	}
}

func newSessionExpireCommand(ctx *commandContext) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "expire",
		Short: "Delete carts of sessions idle for longer than --older-than (sqlite backend)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cfg.Session.Backend != backendSQLite {
				return errors.Errorf("expire needs the %s backend; directory sessions vanish with the runtime dir", backendSQLite)
			}
			if olderThan <= 0 {
				return errors.New("--older-than must be positive")
			}

			c, err := ctx.withLogger(cmd)
			if err != nil {
				return err
			}
			n, err := expireSessions(c, cfg.Session.SQLitePath, time.Now().Add(-olderThan))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Expired %d records.\n", n)
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "Idle time after which a session cart is deleted")
	return cmd
}

func expireSessions(ctx context.Context, path string, before time.Time) (int64, error) {
	db, err := session.OpenSQLite(ctx, path)
	if err != nil {
		return 0, errors.Wrap(err, "open session database")
	}
	defer func() { _ = db.Close() }()
	return db.Expire(ctx, before)
}
