package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"meetings-api/internal/config"
	"meetings-api/internal/seed"
	"meetings-api/internal/store"
)

type rootOptions struct {
	databaseURL string
	log         *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "meetingsctl",
		Short:         "Maintenance tasks for the meetings API database",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if opts.databaseURL == "" {
				opts.databaseURL = cfg.DatabaseURL
			}
			opts.log = cfg.NewLogger()
			return nil
		},
	}
	root.PersistentFlags().StringVar(&opts.databaseURL, "database-url", "",
		"store connection string (defaults to DATABASE_URL)")

	root.AddCommand(newSeedCmd(opts), newMigrateCmd(opts))
	return root
}

func newSeedCmd(opts *rootOptions) *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert the sample users and meetings",
		Long: `Upserts two sample users by email, then inserts two meetings for them.
Users are left untouched on re-runs; meetings are added again each time.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), opts, func(ctx context.Context, st store.Store) error {
				if migrate {
					if err := st.Migrate(ctx); err != nil {
						return err
					}
				}
				res, err := seed.Run(ctx, st, opts.log)
				if err != nil {
					return fmt.Errorf("seeding database: %w", err)
				}
				for _, m := range res.Meetings {
					opts.log.Info("meeting", "id", m.ID, "title", m.Title, "user", m.User.Email)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply migrations before seeding")
	return cmd
}

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the users and meetings tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), opts, func(ctx context.Context, st store.Store) error {
				if err := st.Migrate(ctx); err != nil {
					return err
				}
				opts.log.Info("migrations applied", "driver", st.Driver())
				return nil
			})
		},
	}
}

// withStore opens the store for one command and always releases it.
func withStore(ctx context.Context, opts *rootOptions, fn func(context.Context, store.Store) error) error {
	st, err := store.Open(ctx, opts.databaseURL)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(ctx, st)
}
