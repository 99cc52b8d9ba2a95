package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdugdh24/heartmatch-backend/internal/config"
	"github.com/gdugdh24/heartmatch-backend/internal/infrastructure/container"
	"github.com/gdugdh24/heartmatch-backend/internal/infrastructure/database"
	"github.com/gdugdh24/heartmatch-backend/internal/usecase/auth"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func (a *app) container(ctx context.Context) (*container.Container, error) {
	c, err := container.NewContainer(ctx, a.cfg, a.log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize application: %w", err)
	}
	return c, nil
}

func (a *app) closeContainer(c *container.Container) {
	if err := c.Close(); err != nil {
		a.log.Error().Err(err).Msg("error closing application")
	}
}

func newServeCmd(a *app) *cobra.Command {
	var withWingman, seedDemo bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			c, err := a.container(ctx)
			if err != nil {
				return err
			}
			defer a.closeContainer(c)

			if seedDemo {
				if _, err := c.Seeder.Seed(ctx, uint64(time.Now().UnixNano())); err != nil {
					return err
				}
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return c.Server.Run(gctx)
			})
			if withWingman {
				consumer, err := c.NewWingmanConsumer(hostname() + "-serve")
				if err != nil {
					return err
				}
				g.Go(func() error {
					if err := consumer.Run(gctx); err != nil && gctx.Err() == nil {
						return err
					}
					return nil
				})
			}

			if err := g.Wait(); err != nil {
				return err
			}
			a.log.Info().Msg("server exited properly")
			return nil
		},
	}
	cmd.Flags().BoolVar(&withWingman, "wingman", false, "also run the match enrichment consumer in-process")
	cmd.Flags().BoolVar(&seedDemo, "seed", false, "upsert demo profiles before serving")
	return cmd
}

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or roll back the database schema",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(database.Up), string(database.Down)},
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := database.ParseDirection(args[0])
			if err != nil {
				return err
			}
			if a.cfg.Store.Driver != config.StoreDriverPostgres {
				return fmt.Errorf("migrate requires STORE_DRIVER=%s", config.StoreDriverPostgres)
			}

			db, err := database.NewPostgresDB(&a.cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			return database.Migrate(db, dir, a.log)
		},
	}
}

func newSeedCmd(a *app) *cobra.Command {
	var randSeed uint64

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert demo profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			c, err := a.container(ctx)
			if err != nil {
				return err
			}
			defer a.closeContainer(c)

			profiles, err := c.Seeder.Seed(ctx, randSeed)
			if err != nil {
				return err
			}
			for _, p := range profiles {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", p.ID, p.Username)
			}
			return nil
		},
	}
	cmd.Flags().Uint64Var(&randSeed, "rand-seed", 1, "seed for demo coordinates")
	return cmd
}

func newWingmanCmd(a *app) *cobra.Command {
	var consumerName string

	cmd := &cobra.Command{
		Use:   "wingman",
		Short: "Consume match:created and store AI match explanations and icebreakers",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			c, err := a.container(ctx)
			if err != nil {
				return err
			}
			defer a.closeContainer(c)

			consumer, err := c.NewWingmanConsumer(consumerName)
			if err != nil {
				return err
			}
			if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
				return err
			}
			a.log.Info().Msg("wingman stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&consumerName, "consumer", hostname(), "consumer name within the wingman group")
	return cmd
}

func newTokenCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "token <user-id>",
		Short: "Issue a bearer token for local testing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid user id: %w", err)
			}
			tokens := auth.NewTokenService(a.cfg.JWT.Secret, a.cfg.JWT.Audience, a.cfg.JWT.TTL)
			token, expiresAt, err := tokens.Issue(userID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			a.log.Debug().Time("expires_at", expiresAt).Msg("token issued")
			return nil
		},
	}
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil || h == "" {
		return "wingman-1"
	}
	return h
}
