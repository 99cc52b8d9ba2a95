package main

import (
	"os"

	"github.com/gdugdh24/heartmatch-backend/internal/config"
	"github.com/gdugdh24/heartmatch-backend/internal/infrastructure/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app is the state shared by subcommands, loaded once in PersistentPreRunE.
type app struct {
	cfg *config.Config
	log zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var envFile string

	root := &cobra.Command{
		Use:           "heartmatch",
		Short:         "Dating candidate selection and match resolution service",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFile(envFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = logger.New(cfg.Logging.Level, cfg.Logging.Format)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "path to an optional .env file")

	root.AddCommand(
		newServeCmd(a),
		newMigrateCmd(a),
		newSeedCmd(a),
		newWingmanCmd(a),
		newTokenCmd(a),
	)
	return root
}
