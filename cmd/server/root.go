package main

import (
	"storefront/internal/config"

	"github.com/spf13/cobra"
)

type serverFlags struct {
	envFile string
	port    string
	store   string
}

// NewRootCmd creates the root command. Running it without a subcommand
// starts the server.
func NewRootCmd() *cobra.Command {
	flags := &serverFlags{}
	cmd := &cobra.Command{
		Use:          "server",
		Short:        "Storefront auth API server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, flags)
		},
	}

	cmd.PersistentFlags().StringVar(&flags.envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	cmd.PersistentFlags().StringVar(&flags.port, "port", "", "listen port (overrides SERVER_PORT)")
	cmd.PersistentFlags().StringVar(&flags.store, "store", "", "credential store: mongo, postgres or memory (overrides STORE_DRIVER)")

	cmd.AddCommand(NewMigrateCmd(flags))
	return cmd
}

// loadConfig reads env config and applies flag overrides.
func loadConfig(flags *serverFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.envFile)
	if err != nil {
		return nil, err
	}
	if flags.port != "" {
		cfg.Port = flags.port
	}
	if flags.store != "" {
		cfg.StoreDriver = flags.store
	}
	return cfg, cfg.Validate()
}
