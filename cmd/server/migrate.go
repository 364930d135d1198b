package main

import (
	"context"

	"storefront/internal/config"
	"storefront/internal/logging"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd(flags *serverFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the credential store schema",
		Long: `Create the users table (postgres) or the unique phone index (mongo)
for the configured STORE_DRIVER, then exit.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd, flags)
		},
	}
}

func runMigrate(cmd *cobra.Command, flags *serverFlags) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}
	if cfg.StoreDriver == config.DriverMemory {
		cmd.Println("memory store has no schema, nothing to do")
		return nil
	}
	cfg.RedisURI = ""

	logger := logging.Setup(cfg.LogFormat, cfg.LogLevel, cmd.ErrOrStderr())

	cmd.Printf("Applying %s schema...\n", cfg.StoreDriver)
	_, closeStore, err := openStore(context.Background(), cfg, logger)
	if err != nil {
		return err
	}
	closeStore()

	cmd.Println("Migrations completed successfully")
	return nil
}
