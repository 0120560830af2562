// Command workshopctl runs workshop operations against the database directly.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"workshop/cmd"
	postgres_adapter "workshop/internal/adapters/out/postgres"

	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type cli struct {
	envFile string
	actor   string
	app     *cmd.CompositionRoot
	out     io.Writer
}

func main() {
	c := &cli{out: os.Stdout}
	if err := c.rootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "workshopctl",
		Short:        "Operate work orders of the engine rebuild workshop",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.connect(cmd.Context())
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if c.app == nil {
				return nil
			}
			return c.app.Close()
		},
	}

	defaultActor := os.Getenv("USER")
	if defaultActor == "" {
		defaultActor = "workshopctl"
	}
	root.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", "file with environment variables")
	root.PersistentFlags().StringVar(&c.actor, "actor", defaultActor, "user recorded as the author of changes")

	root.AddCommand(
		c.openCommand(),
		c.advanceCommand(),
		c.delayCommand(),
		c.irreparableCommand(),
		c.stageCommand(),
		c.historyCommand(),
		c.auditCommand(),
		c.notificationsCommand(),
		c.readCommand(),
		c.relayCommand(),
	)
	return root
}

func (c *cli) connect(ctx context.Context) error {
	configs, err := cmd.LoadConfig(c.envFile)
	if err != nil {
		return err
	}
	gormDB, err := gorm.Open(postgres.Open(configs.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	if configs.SeedCatalogs {
		if err = postgres_adapter.Migrate(ctx, gormDB); err != nil {
			return err
		}
		if err = postgres_adapter.SeedCatalogs(ctx, gormDB); err != nil {
			return err
		}
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	c.app, err = cmd.NewCompositionRoot(ctx, configs, gormDB, log)
	return err
}

func (c *cli) print(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
