package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/centrala/rainfall-gate/cmd/app/commands"
	"github.com/centrala/rainfall-gate/internal/app"
	"github.com/centrala/rainfall-gate/internal/config"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the API server and, when enabled, the metrics server",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Apply pending database migrations",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "driver",
					Usage: "Override DB_DRIVER ('postgres' or 'mysql')",
				},
				&cli.StringFlag{
					Name:  "dsn",
					Usage: "Override DB_CONNECTION_STRING",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withContainer(ctx, func(cfg *config.Config, container *app.Container) error {
					driver, dsn := cfg.DBDriver, cfg.DBConnectionString
					if v := cmd.String("driver"); v != "" {
						driver = v
					}
					if v := cmd.String("dsn"); v != "" {
						dsn = v
					}
					return commands.RunMigrations(container.Logger(), driver, dsn)
				})
			},
		},
	}
}
