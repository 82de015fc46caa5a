package main

import (
	"context"
	"errors"

	"github.com/urfave/cli/v3"

	"github.com/centrala/rainfall-gate/internal/app"
	"github.com/centrala/rainfall-gate/internal/config"
)

const (
	categoryService     = "service"
	categoryMaintenance = "maintenance"
)

func getCommands(version string) []*cli.Command {
	groups := []struct {
		category string
		commands []*cli.Command
	}{
		{categoryService, getSystemCommands(version)},
		{categoryMaintenance, getAuthCommands()},
	}

	var cmds []*cli.Command
	for _, group := range groups {
		for _, cmd := range group.commands {
			cmd.Category = group.category
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}

// withContainer loads configuration, hands fn a fresh container and shuts the
// container down afterwards. A shutdown failure is reported alongside fn's error.
func withContainer(ctx context.Context, fn func(cfg *config.Config, container *app.Container) error) error {
	cfg := config.Load()
	container := app.NewContainer(cfg)

	runErr := fn(cfg, container)
	return errors.Join(runErr, container.Shutdown(ctx))
}
