package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/batchforge/batchforge/cmd/batchforge/internal/config"
)

func destroyCmd() *cli.Command {
	return &cli.Command{
		Name:   "destroy",
		Usage:  "Destroy the deployed compute environment stack",
		Flags:  cdkFlags(),
		Action: config.RunWithConfig(runDestroy),
	}
}

func runDestroy(ctx context.Context, cmd *cli.Command, cfg config.Config) error {
	if err := synthAssembly(cfg); err != nil {
		return err
	}

	return runCDK(ctx, cmd, cfg, "destroy", "--force")
}
