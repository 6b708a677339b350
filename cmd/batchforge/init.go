package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v3"

	"github.com/batchforge/batchforge/cmd/batchforge/internal/config"
	"github.com/batchforge/batchforge/cmd/batchforge/internal/initwizard"
)

func initCmd() *cli.Command {
	return &cli.Command{
		Name:      "init",
		Usage:     "Create a " + config.FileName + " through an interactive wizard",
		ArgsUsage: "[directory]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "accessible",
				Usage: "Run the wizard in accessible (screen-reader friendly) mode",
			},
		},
		Action: runInit,
	}
}

func runInit(_ context.Context, cmd *cli.Command) error {
	dir := cmd.Args().First()
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return errors.Wrap(err, "failed to get current working directory")
		}
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return errors.Wrap(err, "failed to get absolute path")
	}
	dir = absDir

	if _, err := os.Stat(filepath.Join(dir, config.FileName)); err == nil {
		return errors.Newf("%s already exists in %s", config.FileName, dir)
	}

	var runner initwizard.FormRunner = initwizard.NewInteractiveRunner()
	if cmd.Bool("accessible") {
		runner = initwizard.NewAccessibleRunner(os.Stdout, os.Stdin)
	}

	wizard := initwizard.New(initwizard.NewFormBuilder(), runner)
	result, err := wizard.Run(filepath.Base(dir))
	if err != nil {
		return err
	}

	doc := config.Default()
	doc.Compile = result.Config()

	if err := config.WriteToFile(dir, doc, config.NewWriter()); err != nil {
		return err
	}

	fmt.Fprintf(cmd.Writer, "wrote %s\n", filepath.Join(dir, config.FileName))
	fmt.Fprintln(cmd.Writer, "set the platform access token via the platform_access_token key or review the file before deploying")
	return nil
}
