package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

// Version is set via ldflags at build time.
var Version = "dev"

func main() {
	cmd := &cli.Command{
		Name:    "batchforge",
		Usage:   "Compile, deploy, and register AWS Batch compute environments for Nextflow",
		Version: Version,
		Commands: []*cli.Command{
			initCmd(),
			compileCmd(),
			synthCmd(),
			deployCmd(),
			destroyCmd(),
			registerCmd(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
