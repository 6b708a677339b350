package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"
	"github.com/urfave/cli/v3"

	"github.com/batchforge/batchforge/bfcdk/bfcdkenv"
	"github.com/batchforge/batchforge/bfcdkutil"
	"github.com/batchforge/batchforge/bfcompile"
	"github.com/batchforge/batchforge/cmd/batchforge/internal/config"
)

func synthCmd() *cli.Command {
	return &cli.Command{
		Name:   "synth",
		Usage:  "Synthesize the CloudFormation assembly into cdk.out",
		Action: config.RunWithConfig(runSynth),
	}
}

func runSynth(_ context.Context, cmd *cli.Command, cfg config.Config) error {
	if err := synthAssembly(cfg); err != nil {
		return err
	}

	fmt.Fprintf(cmd.Writer, "synthesized assembly to %s\n", cfg.CDKOutDir())
	return nil
}

// synthAssembly compiles the config and synthesizes the cloud assembly
// in-process, so deploy and destroy never need a separate CDK app entrypoint.
func synthAssembly(cfg config.Config) error {
	out, err := bfcompile.Compile(cfg.Doc.Compile)
	if err != nil {
		return err
	}

	defer jsii.Close()

	app := awscdk.NewApp(&awscdk.AppProps{
		Outdir: jsii.String(cfg.CDKOutDir()),
	})

	bfcdkutil.StoreOutput(app, out)
	stack := bfcdkutil.NewStack(app, out)
	bfcdkenv.New(stack)

	app.Synth(nil)
	return nil
}
