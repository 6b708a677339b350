package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/batchforge/batchforge/cmd/batchforge/internal/cmdexec"
	"github.com/batchforge/batchforge/cmd/batchforge/internal/config"
)

func deployCmd() *cli.Command {
	return &cli.Command{
		Name:   "deploy",
		Usage:  "Synthesize and deploy the compute environment stack",
		Flags:  cdkFlags(),
		Action: config.RunWithConfig(runDeploy),
	}
}

func runDeploy(ctx context.Context, cmd *cli.Command, cfg config.Config) error {
	if err := synthAssembly(cfg); err != nil {
		return err
	}

	return runCDK(ctx, cmd, cfg, "deploy", "--require-approval", "never")
}

func cdkFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "profile",
			Usage: "AWS CLI profile to use (overrides the profile config key)",
		},
	}
}

// runCDK shells out to the CDK CLI against the pre-synthesized assembly, so
// the CDK never re-invokes this binary as an app.
func runCDK(ctx context.Context, cmd *cli.Command, cfg config.Config, verb string, extra ...string) error {
	args := []string{verb, "--app", cfg.CDKOutDir(), "--all"}
	args = append(args, extra...)

	if profile := resolveProfile(cmd, cfg); profile != "" {
		args = append(args, "--profile", profile)
	}

	exe := cmdexec.New(cfg.ProjectDir).WithOutput(os.Stdout, os.Stderr)
	return exe.Run(ctx, "cdk", args...)
}

func resolveProfile(cmd *cli.Command, cfg config.Config) string {
	if profile := cmd.String("profile"); profile != "" {
		return profile
	}
	return cfg.Doc.Compile.Profile
}
