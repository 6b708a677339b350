package main

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v3"

	"github.com/batchforge/batchforge/bfcompile"
	"github.com/batchforge/batchforge/bfplatform"
	"github.com/batchforge/batchforge/cmd/batchforge/internal/config"
	"github.com/batchforge/batchforge/cmd/batchforge/internal/platformcreds"
)

func registerCmd() *cli.Command {
	return &cli.Command{
		Name:   "register",
		Usage:  "Register the deployed compute environment with Seqera Platform",
		Flags:  cdkFlags(),
		Action: config.RunWithConfig(runRegister),
	}
}

func runRegister(ctx context.Context, cmd *cli.Command, cfg config.Config) error {
	out, err := bfcompile.Compile(cfg.Doc.Compile)
	if err != nil {
		return err
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(out.Config.Region),
	}
	if profile := resolveProfile(cmd, cfg); profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return errors.Wrap(err, "failed to load AWS configuration")
	}

	creds := platformcreds.NewFromConfig(awsCfg)

	pair, err := creds.MintAccessKey(ctx, out.Names.PlatformUserName)
	if err != nil {
		return err
	}

	headRole, err := creds.RoleARN(ctx, out.Names.HeadRoleName)
	if err != nil {
		return err
	}
	taskRole, err := creds.RoleARN(ctx, out.Names.TaskRoleName)
	if err != nil {
		return err
	}
	executionRole, err := creds.RoleARN(ctx, out.Names.ExecutionRoleName)
	if err != nil {
		return err
	}

	client := bfplatform.New(out.Config.PlatformServerURL, out.Config.PlatformAccessToken)

	credentialsID, err := client.CreateCredentials(ctx, bfplatform.CreateCredentialsRequest{
		Name:        out.Names.CredentialsName,
		WorkspaceID: out.Config.PlatformWorkspaceID,
		AccessKey:   pair.AccessKeyID,
		SecretKey:   pair.SecretAccessKey,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.Writer, "registered credentials %s (%s)\n", out.Names.CredentialsName, credentialsID)

	envID, err := client.CreateComputeEnv(ctx, bfplatform.ComputeEnvRequest{
		Name:          out.Names.EnvName,
		Description:   out.Config.PlatformEnvDescription,
		WorkspaceID:   out.Config.PlatformWorkspaceID,
		CredentialsID: credentialsID,

		Region:       out.Config.Region,
		WorkDir:      out.Names.WorkDirURI,
		HeadQueue:    out.Names.HeadQueueName,
		ComputeQueue: out.Names.ComputeQueueName,

		HeadJobRole:    headRole,
		ComputeJobRole: taskRole,
		ExecutionRole:  executionRole,

		HeadJobCpus:     out.Config.HeadJobCpus,
		HeadJobMemoryMb: out.Config.HeadJobMemoryMb,

		WaveEnabled:   out.Config.EnableWave,
		FusionEnabled: out.Config.EnableFusion,

		PreRunScript:   out.Config.PreRunScript,
		PostRunScript:  out.Config.PostRunScript,
		NextflowConfig: out.Config.ExtraConfig,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.Writer, "registered compute environment %s (%s)\n", out.Names.EnvName, envID)

	return nil
}
