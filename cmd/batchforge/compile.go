package main

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v3"

	"github.com/batchforge/batchforge/bfcompile"
	"github.com/batchforge/batchforge/cmd/batchforge/internal/config"
)

func compileCmd() *cli.Command {
	return &cli.Command{
		Name:   "compile",
		Usage:  "Validate the config and print the compiled plan as JSON",
		Action: config.RunWithConfig(runCompile),
	}
}

func runCompile(_ context.Context, cmd *cli.Command, cfg config.Config) error {
	out, err := bfcompile.Compile(cfg.Doc.Compile)
	if err != nil {
		return err
	}

	plan := map[string]any{
		"names": out.Names,
		"policies": map[string]any{
			"job":      out.Policies.Job.AsPolicyJSON(),
			"head":     out.Policies.Head.AsPolicyJSON(),
			"passRole": out.Policies.PassRole.AsPolicyJSON(),
		},
		"bootstrapVariant": out.Bootstrap.Variant,
	}

	enc := json.NewEncoder(cmd.Writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(plan); err != nil {
		return errors.Wrap(err, "failed to encode plan")
	}
	return nil
}
