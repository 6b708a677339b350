package initwizard

import "github.com/batchforge/batchforge/bfcompile"

// Result holds the answers collected by the wizard, enough to write a first
// .batchforge.yml that compiles.
type Result struct {
	NamePrefix        string
	Region            string
	WorkBucketName    string
	SubnetIDs         []string
	SecurityGroupIDs  []string
	UseSpotInstances  bool
	PlatformServerURL string
	WorkspaceID       int64
}

func DefaultResult(defaultPrefix string) Result {
	return Result{
		NamePrefix:        defaultPrefix,
		Region:            "eu-west-1",
		PlatformServerURL: "https://api.cloud.seqera.io",
	}
}

// Config merges the answers into the default compiler config. The platform
// access token is deliberately not asked for: it belongs in the environment
// or a secrets manager, not in a file the wizard writes.
func (r Result) Config() bfcompile.Config {
	cfg := bfcompile.Default()
	cfg.NamePrefix = r.NamePrefix
	cfg.Region = r.Region
	cfg.WorkBucketName = r.WorkBucketName
	cfg.SubnetIDs = r.SubnetIDs
	cfg.SecurityGroupIDs = r.SecurityGroupIDs
	cfg.UseSpotInstances = r.UseSpotInstances
	cfg.PlatformServerURL = r.PlatformServerURL
	cfg.PlatformWorkspaceID = r.WorkspaceID
	return cfg
}
