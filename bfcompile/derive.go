package bfcompile

import "fmt"

// Reserved tag keys stamped onto every resource. They win over user-supplied
// values for the same keys.
const (
	tagManagedBy = "ManagedBy"
	tagModule    = "Module"
	tagName      = "Name"

	// managedByValue is kept as "terraform" for continuity with environments
	// that were first provisioned by the original Terraform module, so tag
	// based cost reports and cleanup scripts keep matching.
	managedByValue = "terraform"
	moduleValue    = "batchforge/aws-batch"
)

// Names holds every derived value of a compilation: resource names, ARNs,
// URIs, the merged tag set, and the effective allocation strategy. It depends
// only on the Config and is computed in full before any resource is touched.
type Names struct {
	HeadEnvName      string
	ComputeEnvName   string
	HeadQueueName    string
	ComputeQueueName string

	LaunchTemplateName string

	BatchServiceRoleName string
	InstanceRoleName     string
	InstanceProfileName  string
	SpotFleetRoleName    string
	HeadRoleName         string
	TaskRoleName         string
	ExecutionRoleName    string
	PlatformUserName     string

	JobPolicyName      string
	HeadPolicyName     string
	PassRolePolicyName string

	WorkDirURI    string
	WorkBucketARN string
	AllBucketARNs []string

	CredentialsName string
	EnvName         string

	// EffectiveStrategy is the allocation strategy actually handed to the
	// compute environments, after the spot fallback rule.
	EffectiveStrategy AllocationStrategy

	Tags map[string]string
}

// Derive computes all names and derived values from a validated Config. It is
// total: it cannot fail once Validate has accepted the input.
func Derive(cfg Config) Names {
	p := cfg.NamePrefix

	workBucketARN := "arn:aws:s3:::" + cfg.WorkBucketName
	allBuckets := make([]string, 0, len(cfg.AdditionalBucketARNs)+1)
	allBuckets = append(allBuckets, workBucketARN)
	allBuckets = append(allBuckets, cfg.AdditionalBucketARNs...)

	return Names{
		HeadEnvName:      p + "-head",
		ComputeEnvName:   p + "-compute",
		HeadQueueName:    p + "-head-queue",
		ComputeQueueName: p + "-compute-queue",

		LaunchTemplateName: p + "-launch-template",

		BatchServiceRoleName: p + "-batch-service-role",
		InstanceRoleName:     p + "-instance-role",
		InstanceProfileName:  p + "-instance-profile",
		SpotFleetRoleName:    p + "-spot-fleet-role",
		HeadRoleName:         p + "-head-role",
		TaskRoleName:         p + "-task-role",
		ExecutionRoleName:    p + "-execution-role",
		PlatformUserName:     p + "-platform-user",

		JobPolicyName:      p + "-job-policy",
		HeadPolicyName:     p + "-head-policy",
		PassRolePolicyName: p + "-pass-role-policy",

		WorkDirURI:    fmt.Sprintf("s3://%s/%s", cfg.WorkBucketName, cfg.WorkDirPath),
		WorkBucketARN: workBucketARN,
		AllBucketARNs: allBuckets,

		CredentialsName: firstNonEmpty(cfg.PlatformCredentialsName, p+"-aws-credentials"),
		EnvName:         firstNonEmpty(cfg.PlatformEnvName, p),

		EffectiveStrategy: effectiveStrategy(cfg),

		Tags: mergeTags(cfg.Tags, p),
	}
}

// effectiveStrategy applies the spot fallback rule: an On-Demand oriented
// strategy is never passed through to a Spot compute environment, it silently
// falls back to SPOT_CAPACITY_OPTIMIZED instead. The reverse direction is an
// intentional passthrough: a spot-oriented strategy on an On-Demand
// environment is forwarded verbatim rather than auto-corrected.
func effectiveStrategy(cfg Config) AllocationStrategy {
	if !cfg.UseSpotInstances {
		return cfg.AllocationStrategy
	}
	switch cfg.AllocationStrategy {
	case SpotCapacityOptimized, SpotPriceCapacityOptimized:
		return cfg.AllocationStrategy
	default:
		return SpotCapacityOptimized
	}
}

// mergeTags overlays the reserved keys on top of the user tags. Reserved keys
// always win, even when the user supplied conflicting values.
func mergeTags(user map[string]string, prefix string) map[string]string {
	merged := make(map[string]string, len(user)+3)
	for k, v := range user {
		merged[k] = v
	}
	merged[tagManagedBy] = managedByValue
	merged[tagModule] = moduleValue
	merged[tagName] = prefix
	return merged
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
