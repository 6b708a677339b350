package bfcompile

// AllocationStrategy selects how AWS Batch picks instance types and price
// points when a compute environment scales up.
type AllocationStrategy string

const (
	BestFit                    AllocationStrategy = "BEST_FIT"
	BestFitProgressive         AllocationStrategy = "BEST_FIT_PROGRESSIVE"
	SpotCapacityOptimized      AllocationStrategy = "SPOT_CAPACITY_OPTIMIZED"
	SpotPriceCapacityOptimized AllocationStrategy = "SPOT_PRICE_CAPACITY_OPTIMIZED"
)

// Config holds all user-supplied inputs for one compilation. It is decoded
// from .batchforge.yml and validated upfront so every later step can assume
// well-formed values.
type Config struct {
	// NamePrefix is prepended to every resource name. Lowercase alphanumeric
	// plus hyphens, at most 32 characters.
	NamePrefix string `yaml:"name_prefix" validate:"required,max=32,name_prefix"`
	// Region is the AWS region all resources are created in.
	Region string `yaml:"region" validate:"required"`
	// Profile optionally names the AWS CLI profile used by deploy/register.
	Profile string `yaml:"profile"`

	SubnetIDs        []string `yaml:"subnet_ids" validate:"required,min=1,dive,required"`
	SecurityGroupIDs []string `yaml:"security_group_ids" validate:"required,min=1,dive,required"`

	// WorkBucketName is the bare bucket name for the pipeline work directory,
	// without an s3:// scheme prefix.
	WorkBucketName string `yaml:"work_bucket_name" validate:"required,bucket_name"`
	// WorkDirPath is the key prefix inside the work bucket.
	WorkDirPath string `yaml:"work_dir_path"`
	// AdditionalBucketARNs lists extra buckets jobs may read and write.
	AdditionalBucketARNs []string `yaml:"additional_bucket_arns" validate:"dive,required"`

	HeadMinVcpus    int      `yaml:"head_min_vcpus" validate:"min=0"`
	HeadMaxVcpus    int      `yaml:"head_max_vcpus" validate:"min=0"`
	ComputeMinVcpus int      `yaml:"compute_min_vcpus" validate:"min=0"`
	ComputeMaxVcpus int      `yaml:"compute_max_vcpus" validate:"min=0"`
	InstanceTypes   []string `yaml:"instance_types" validate:"min=1,dive,required"`
	AMIID           string   `yaml:"ami_id"`
	EC2KeyPair      string   `yaml:"ec2_key_pair"`

	UseSpotInstances  bool `yaml:"use_spot_instances"`
	SpotBidPercentage int  `yaml:"spot_bid_percentage" validate:"min=1,max=100"`
	// AllocationStrategy is the requested strategy; the effective strategy a
	// compute environment receives may differ, see Names.EffectiveStrategy.
	AllocationStrategy AllocationStrategy `yaml:"allocation_strategy" validate:"oneof=BEST_FIT BEST_FIT_PROGRESSIVE SPOT_CAPACITY_OPTIMIZED SPOT_PRICE_CAPACITY_OPTIMIZED"`

	PlatformServerURL       string `yaml:"platform_server_url" validate:"required,url"`
	PlatformAccessToken     string `yaml:"platform_access_token" validate:"required"`
	PlatformWorkspaceID     int64  `yaml:"platform_workspace_id" validate:"required"`
	PlatformCredentialsName string `yaml:"platform_credentials_name"`
	PlatformEnvName         string `yaml:"platform_env_name"`
	PlatformEnvDescription  string `yaml:"platform_env_description"`

	HeadJobCpus     int    `yaml:"head_job_cpus" validate:"min=0"`
	HeadJobMemoryMb int    `yaml:"head_job_memory_mb" validate:"min=0"`
	EnableWave      bool   `yaml:"enable_wave"`
	EnableFusion    bool   `yaml:"enable_fusion"`
	PreRunScript    string `yaml:"pre_run_script"`
	PostRunScript   string `yaml:"post_run_script"`
	ExtraConfig     string `yaml:"extra_config"`

	Tags map[string]string `yaml:"tags"`
}

// Default returns a Config populated with every defaultable field so a YAML
// document only needs to set what it wants to change.
func Default() Config {
	return Config{
		WorkDirPath:        "work",
		HeadMinVcpus:       0,
		HeadMaxVcpus:       128,
		ComputeMinVcpus:    0,
		ComputeMaxVcpus:    256,
		InstanceTypes:      []string{"c6id", "m6id", "r6id"},
		SpotBidPercentage:  100,
		AllocationStrategy: BestFitProgressive,
	}
}
