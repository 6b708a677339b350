// Package bfcdkbatch creates the compute fleet of a batchforge deployment:
// the EC2 launch template carrying the bootstrap payload, the head and
// compute managed compute environments, and the job queues bound to them.
//
// The head environment always runs On-Demand so the workflow head job cannot
// be reclaimed mid-run; the spot/On-Demand branching and the effective
// allocation strategy from the compiled plan only apply to the compute
// environment that runs the pipeline tasks.
package bfcdkbatch

import (
	"encoding/base64"

	"github.com/aws/aws-cdk-go/awscdk/v2/awsbatch"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsec2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/batchforge/batchforge/bfcdk/bfcdkiam"
	"github.com/batchforge/batchforge/bfcdkutil"
	"github.com/batchforge/batchforge/bfcompile"
)

// Fleet provides access to the created compute resources.
type Fleet interface {
	// HeadQueue routes workflow head jobs.
	HeadQueue() awsbatch.CfnJobQueue

	// ComputeQueue routes pipeline task jobs.
	ComputeQueue() awsbatch.CfnJobQueue
}

// Props configures the Fleet construct.
type Props struct {
	// Identities supplies the roles and the instance profile the fleet runs
	// under.
	Identities bfcdkiam.Identities
}

type fleet struct {
	headQueue    awsbatch.CfnJobQueue
	computeQueue awsbatch.CfnJobQueue
}

// New creates the launch template, both compute environments and both queues
// from the compiled plan stored in the construct tree.
func New(scope constructs.Construct, props Props) Fleet {
	scope = constructs.NewConstruct(scope, jsii.String("Fleet"))
	out := bfcdkutil.OutputFromScope(scope)
	cfg, names := out.Config, out.Names

	launchTemplate := newLaunchTemplate(scope, out)

	headEnv := newComputeEnvironment(scope, "HeadEnvironment", envSpec{
		name:     names.HeadEnvName,
		minVcpus: cfg.HeadMinVcpus,
		maxVcpus: cfg.HeadMaxVcpus,
		// The head job must not be reclaimed mid-run, so its environment
		// stays On-Demand with the requested strategy passed through.
		spot:     false,
		strategy: cfg.AllocationStrategy,
	}, out, props.Identities, launchTemplate)

	computeEnv := newComputeEnvironment(scope, "ComputeEnvironment", envSpec{
		name:     names.ComputeEnvName,
		minVcpus: cfg.ComputeMinVcpus,
		maxVcpus: cfg.ComputeMaxVcpus,
		spot:     cfg.UseSpotInstances,
		strategy: names.EffectiveStrategy,
	}, out, props.Identities, launchTemplate)

	con := &fleet{
		headQueue:    newJobQueue(scope, "HeadQueue", names.HeadQueueName, headEnv, out),
		computeQueue: newJobQueue(scope, "ComputeQueue", names.ComputeQueueName, computeEnv, out),
	}

	return con
}

func newLaunchTemplate(scope constructs.Construct, out *bfcompile.Output) awsec2.CfnLaunchTemplate {
	data := &awsec2.CfnLaunchTemplate_LaunchTemplateDataProperty{
		UserData: jsii.String(base64.StdEncoding.EncodeToString([]byte(out.Bootstrap.Script))),
	}
	if out.Config.AMIID != "" {
		data.ImageId = jsii.String(out.Config.AMIID)
	}
	if out.Config.EC2KeyPair != "" {
		data.KeyName = jsii.String(out.Config.EC2KeyPair)
	}

	return awsec2.NewCfnLaunchTemplate(scope, jsii.String("LaunchTemplate"),
		&awsec2.CfnLaunchTemplateProps{
			LaunchTemplateName: jsii.String(out.Names.LaunchTemplateName),
			LaunchTemplateData: data,
		})
}

type envSpec struct {
	name     string
	minVcpus int
	maxVcpus int
	spot     bool
	strategy bfcompile.AllocationStrategy
}

func newComputeEnvironment(
	scope constructs.Construct, id string, spec envSpec,
	out *bfcompile.Output, ids bfcdkiam.Identities, lt awsec2.CfnLaunchTemplate,
) awsbatch.CfnComputeEnvironment {
	resources := &awsbatch.CfnComputeEnvironment_ComputeResourcesProperty{
		Type:               jsii.String("EC2"),
		AllocationStrategy: jsii.String(string(spec.strategy)),
		MinvCpus:           jsii.Number(float64(spec.minVcpus)),
		MaxvCpus:           jsii.Number(float64(spec.maxVcpus)),
		InstanceTypes:      bfcdkutil.StringSlicePtr(out.Config.InstanceTypes),
		InstanceRole:       ids.InstanceProfileArn(),
		Subnets:            bfcdkutil.StringSlicePtr(out.Config.SubnetIDs),
		SecurityGroupIds:   bfcdkutil.StringSlicePtr(out.Config.SecurityGroupIDs),
		LaunchTemplate: &awsbatch.CfnComputeEnvironment_LaunchTemplateSpecificationProperty{
			LaunchTemplateId: lt.Ref(),
			Version:          lt.AttrLatestVersionNumber(),
		},
	}

	if spec.spot {
		resources.Type = jsii.String("SPOT")
		resources.BidPercentage = jsii.Number(float64(out.Config.SpotBidPercentage))
		resources.SpotIamFleetRole = ids.SpotFleetRole().RoleArn()
	}

	return awsbatch.NewCfnComputeEnvironment(scope, jsii.String(id),
		&awsbatch.CfnComputeEnvironmentProps{
			ComputeEnvironmentName: jsii.String(spec.name),
			Type:                   jsii.String("MANAGED"),
			State:                  jsii.String("ENABLED"),
			ServiceRole:            ids.BatchServiceRole().RoleArn(),
			ComputeResources:       resources,
			Tags:                   bfcdkutil.TagMap(out.Names.Tags),
		})
}

func newJobQueue(
	scope constructs.Construct, id, name string,
	env awsbatch.CfnComputeEnvironment, out *bfcompile.Output,
) awsbatch.CfnJobQueue {
	return awsbatch.NewCfnJobQueue(scope, jsii.String(id), &awsbatch.CfnJobQueueProps{
		JobQueueName: jsii.String(name),
		State:        jsii.String("ENABLED"),
		Priority:     jsii.Number(1),
		ComputeEnvironmentOrder: &[]*awsbatch.CfnJobQueue_ComputeEnvironmentOrderProperty{{
			ComputeEnvironment: env.Ref(),
			Order:              jsii.Number(1),
		}},
		Tags: bfcdkutil.TagMap(out.Names.Tags),
	})
}

func (f *fleet) HeadQueue() awsbatch.CfnJobQueue { return f.headQueue }

func (f *fleet) ComputeQueue() awsbatch.CfnJobQueue { return f.computeQueue }
