// Package bfcdkenv provides the aggregate construct for a full batchforge
// deployment.
//
// Environment wires the identity graph and the compute fleet in dependency
// order: identities first (the leaves of the resource graph), then the fleet
// referencing them. The queue and role identifiers the platform registration
// step needs are exported as CloudFormation outputs.
package bfcdkenv

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/batchforge/batchforge/bfcdk/bfcdkbatch"
	"github.com/batchforge/batchforge/bfcdk/bfcdkiam"
	"github.com/batchforge/batchforge/bfcdkutil"
)

// CloudFormation output keys for the values the register step reads back.
//
//	aws cloudformation describe-stacks --stack-name <stack> \
//	  --query 'Stacks[0].Outputs'
const (
	HeadQueueOutputKey    = "HeadQueueName"
	ComputeQueueOutputKey = "ComputeQueueName"
	HeadRoleOutputKey     = "HeadRoleArn"
	TaskRoleOutputKey     = "TaskRoleArn"
	ExecRoleOutputKey     = "ExecutionRoleArn"
	PlatformUserOutputKey = "PlatformUserName"
	WorkDirOutputKey      = "WorkDirURI"
)

// Environment provides access to the deployed resource groups.
type Environment interface {
	// Identities returns the identity graph construct.
	Identities() bfcdkiam.Identities

	// Fleet returns the compute fleet construct.
	Fleet() bfcdkbatch.Fleet
}

type environment struct {
	identities bfcdkiam.Identities
	fleet      bfcdkbatch.Fleet
}

// New creates the full deployment below the given stack.
func New(scope constructs.Construct) Environment {
	scope = constructs.NewConstruct(scope, jsii.String("Environment"))
	out := bfcdkutil.OutputFromScope(scope)

	con := &environment{}
	con.identities = bfcdkiam.New(scope)
	con.fleet = bfcdkbatch.New(scope, bfcdkbatch.Props{Identities: con.identities})

	stack := awscdk.Stack_Of(scope)
	outputs := []struct {
		key   string
		value *string
	}{
		{HeadQueueOutputKey, con.fleet.HeadQueue().JobQueueName()},
		{ComputeQueueOutputKey, con.fleet.ComputeQueue().JobQueueName()},
		{HeadRoleOutputKey, con.identities.HeadRole().RoleArn()},
		{TaskRoleOutputKey, con.identities.TaskRole().RoleArn()},
		{ExecRoleOutputKey, con.identities.ExecutionRole().RoleArn()},
		{PlatformUserOutputKey, con.identities.PlatformUser().UserName()},
		{WorkDirOutputKey, jsii.String(out.Names.WorkDirURI)},
	}
	for _, o := range outputs {
		awscdk.NewCfnOutput(stack, jsii.String(o.key), &awscdk.CfnOutputProps{
			Value: o.value,
		})
	}

	return con
}

func (e *environment) Identities() bfcdkiam.Identities { return e.identities }

func (e *environment) Fleet() bfcdkbatch.Fleet { return e.fleet }
