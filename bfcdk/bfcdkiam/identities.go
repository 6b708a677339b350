// Package bfcdkiam creates the identity graph of a batchforge deployment:
// the service, instance, head, task and execution roles, the optional spot
// fleet role, and the platform user that submits work on behalf of Seqera
// Platform.
//
// All permission documents come from the compiled plan; this package only
// resolves role references to the concrete roles it creates and attaches the
// documents. It never derives or widens permissions on its own.
package bfcdkiam

import (
	"fmt"

	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/batchforge/batchforge/bfcdkutil"
	"github.com/batchforge/batchforge/bfcompile"
)

// Identities provides access to the created IAM resources.
type Identities interface {
	// BatchServiceRole is assumed by the AWS Batch control plane.
	BatchServiceRole() awsiam.IRole

	// InstanceProfileArn is the profile attached to every compute instance.
	InstanceProfileArn() *string

	// SpotFleetRole returns the spot fleet tagging role, or nil when the
	// deployment runs On-Demand. Callers must handle the nil case explicitly.
	SpotFleetRole() awsiam.IRole

	// HeadRole is assumed by the workflow head job.
	HeadRole() awsiam.IRole

	// TaskRole is assumed by every pipeline task container.
	TaskRole() awsiam.IRole

	// ExecutionRole is used by the container agent to start tasks.
	ExecutionRole() awsiam.IRole

	// PlatformUser is the programmatic identity handed to Seqera Platform.
	PlatformUser() awsiam.IUser
}

type identities struct {
	batchServiceRole awsiam.IRole
	instanceProfile  awsiam.CfnInstanceProfile
	spotFleetRole    awsiam.IRole
	headRole         awsiam.IRole
	taskRole         awsiam.IRole
	executionRole    awsiam.IRole
	platformUser     awsiam.IUser
}

// New creates all identities for the compiled plan stored in the construct
// tree. Leaves are created first (task and execution roles), then the head
// role whose policy references them, then the platform user whose pass-role
// policy references all three.
func New(scope constructs.Construct) Identities {
	scope = constructs.NewConstruct(scope, jsii.String("Identities"))
	out := bfcdkutil.OutputFromScope(scope)
	names := out.Names

	con := &identities{}

	con.batchServiceRole = awsiam.NewRole(scope, jsii.String("BatchServiceRole"), &awsiam.RoleProps{
		RoleName:  jsii.String(names.BatchServiceRoleName),
		AssumedBy: awsiam.NewServicePrincipal(jsii.String("batch.amazonaws.com"), nil),
		ManagedPolicies: &[]awsiam.IManagedPolicy{
			awsiam.ManagedPolicy_FromAwsManagedPolicyName(
				jsii.String("service-role/AWSBatchServiceRole")),
		},
	})

	instanceRole := awsiam.NewRole(scope, jsii.String("InstanceRole"), &awsiam.RoleProps{
		RoleName:  jsii.String(names.InstanceRoleName),
		AssumedBy: awsiam.NewServicePrincipal(jsii.String("ec2.amazonaws.com"), nil),
		ManagedPolicies: &[]awsiam.IManagedPolicy{
			awsiam.ManagedPolicy_FromAwsManagedPolicyName(
				jsii.String("service-role/AmazonEC2ContainerServiceforEC2Role")),
		},
	})

	con.instanceProfile = awsiam.NewCfnInstanceProfile(scope, jsii.String("InstanceProfile"),
		&awsiam.CfnInstanceProfileProps{
			InstanceProfileName: jsii.String(names.InstanceProfileName),
			Roles:               &[]interface{}{instanceRole.RoleName()},
		})

	if out.Config.UseSpotInstances {
		con.spotFleetRole = awsiam.NewRole(scope, jsii.String("SpotFleetRole"), &awsiam.RoleProps{
			RoleName:  jsii.String(names.SpotFleetRoleName),
			AssumedBy: awsiam.NewServicePrincipal(jsii.String("spotfleet.amazonaws.com"), nil),
			ManagedPolicies: &[]awsiam.IManagedPolicy{
				awsiam.ManagedPolicy_FromAwsManagedPolicyName(
					jsii.String("service-role/AmazonEC2SpotFleetTaggingRole")),
			},
		})
	}

	ecsTasks := awsiam.NewServicePrincipal(jsii.String("ecs-tasks.amazonaws.com"), nil)

	con.taskRole = awsiam.NewRole(scope, jsii.String("TaskRole"), &awsiam.RoleProps{
		RoleName:  jsii.String(names.TaskRoleName),
		AssumedBy: ecsTasks,
	})

	con.executionRole = awsiam.NewRole(scope, jsii.String("ExecutionRole"), &awsiam.RoleProps{
		RoleName:  jsii.String(names.ExecutionRoleName),
		AssumedBy: ecsTasks,
		ManagedPolicies: &[]awsiam.IManagedPolicy{
			awsiam.ManagedPolicy_FromAwsManagedPolicyName(
				jsii.String("service-role/AmazonECSTaskExecutionRolePolicy")),
		},
	})

	con.headRole = awsiam.NewRole(scope, jsii.String("HeadRole"), &awsiam.RoleProps{
		RoleName:  jsii.String(names.HeadRoleName),
		AssumedBy: ecsTasks,
	})

	resolve := roleResolver(map[string]awsiam.IRole{
		names.HeadRoleName:      con.headRole,
		names.TaskRoleName:      con.taskRole,
		names.ExecutionRoleName: con.executionRole,
	})

	// One job policy document, attached by reference to every identity that
	// runs pipeline work.
	awsiam.NewManagedPolicy(scope, jsii.String("JobPolicy"), &awsiam.ManagedPolicyProps{
		ManagedPolicyName: jsii.String(names.JobPolicyName),
		Document:          policyDocument(out.Policies.Job, resolve),
		Roles:             &[]awsiam.IRole{instanceRole, con.taskRole, con.headRole},
	})

	awsiam.NewManagedPolicy(scope, jsii.String("HeadPolicy"), &awsiam.ManagedPolicyProps{
		ManagedPolicyName: jsii.String(names.HeadPolicyName),
		Document:          policyDocument(out.Policies.Head, resolve),
		Roles:             &[]awsiam.IRole{con.headRole},
	})

	con.platformUser = awsiam.NewUser(scope, jsii.String("PlatformUser"), &awsiam.UserProps{
		UserName: jsii.String(names.PlatformUserName),
	})

	passRolePolicy := awsiam.NewManagedPolicy(scope, jsii.String("PassRolePolicy"),
		&awsiam.ManagedPolicyProps{
			ManagedPolicyName: jsii.String(names.PassRolePolicyName),
			Document:          policyDocument(out.Policies.PassRole, resolve),
		})
	con.platformUser.AddManagedPolicy(passRolePolicy)

	return con
}

// roleResolver maps compiled role references onto the ARNs of the roles this
// construct created. An unknown reference is a programming defect in the
// policy builder, not a user error, so it panics.
func roleResolver(known map[string]awsiam.IRole) func(bfcompile.Resource) *string {
	return func(r bfcompile.Resource) *string {
		if r.Role == "" {
			return jsii.String(r.ARN)
		}
		role, ok := known[r.Role]
		if !ok {
			panic(fmt.Sprintf("bfcdkiam: policy references unknown role %q", r.Role))
		}
		return role.RoleArn()
	}
}

func policyDocument(doc bfcompile.Document, resolve func(bfcompile.Resource) *string) awsiam.PolicyDocument {
	stmts := make([]awsiam.PolicyStatement, 0, len(doc.Statements))
	for _, s := range doc.Statements {
		effect := awsiam.Effect_ALLOW
		if s.Effect == bfcompile.Deny {
			effect = awsiam.Effect_DENY
		}

		resources := make([]*string, 0, len(s.Resources))
		for _, r := range s.Resources {
			resources = append(resources, resolve(r))
		}

		stmts = append(stmts, awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
			Sid:       jsii.String(s.Sid),
			Effect:    effect,
			Actions:   bfcdkutil.StringSlicePtr(s.Actions),
			Resources: &resources,
		}))
	}

	return awsiam.NewPolicyDocument(&awsiam.PolicyDocumentProps{
		Statements: &stmts,
	})
}

func (c *identities) BatchServiceRole() awsiam.IRole { return c.batchServiceRole }

func (c *identities) InstanceProfileArn() *string { return c.instanceProfile.AttrArn() }

func (c *identities) SpotFleetRole() awsiam.IRole { return c.spotFleetRole }

func (c *identities) HeadRole() awsiam.IRole { return c.headRole }

func (c *identities) TaskRole() awsiam.IRole { return c.taskRole }

func (c *identities) ExecutionRole() awsiam.IRole { return c.executionRole }

func (c *identities) PlatformUser() awsiam.IUser { return c.platformUser }
