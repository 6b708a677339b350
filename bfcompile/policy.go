package bfcompile

// Fixed scopes baked into the permission catalog. These are deliberately not
// configurable: the log-group pattern matches what AWS Batch creates for job
// streams, and the secret prefix matches the naming convention the platform
// uses for pipeline secrets.
const (
	policyVersion   = "2012-10-17"
	logGroupPattern = "arn:aws:logs:*:*:log-group:/aws/batch/*:*"
	secretPattern   = "arn:aws:secretsmanager:*:*:secret:tower-*"
)

// Effect is the allow/deny disposition of a policy statement.
type Effect string

const (
	Allow Effect = "Allow"
	Deny  Effect = "Deny"
)

// Resource is a single resource reference in a policy statement: either a
// literal ARN (possibly a pattern), or a reference by name to a role this
// deployment creates. Role references are resolved to concrete role ARNs by
// the provisioning layer; when a document is serialized standalone they fall
// back to an account-agnostic ARN pattern.
type Resource struct {
	ARN  string
	Role string
}

// LiteralARN references a resource by ARN or ARN pattern.
func LiteralARN(arn string) Resource {
	return Resource{ARN: arn}
}

// RoleRef references one of this deployment's roles by name.
func RoleRef(name string) Resource {
	return Resource{Role: name}
}

// Pattern renders the reference as an ARN pattern without knowing the target
// account.
func (r Resource) Pattern() string {
	if r.Role != "" {
		return "arn:aws:iam::*:role/" + r.Role
	}
	return r.ARN
}

// Statement is one ordered entry of a policy document.
type Statement struct {
	Sid       string
	Effect    Effect
	Actions   []string
	Resources []Resource
}

// Document is a named, ordered IAM policy document built programmatically so
// its shape is checked at compile time rather than assembled from strings.
type Document struct {
	Name       string
	Statements []Statement
}

// AsPolicyJSON renders the document as the generic structure expected by IAM,
// with role references rendered as account-agnostic patterns. The provisioning
// layer resolves role references itself and does not use this rendering.
func (d Document) AsPolicyJSON() map[string]any {
	stmts := make([]map[string]any, 0, len(d.Statements))
	for _, s := range d.Statements {
		resources := make([]string, 0, len(s.Resources))
		for _, r := range s.Resources {
			resources = append(resources, r.Pattern())
		}
		stmts = append(stmts, map[string]any{
			"Sid":      s.Sid,
			"Effect":   string(s.Effect),
			"Action":   s.Actions,
			"Resource": resources,
		})
	}
	return map[string]any{
		"Version":   policyVersion,
		"Statement": stmts,
	}
}

// Policies is the full set of permission documents for one deployment.
type Policies struct {
	// Job grants the data-plane permissions every pipeline task needs. It is
	// attached to both the instance role and the task role by reference; the
	// two identities share one document, not two copies.
	Job Document
	// Head extends the job permissions with workflow control, introspection,
	// secret access and the delegation grants the head job needs.
	Head Document
	// PassRole is attached to the platform user so the platform can hand the
	// head, task and execution roles to AWS Batch on submission.
	PassRole Document
}

// delegatableRoles is the single source of truth for the identities the head
// job may hand to the container orchestrator. Both the head policy's
// delegation statement and the platform pass-role policy derive from this
// list, so they cannot drift apart.
func delegatableRoles(names Names) []Resource {
	return []Resource{
		RoleRef(names.TaskRoleName),
		RoleRef(names.ExecutionRoleName),
	}
}

// BuildPolicies assembles the three permission documents from the validated
// config and its derived names. It is total: any validated input yields a
// well-formed document set, including the degenerate empty-resource cases.
func BuildPolicies(cfg Config, names Names) Policies {
	bucketARNs := make([]Resource, 0, len(names.AllBucketARNs))
	objectARNs := make([]Resource, 0, len(names.AllBucketARNs))
	for _, arn := range names.AllBucketARNs {
		bucketARNs = append(bucketARNs, LiteralARN(arn))
		objectARNs = append(objectARNs, LiteralARN(arn+"/*"))
	}

	job := Document{
		Name: names.JobPolicyName,
		Statements: []Statement{
			{
				Sid:       "BucketAccess",
				Effect:    Allow,
				Actions:   []string{"s3:ListBucket", "s3:GetBucketLocation"},
				Resources: bucketARNs,
			},
			{
				Sid:       "ObjectAccess",
				Effect:    Allow,
				Actions:   []string{"s3:GetObject", "s3:PutObject", "s3:DeleteObject"},
				Resources: objectARNs,
			},
			{
				Sid:    "JobLogs",
				Effect: Allow,
				Actions: []string{
					"logs:CreateLogStream",
					"logs:PutLogEvents",
					"logs:DescribeLogStreams",
				},
				Resources: []Resource{LiteralARN(logGroupPattern)},
			},
		},
	}

	head := Document{
		Name: names.HeadPolicyName,
		Statements: []Statement{
			{
				Sid:    "WorkflowControl",
				Effect: Allow,
				Actions: []string{
					"batch:SubmitJob",
					"batch:CancelJob",
					"batch:TerminateJob",
					"batch:RegisterJobDefinition",
					"batch:DescribeJobDefinitions",
					"batch:DescribeJobQueues",
					"batch:DescribeComputeEnvironments",
					"batch:DescribeJobs",
					"batch:ListJobs",
					"batch:TagResource",
				},
				Resources: []Resource{LiteralARN("*")},
			},
			{
				Sid:    "TaskIntrospection",
				Effect: Allow,
				Actions: []string{
					"ecs:DescribeTasks",
					"ecs:DescribeContainerInstances",
					"ecs:DescribeTaskDefinition",
					"ec2:DescribeInstances",
					"ec2:DescribeInstanceAttribute",
					"ec2:DescribeInstanceStatus",
					"ec2:DescribeInstanceTypes",
				},
				Resources: []Resource{LiteralARN("*")},
			},
			{
				Sid:    "LogRetrieval",
				Effect: Allow,
				Actions: []string{
					"logs:GetLogEvents",
					"logs:DescribeLogGroups",
					"logs:DescribeLogStreams",
				},
				Resources: []Resource{LiteralARN(logGroupPattern)},
			},
			{
				Sid:    "PipelineSecretsRead",
				Effect: Allow,
				Actions: []string{
					"secretsmanager:GetSecretValue",
					"secretsmanager:DescribeSecret",
				},
				Resources: []Resource{LiteralARN(secretPattern)},
			},
			{
				Sid:       "PipelineSecretsDecrypt",
				Effect:    Allow,
				Actions:   []string{"kms:Decrypt", "kms:DescribeKey"},
				Resources: []Resource{LiteralARN("*")},
			},
			{
				// Delegation names the two downstream identities explicitly.
				// A wildcard here would let the head job escalate to any role
				// in the account.
				Sid:       "DelegateTaskRoles",
				Effect:    Allow,
				Actions:   []string{"iam:PassRole"},
				Resources: delegatableRoles(names),
			},
		},
	}

	passRoleTargets := append(
		[]Resource{RoleRef(names.HeadRoleName)}, delegatableRoles(names)...)

	passRole := Document{
		Name: names.PassRolePolicyName,
		Statements: []Statement{
			{
				Sid:       "PassDeploymentRoles",
				Effect:    Allow,
				Actions:   []string{"iam:PassRole"},
				Resources: passRoleTargets,
			},
		},
	}

	return Policies{Job: job, Head: head, PassRole: passRole}
}
