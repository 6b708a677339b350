package bfcompile_test

import (
	"encoding/json"
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/batchforge/batchforge/bfcompile"
)

func compiledPolicies(t *testing.T, cfg bfcompile.Config) (bfcompile.Names, bfcompile.Policies) {
	t.Helper()

	if err := bfcompile.Validate(cfg); err != nil {
		t.Fatalf("config unexpectedly invalid: %v", err)
	}
	names := bfcompile.Derive(cfg)
	return names, bfcompile.BuildPolicies(cfg, names)
}

func statementBySid(t *testing.T, doc bfcompile.Document, sid string) bfcompile.Statement {
	t.Helper()

	for _, s := range doc.Statements {
		if s.Sid == sid {
			return s
		}
	}
	t.Fatalf("document %s has no statement %q", doc.Name, sid)
	return bfcompile.Statement{}
}

func TestJobPolicyScopesBucketAndObjectAccess(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.AdditionalBucketARNs = []string{"arn:aws:s3:::reference-data"}
	_, policies := compiledPolicies(t, cfg)

	buckets := statementBySid(t, policies.Job, "BucketAccess")
	wantBuckets := []string{"arn:aws:s3:::nf-core-work", "arn:aws:s3:::reference-data"}
	gotBuckets := make([]string, 0, len(buckets.Resources))
	for _, r := range buckets.Resources {
		gotBuckets = append(gotBuckets, r.Pattern())
	}
	if !reflect.DeepEqual(gotBuckets, wantBuckets) {
		t.Errorf("expected bucket resources %v, got %v", wantBuckets, gotBuckets)
	}

	objects := statementBySid(t, policies.Job, "ObjectAccess")
	for i, r := range objects.Resources {
		if r.Pattern() != wantBuckets[i]+"/*" {
			t.Errorf("expected object resource %q, got %q", wantBuckets[i]+"/*", r.Pattern())
		}
	}
}

func TestJobPolicyLogStatementUsesFixedLogGroupPattern(t *testing.T) {
	t.Parallel()

	_, policies := compiledPolicies(t, validConfig())

	logsStmt := statementBySid(t, policies.Job, "JobLogs")
	if len(logsStmt.Resources) != 1 {
		t.Fatalf("expected a single log resource, got %v", logsStmt.Resources)
	}
	if got := logsStmt.Resources[0].Pattern(); !strings.Contains(got, "log-group:/aws/batch/") {
		t.Errorf("log statement not scoped to the batch log group: %q", got)
	}
}

func TestHeadPolicyDelegationNamesRolesExplicitly(t *testing.T) {
	t.Parallel()

	names, policies := compiledPolicies(t, validConfig())

	delegation := statementBySid(t, policies.Head, "DelegateTaskRoles")
	if !reflect.DeepEqual(delegation.Actions, []string{"iam:PassRole"}) {
		t.Errorf("unexpected delegation actions %v", delegation.Actions)
	}

	wantRoles := []string{names.TaskRoleName, names.ExecutionRoleName}
	gotRoles := make([]string, 0, len(delegation.Resources))
	for _, r := range delegation.Resources {
		if r.Role == "" {
			t.Errorf("delegation resource must be a role reference, got literal %q", r.ARN)
			continue
		}
		gotRoles = append(gotRoles, r.Role)
	}
	if !reflect.DeepEqual(gotRoles, wantRoles) {
		t.Errorf("expected delegation roles %v, got %v", wantRoles, gotRoles)
	}
}

func TestHeadPolicySecretAccessIsPrefixScoped(t *testing.T) {
	t.Parallel()

	_, policies := compiledPolicies(t, validConfig())

	secrets := statementBySid(t, policies.Head, "PipelineSecretsRead")
	if len(secrets.Resources) != 1 {
		t.Fatalf("expected a single secret resource, got %v", secrets.Resources)
	}
	got := secrets.Resources[0].Pattern()
	if got == "*" || !strings.Contains(got, "secret:tower-") {
		t.Errorf("secret access must be scoped to the fixed prefix, got %q", got)
	}
}

// The pass-role policy must name exactly the identities the head policy can
// delegate, plus the head role itself. This is a structural invariant of the
// builder, not incidental equality.
func TestPassRolePolicyStaysInSyncWithHeadDelegation(t *testing.T) {
	t.Parallel()

	names, policies := compiledPolicies(t, validConfig())

	delegation := statementBySid(t, policies.Head, "DelegateTaskRoles")
	passRole := statementBySid(t, policies.PassRole, "PassDeploymentRoles")

	delegatable := make([]string, 0, len(delegation.Resources))
	for _, r := range delegation.Resources {
		delegatable = append(delegatable, r.Role)
	}

	passable := make([]string, 0, len(passRole.Resources))
	for _, r := range passRole.Resources {
		passable = append(passable, r.Role)
	}

	want := append([]string{names.HeadRoleName}, delegatable...)
	sort.Strings(want)
	sort.Strings(passable)
	if !reflect.DeepEqual(passable, want) {
		t.Errorf("pass-role targets %v diverged from head delegation set %v", passable, want)
	}
}

func TestBuildPoliciesWithoutAdditionalBuckets(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.AdditionalBucketARNs = nil
	names, policies := compiledPolicies(t, cfg)

	buckets := statementBySid(t, policies.Job, "BucketAccess")
	if len(buckets.Resources) != 1 || buckets.Resources[0].Pattern() != names.WorkBucketARN {
		t.Errorf("expected only the work bucket, got %v", buckets.Resources)
	}
}

func TestPolicyJSONRendering(t *testing.T) {
	t.Parallel()

	_, policies := compiledPolicies(t, validConfig())

	raw, err := json.Marshal(policies.PassRole.AsPolicyJSON())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var doc struct {
		Version   string
		Statement []struct {
			Sid      string
			Effect   string
			Action   []string
			Resource []string
		}
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("rendered policy is not valid JSON: %v", err)
	}

	if doc.Version != "2012-10-17" {
		t.Errorf("unexpected policy version %q", doc.Version)
	}
	if len(doc.Statement) != 1 {
		t.Fatalf("expected one statement, got %d", len(doc.Statement))
	}
	for _, res := range doc.Statement[0].Resource {
		if !strings.HasPrefix(res, "arn:aws:iam::") {
			t.Errorf("role reference rendered without ARN pattern: %q", res)
		}
	}
}
