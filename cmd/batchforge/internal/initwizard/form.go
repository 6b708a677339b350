package initwizard

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/cockroachdb/errors"
)

type FormBuilder interface {
	Build(defaultPrefix string, result *Result) *huh.Form
}

type formBuilder struct{}

func NewFormBuilder() FormBuilder {
	return &formBuilder{}
}

func (b *formBuilder) Build(defaultPrefix string, result *Result) *huh.Form {
	*result = DefaultResult(defaultPrefix)
	return huh.NewForm(
		huh.NewGroup(
			b.namePrefixInput(&result.NamePrefix),
			b.regionInput(&result.Region),
			b.workBucketInput(&result.WorkBucketName),
			b.subnetsInput(&result.SubnetIDs),
			b.securityGroupsInput(&result.SecurityGroupIDs),
			b.spotConfirm(&result.UseSpotInstances),
			b.platformServerInput(&result.PlatformServerURL),
			b.workspaceIDInput(&result.WorkspaceID),
		),
	)
}

func (b *formBuilder) namePrefixInput(value *string) *huh.Input {
	return huh.NewInput().
		Title("Name prefix").
		Description("Prepended to every AWS resource name").
		Value(value).
		Validate(ValidateNamePrefix)
}

func (b *formBuilder) regionInput(value *string) *huh.Input {
	return huh.NewInput().
		Title("AWS region").
		Description("Region the compute environment is created in").
		Value(value).
		Validate(requireValue("region"))
}

func (b *formBuilder) workBucketInput(value *string) *huh.Input {
	return huh.NewInput().
		Title("Work bucket").
		Description("Existing S3 bucket for the pipeline work directory (bare name, no s3://)").
		Value(value).
		Validate(ValidateWorkBucketName)
}

func (b *formBuilder) subnetsInput(value *[]string) *huh.Input {
	return commaSeparatedInput(value).
		Title("Subnet IDs").
		Description("Comma-separated list of subnets the fleet launches into")
}

func (b *formBuilder) securityGroupsInput(value *[]string) *huh.Input {
	return commaSeparatedInput(value).
		Title("Security group IDs").
		Description("Comma-separated list of security groups for the fleet")
}

func (b *formBuilder) spotConfirm(value *bool) *huh.Confirm {
	return huh.NewConfirm().
		Title("Use Spot instances?").
		Description("Runs pipeline tasks on Spot capacity; the head job stays On-Demand").
		Value(value)
}

func (b *formBuilder) platformServerInput(value *string) *huh.Input {
	return huh.NewInput().
		Title("Seqera Platform URL").
		Description("API endpoint of your Seqera Platform installation").
		Value(value).
		Validate(requireValue("platform server URL"))
}

func (b *formBuilder) workspaceIDInput(value *int64) *huh.Input {
	var raw string
	return huh.NewInput().
		Title("Workspace ID").
		Description("Numeric identifier of the target platform workspace").
		Value(&raw).
		Validate(func(s string) error {
			id, err := ParseWorkspaceID(s)
			if err != nil {
				return err
			}
			*value = id
			return nil
		})
}

// commaSeparatedInput binds a comma-separated text field to a string slice.
func commaSeparatedInput(value *[]string) *huh.Input {
	var raw string
	return huh.NewInput().
		Value(&raw).
		Validate(func(s string) error {
			parts := splitAndTrim(s)
			if len(parts) == 0 {
				return errors.New("at least one value is required")
			}
			*value = parts
			return nil
		})
}

func splitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

var namePrefixRegex = regexp.MustCompile(`^[a-z0-9-]+$`)

func ValidateNamePrefix(s string) error {
	if s == "" {
		return errors.New("name prefix is required")
	}
	if len(s) > 32 {
		return errors.New("name prefix must be 32 characters or less")
	}
	if !namePrefixRegex.MatchString(s) {
		return errors.New("use lowercase letters, numbers, and hyphens only")
	}
	return nil
}

func ValidateWorkBucketName(s string) error {
	if s == "" {
		return errors.New("work bucket name is required")
	}
	if strings.HasPrefix(s, "s3://") {
		return errors.New("use the bare bucket name, without the s3:// prefix")
	}
	return nil
}

func ParseWorkspaceID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("workspace ID must be a positive number")
	}
	return id, nil
}

func requireValue(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.Newf("%s is required", what)
		}
		return nil
	}
}
