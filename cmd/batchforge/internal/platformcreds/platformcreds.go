// Package platformcreds mints the programmatic credential pair for the
// platform user and resolves deployment role ARNs through the AWS IAM API.
package platformcreds

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/cockroachdb/errors"
)

// API is the subset of the IAM client this package uses.
type API interface {
	CreateAccessKey(ctx context.Context, params *iam.CreateAccessKeyInput,
		optFns ...func(*iam.Options)) (*iam.CreateAccessKeyOutput, error)
	GetRole(ctx context.Context, params *iam.GetRoleInput,
		optFns ...func(*iam.Options)) (*iam.GetRoleOutput, error)
}

// KeyPair is a freshly minted programmatic credential pair. The secret is only
// available at creation time and is forwarded to the platform immediately,
// never stored by batchforge.
type KeyPair struct {
	AccessKeyID     string
	SecretAccessKey string
}

type Service struct {
	api API
}

func New(api API) *Service {
	return &Service{api: api}
}

func NewFromConfig(cfg aws.Config) *Service {
	return New(iam.NewFromConfig(cfg))
}

// MintAccessKey creates a new access key for the given user.
func (s *Service) MintAccessKey(ctx context.Context, userName string) (KeyPair, error) {
	out, err := s.api.CreateAccessKey(ctx, &iam.CreateAccessKeyInput{
		UserName: aws.String(userName),
	})
	if err != nil {
		return KeyPair{}, errors.Wrapf(err, "failed to create access key for user %q", userName)
	}
	if out.AccessKey == nil || out.AccessKey.AccessKeyId == nil || out.AccessKey.SecretAccessKey == nil {
		return KeyPair{}, errors.Newf("incomplete access key response for user %q", userName)
	}

	return KeyPair{
		AccessKeyID:     *out.AccessKey.AccessKeyId,
		SecretAccessKey: *out.AccessKey.SecretAccessKey,
	}, nil
}

// RoleARN resolves the ARN of a deployed role by its name.
func (s *Service) RoleARN(ctx context.Context, roleName string) (string, error) {
	out, err := s.api.GetRole(ctx, &iam.GetRoleInput{
		RoleName: aws.String(roleName),
	})
	if err != nil {
		return "", errors.Wrapf(err, "failed to look up role %q", roleName)
	}
	if out.Role == nil || out.Role.Arn == nil {
		return "", errors.Newf("incomplete role response for %q", roleName)
	}
	return *out.Role.Arn, nil
}
