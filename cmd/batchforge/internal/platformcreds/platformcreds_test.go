package platformcreds_test

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/cockroachdb/errors"

	"github.com/batchforge/batchforge/cmd/batchforge/internal/platformcreds"
)

type fakeAPI struct {
	createAccessKey func(*iam.CreateAccessKeyInput) (*iam.CreateAccessKeyOutput, error)
	getRole         func(*iam.GetRoleInput) (*iam.GetRoleOutput, error)
}

func (f *fakeAPI) CreateAccessKey(_ context.Context, params *iam.CreateAccessKeyInput,
	_ ...func(*iam.Options)) (*iam.CreateAccessKeyOutput, error) {
	return f.createAccessKey(params)
}

func (f *fakeAPI) GetRole(_ context.Context, params *iam.GetRoleInput,
	_ ...func(*iam.Options)) (*iam.GetRoleOutput, error) {
	return f.getRole(params)
}

func TestMintAccessKey(t *testing.T) {
	t.Parallel()

	t.Run("returns the minted pair", func(t *testing.T) {
		t.Parallel()

		var gotUser string
		svc := platformcreds.New(&fakeAPI{
			createAccessKey: func(in *iam.CreateAccessKeyInput) (*iam.CreateAccessKeyOutput, error) {
				gotUser = *in.UserName
				return &iam.CreateAccessKeyOutput{AccessKey: &types.AccessKey{
					AccessKeyId:     aws.String("AKIA123"),
					SecretAccessKey: aws.String("secret"),
				}}, nil
			},
		})

		pair, err := svc.MintAccessKey(t.Context(), "nf-core-platform-user")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotUser != "nf-core-platform-user" {
			t.Errorf("unexpected user %q", gotUser)
		}
		if pair.AccessKeyID != "AKIA123" || pair.SecretAccessKey != "secret" {
			t.Errorf("unexpected pair %+v", pair)
		}
	})

	t.Run("wraps API errors", func(t *testing.T) {
		t.Parallel()

		svc := platformcreds.New(&fakeAPI{
			createAccessKey: func(*iam.CreateAccessKeyInput) (*iam.CreateAccessKeyOutput, error) {
				return nil, errors.New("limit exceeded")
			},
		})

		_, err := svc.MintAccessKey(t.Context(), "u")
		if err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("rejects incomplete responses", func(t *testing.T) {
		t.Parallel()

		svc := platformcreds.New(&fakeAPI{
			createAccessKey: func(*iam.CreateAccessKeyInput) (*iam.CreateAccessKeyOutput, error) {
				return &iam.CreateAccessKeyOutput{}, nil
			},
		})

		_, err := svc.MintAccessKey(t.Context(), "u")
		if err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestRoleARN(t *testing.T) {
	t.Parallel()

	svc := platformcreds.New(&fakeAPI{
		getRole: func(in *iam.GetRoleInput) (*iam.GetRoleOutput, error) {
			return &iam.GetRoleOutput{Role: &types.Role{
				Arn: aws.String("arn:aws:iam::123456789012:role/" + *in.RoleName),
			}}, nil
		},
	})

	arn, err := svc.RoleARN(t.Context(), "nf-core-head-role")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if arn != "arn:aws:iam::123456789012:role/nf-core-head-role" {
		t.Errorf("unexpected arn %q", arn)
	}
}
