package initwizard_test

import (
	"strings"
	"testing"

	"github.com/batchforge/batchforge/cmd/batchforge/internal/initwizard"
)

func TestValidateNamePrefix(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid simple", input: "nf-core", wantErr: false},
		{name: "valid with digits", input: "pipeline2", wantErr: false},
		{name: "empty", input: "", wantErr: true},
		{name: "uppercase", input: "NfCore", wantErr: true},
		{name: "underscore", input: "nf_core", wantErr: true},
		{name: "too long", input: strings.Repeat("a", 33), wantErr: true},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := initwizard.ValidateNamePrefix(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNamePrefix(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateWorkBucketName(t *testing.T) {
	t.Parallel()

	if err := initwizard.ValidateWorkBucketName("my-bucket"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := initwizard.ValidateWorkBucketName(""); err == nil {
		t.Error("expected error for empty name")
	}
	if err := initwizard.ValidateWorkBucketName("s3://my-bucket"); err == nil {
		t.Error("expected error for s3:// prefix")
	}
}

func TestParseWorkspaceID(t *testing.T) {
	t.Parallel()

	id, err := initwizard.ParseWorkspaceID(" 12345 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 12345 {
		t.Errorf("unexpected id %d", id)
	}

	for _, bad := range []string{"", "abc", "-3", "0"} {
		if _, err := initwizard.ParseWorkspaceID(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}
