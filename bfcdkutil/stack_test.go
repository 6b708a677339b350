package bfcdkutil_test

import (
	"testing"

	"github.com/batchforge/batchforge/bfcdkutil"
)

func TestSortedKeys(t *testing.T) {
	t.Parallel()

	tags := map[string]string{
		"Name":      "nf-core",
		"ManagedBy": "terraform",
		"Module":    "batchforge/aws-batch",
		"env":       "prod",
	}

	got := bfcdkutil.SortedKeys(tags)
	want := []string{"ManagedBy", "Module", "Name", "env"}
	if len(got) != len(want) {
		t.Fatalf("expected %d keys, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("key %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestTagMap(t *testing.T) {
	t.Parallel()

	converted := bfcdkutil.TagMap(map[string]string{"Name": "nf-core"})
	if converted == nil {
		t.Fatal("expected a map")
	}
	val, ok := (*converted)["Name"]
	if !ok || val == nil || *val != "nf-core" {
		t.Errorf("unexpected conversion: %+v", *converted)
	}
}

func TestStringSlicePtr(t *testing.T) {
	t.Parallel()

	converted := bfcdkutil.StringSlicePtr([]string{"subnet-a", "subnet-b"})
	if converted == nil || len(*converted) != 2 {
		t.Fatal("expected two entries")
	}
	if *(*converted)[0] != "subnet-a" || *(*converted)[1] != "subnet-b" {
		t.Errorf("unexpected conversion: %v", *converted)
	}
}
