package bfcompile_test

import (
	"strings"
	"testing"

	"github.com/batchforge/batchforge/bfcompile"
)

func TestSelectBootstrapVariant(t *testing.T) {
	t.Parallel()

	t.Run("cli variant has no disk handling", func(t *testing.T) {
		t.Parallel()

		cfg := validConfig()
		cfg.EnableFusion = false

		boot := bfcompile.SelectBootstrap(cfg)
		if boot.Variant != bfcompile.BootstrapCLI {
			t.Fatalf("expected cli variant, got %s", boot.Variant)
		}
		for _, forbidden := range []string{"lsblk", "vgcreate", "/scratch"} {
			if strings.Contains(boot.Script, forbidden) {
				t.Errorf("cli payload must not contain %q", forbidden)
			}
		}
	})

	t.Run("fusion variant aggregates nvme disks", func(t *testing.T) {
		t.Parallel()

		cfg := validConfig()
		cfg.EnableWave = true
		cfg.EnableFusion = true

		boot := bfcompile.SelectBootstrap(cfg)
		if boot.Variant != bfcompile.BootstrapFusion {
			t.Fatalf("expected fusion variant, got %s", boot.Variant)
		}
		for _, required := range []string{"lsblk", "/scratch", "mkfs.xfs"} {
			if !strings.Contains(boot.Script, required) {
				t.Errorf("fusion payload missing %q", required)
			}
		}
	})
}

// The fusion payload must prepare scratch space differently for a single disk
// (direct format and mount) and for multiple disks (striped logical volume
// first). Both branches have to exist in the static script, alongside the
// skip case for instance types without instance store.
func TestFusionPayloadDiskBranches(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.EnableWave = true
	cfg.EnableFusion = true
	script := bfcompile.SelectBootstrap(cfg).Script

	if !strings.Contains(script, "case \"${#disks[@]}\"") {
		t.Fatal("fusion payload does not branch on disk count")
	}
	if !strings.Contains(script, "0) ;;") {
		t.Error("fusion payload missing the zero-disk skip branch")
	}
	if !strings.Contains(script, "mount \"${disks[0]}\"") {
		t.Error("fusion payload missing the single-disk direct mount branch")
	}
	for _, step := range []string{"pvcreate", "vgcreate", "--type striped"} {
		if !strings.Contains(script, step) {
			t.Errorf("fusion payload missing multi-disk aggregation step %q", step)
		}
	}
}

func TestBothPayloadsFixRuntimeTuning(t *testing.T) {
	t.Parallel()

	for _, fusion := range []bool{false, true} {
		cfg := validConfig()
		cfg.EnableWave = fusion
		cfg.EnableFusion = fusion
		script := bfcompile.SelectBootstrap(cfg).Script

		for _, tuning := range []string{
			"ECS_CONTAINER_STOP_TIMEOUT=5m",
			"ECS_CONTAINER_START_TIMEOUT=10m",
			"vm.swappiness=10",
			"vm.dirty_ratio=20",
		} {
			if !strings.Contains(script, tuning) {
				t.Errorf("fusion=%v payload missing fixed tuning %q", fusion, tuning)
			}
		}
	}
}
