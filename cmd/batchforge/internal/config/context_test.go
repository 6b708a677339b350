package config_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/batchforge/batchforge/cmd/batchforge/internal/config"
)

func TestContext(t *testing.T) {
	t.Parallel()

	t.Run("WithContext and FromContext", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		cfg := config.Config{
			Doc:        config.Default(),
			ProjectDir: "/test/dir",
		}

		ctx = config.WithContext(ctx, cfg)
		got, ok := config.FromContext(ctx)

		if !ok {
			t.Fatal("expected config to be found")
		}
		if got.Doc.Version != cfg.Doc.Version {
			t.Errorf("expected version %q, got %q", cfg.Doc.Version, got.Doc.Version)
		}
		if got.ProjectDir != cfg.ProjectDir {
			t.Errorf("expected projectDir %q, got %q", cfg.ProjectDir, got.ProjectDir)
		}
	})

	t.Run("FromContext returns false when not set", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()

		_, ok := config.FromContext(ctx)
		if ok {
			t.Error("expected config to not be found")
		}
	})

	t.Run("Ensure returns existing config from context", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		cfg := config.Config{
			Doc:        config.Default(),
			ProjectDir: "/test/dir",
		}

		ctx = config.WithContext(ctx, cfg)
		newCtx, got, err := config.Ensure(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ProjectDir != cfg.ProjectDir {
			t.Errorf("expected projectDir %q, got %q", cfg.ProjectDir, got.ProjectDir)
		}
		if newCtx != ctx {
			t.Error("expected same context when config already present")
		}
	})

	t.Run("CDKOutDir sits under the project dir", func(t *testing.T) {
		t.Parallel()
		cfg := config.Config{ProjectDir: "/test/dir"}

		want := filepath.Join("/test/dir", "cdk.out")
		if got := cfg.CDKOutDir(); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	})
}
