package preflight_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"shotexport/internal/preflight"
	"shotexport/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := preflight.CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := preflight.CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := preflight.CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckTemplates(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if result := preflight.CheckTemplates(cfg); !result.Passed {
		t.Fatalf("default templates should pass: %s", result.Detail)
	}

	cfg.Export.CopyTemplate = "{shot}/{bogus}.%04d.exr"
	if result := preflight.CheckTemplates(cfg); result.Passed {
		t.Fatal("unknown token should fail")
	}

	cfg.Export.CopyTemplate = "{shot}/plate.exr"
	if result := preflight.CheckTemplates(cfg); result.Passed {
		t.Fatal("copy template without frame placeholder should fail")
	}
}

func TestRunAll(t *testing.T) {
	ctx := context.Background()
	cfg := testsupport.NewConfig(t, testsupport.WithSQLiteHandoff(), testsupport.WithPublishing())

	results := preflight.RunAll(ctx, cfg)
	if len(results) != 5 {
		t.Fatalf("expected 5 checks, got %d: %+v", len(results), results)
	}
	failed := preflight.Failed(results)
	if len(failed) != 2 {
		t.Fatalf("expected missing export root and state dir to fail, got %+v", failed)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	if failed := preflight.Failed(preflight.RunAll(ctx, cfg)); len(failed) != 0 {
		t.Fatalf("expected all checks to pass, got %+v", failed)
	}
}

func TestRunAllSkipsDisabledDatabases(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if results := preflight.RunAll(context.Background(), cfg); len(results) != 3 {
		t.Fatalf("expected only directory and template checks, got %+v", results)
	}
	if preflight.RunAll(context.Background(), nil) != nil {
		t.Fatal("nil config should yield no results")
	}
}
