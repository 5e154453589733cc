package preflight

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"shotexport/internal/config"
	"shotexport/internal/framepath"
	"shotexport/internal/handoff"
	"shotexport/internal/pathtemplate"
	"shotexport/internal/publish"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckTemplates resolves both export templates against sample tokens.
func CheckTemplates(cfg *config.Config) Result {
	const name = "Export templates"

	tokens := pathtemplate.Tokens{
		Project:  "project",
		Sequence: "sq010",
		Shot:     "sh010",
		Track:    "plate",
		Version:  cfg.VersionString(),
		Ext:      "exr",
	}
	resolver := pathtemplate.Braces{}
	plate, err := resolver.Resolve(tokens, cfg.Export.CopyTemplate)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("copy template: %v", err)}
	}
	if !framepath.HasFrameToken(plate) {
		return Result{Name: name, Detail: fmt.Sprintf("copy template %q has no frame placeholder", cfg.Export.CopyTemplate)}
	}
	script, err := resolver.Resolve(tokens, cfg.Export.ScriptTemplate)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("script template: %v", err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s, %s", plate, script)}
}

// CheckHandoffDatabase opens the handoff database and reports how many runs
// still hold records.
func CheckHandoffDatabase(ctx context.Context, path string) Result {
	const name = "Handoff store"

	backend, err := handoff.OpenSQLite(ctx, path)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	defer backend.Close()

	runs, err := backend.Runs(ctx)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d pending runs)", path, len(runs))}
}

// CheckLedgerDatabase opens the publish ledger.
func CheckLedgerDatabase(ctx context.Context, path string) Result {
	const name = "Publish ledger"

	ledger, err := publish.OpenLedger(ctx, path)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if err := ledger.Close(); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (ok)", path)}
}
