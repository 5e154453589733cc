package preflight

import (
	"context"

	"shotexport/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Export root", cfg.Paths.ExportRoot),
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
		CheckTemplates(cfg),
	}

	if cfg.Handoff.Backend == config.HandoffSQLite {
		results = append(results, CheckHandoffDatabase(ctx, cfg.HandoffDBPath()))
	}
	if cfg.Publish.Enabled {
		results = append(results, CheckLedgerDatabase(ctx, cfg.LedgerDBPath()))
	}

	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, result := range results {
		if !result.Passed {
			failed = append(failed, result)
		}
	}
	return failed
}
