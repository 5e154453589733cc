package copyexport

import (
	"strings"

	"shotexport/internal/config"
)

// Scope names the project and sequence a shot belongs to.
type Scope struct {
	Project  string
	Sequence string
}

// Policy is the export policy applied to every member of a task.
type Policy struct {
	ExportRoot     string
	CopyTemplate   string
	Handles        *int
	IncludeRetimes bool
	CustomStart    *int
	Version        string
	SkipOffline    bool
}

// PolicyFromConfig derives the copy policy from configuration.
func PolicyFromConfig(cfg *config.Config) Policy {
	return Policy{
		ExportRoot:     strings.TrimSpace(cfg.Paths.ExportRoot),
		CopyTemplate:   cfg.Export.CopyTemplate,
		Handles:        cfg.Handles(),
		IncludeRetimes: cfg.Export.IncludeRetimes,
		CustomStart:    cfg.CustomStartFrame(),
		Version:        cfg.VersionString(),
		SkipOffline:    cfg.Export.SkipOffline,
	}
}
