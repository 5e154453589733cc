package config

const (
	// StartFrameCustom numbers destination frames from export.start_frame.
	StartFrameCustom = "custom"
	// StartFrameSource keeps the source media frame numbers.
	StartFrameSource = "source"

	// HandoffSQLite persists handoff records in the state directory.
	HandoffSQLite = "sqlite"
	// HandoffMemory keeps handoff records in process for the run only.
	HandoffMemory = "memory"
)

const (
	defaultExportRoot              = "~/shotexport/exports"
	defaultStateDir                = "~/.local/share/shotexport"
	defaultLogDir                  = "~/.local/share/shotexport/logs"
	defaultCopyTemplate            = "{sequence}/{shot}/plates/{track}/{shot}_{track}_{version}.%04d.{ext}"
	defaultScriptTemplate          = "{sequence}/{shot}/nuke/{shot}_comp.{version}.nk"
	defaultCutHandles              = 12
	defaultStartFrame              = 1001
	defaultVersion                 = 1
	defaultVersionPadding          = 3
	defaultPlatePublishedFileType  = "Plate"
	defaultScriptPublishedFileType = "Nuke Script"
	defaultHandoffTTLHours         = 24
	defaultLogFormat               = "console"
	defaultLogLevel                = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ExportRoot: defaultExportRoot,
			StateDir:   defaultStateDir,
			LogDir:     defaultLogDir,
		},
		Export: Export{
			CopyTemplate:     defaultCopyTemplate,
			ScriptTemplate:   defaultScriptTemplate,
			CutLength:        true,
			CutUseHandles:    false,
			CutHandles:       defaultCutHandles,
			IncludeRetimes:   false,
			StartFrameSource: StartFrameCustom,
			StartFrame:       defaultStartFrame,
			Version:          defaultVersion,
			VersionPadding:   defaultVersionPadding,
			SkipOffline:      true,
		},
		Publish: Publish{
			Enabled:                 true,
			CreateVersion:           true,
			PlatePublishedFileType:  defaultPlatePublishedFileType,
			ScriptPublishedFileType: defaultScriptPublishedFileType,
		},
		Handoff: Handoff{
			Backend:  HandoffSQLite,
			TTLHours: defaultHandoffTTLHours,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
