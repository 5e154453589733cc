package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateExport(); err != nil {
		return err
	}
	if err := c.validateHandoff(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.ExportRoot) == "" {
		return errors.New("paths.export_root must be set (or export SHOTEXPORT_EXPORT_ROOT)")
	}
	return nil
}

func (c *Config) validateExport() error {
	if c.Export.CopyTemplate == "" {
		return errors.New("export.copy_template must be set")
	}
	if !strings.Contains(c.Export.CopyTemplate, "%") && !strings.Contains(c.Export.CopyTemplate, "#") {
		return fmt.Errorf("export.copy_template %q must contain a frame placeholder (%%04d or ####)", c.Export.CopyTemplate)
	}
	if c.Export.ScriptTemplate == "" {
		return errors.New("export.script_template must be set")
	}
	if c.Export.CutHandles < 0 {
		return errors.New("export.cut_handles must be >= 0")
	}
	switch c.Export.StartFrameSource {
	case StartFrameCustom, StartFrameSource:
	default:
		return fmt.Errorf("export.start_frame_source must be %q or %q, got %q", StartFrameCustom, StartFrameSource, c.Export.StartFrameSource)
	}
	if c.Export.Version < 0 {
		return errors.New("export.version must be >= 0")
	}
	for idx, node := range c.Export.WriteNodes {
		if node.Name == "" || node.Output == "" {
			return fmt.Errorf("export.write_nodes[%d] needs both name and output", idx)
		}
	}
	return nil
}

func (c *Config) validateHandoff() error {
	switch c.Handoff.Backend {
	case HandoffSQLite, HandoffMemory:
		return nil
	default:
		return fmt.Errorf("handoff.backend must be %q or %q, got %q", HandoffSQLite, HandoffMemory, c.Handoff.Backend)
	}
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
}
