package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeExport()
	c.normalizePublish()
	c.normalizeHandoff()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("SHOTEXPORT_EXPORT_ROOT"); ok && strings.TrimSpace(value) != "" {
		c.Paths.ExportRoot = value
	}
	var err error
	if c.Paths.ExportRoot, err = expandPath(c.Paths.ExportRoot); err != nil {
		return fmt.Errorf("paths.export_root: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeExport() {
	c.Export.CopyTemplate = strings.TrimSpace(c.Export.CopyTemplate)
	c.Export.ScriptTemplate = strings.TrimSpace(c.Export.ScriptTemplate)
	c.Export.StartFrameSource = strings.ToLower(strings.TrimSpace(c.Export.StartFrameSource))
	if c.Export.StartFrameSource == "" {
		c.Export.StartFrameSource = StartFrameCustom
	}
	if c.Export.VersionPadding <= 0 {
		c.Export.VersionPadding = defaultVersionPadding
	}
	nodes := c.Export.WriteNodes[:0]
	for _, node := range c.Export.WriteNodes {
		node.Name = strings.TrimSpace(node.Name)
		node.Output = strings.TrimSpace(node.Output)
		if node.Name == "" && node.Output == "" {
			continue
		}
		nodes = append(nodes, node)
	}
	c.Export.WriteNodes = nodes
}

func (c *Config) normalizePublish() {
	c.Publish.Project = strings.TrimSpace(c.Publish.Project)
	c.Publish.TaskFilter = strings.TrimSpace(c.Publish.TaskFilter)
	if strings.TrimSpace(c.Publish.PlatePublishedFileType) == "" {
		c.Publish.PlatePublishedFileType = defaultPlatePublishedFileType
	}
	if strings.TrimSpace(c.Publish.ScriptPublishedFileType) == "" {
		c.Publish.ScriptPublishedFileType = defaultScriptPublishedFileType
	}
}

func (c *Config) normalizeHandoff() {
	c.Handoff.Backend = strings.ToLower(strings.TrimSpace(c.Handoff.Backend))
	if c.Handoff.Backend == "" {
		c.Handoff.Backend = HandoffSQLite
	}
	if c.Handoff.TTLHours <= 0 {
		c.Handoff.TTLHours = defaultHandoffTTLHours
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
