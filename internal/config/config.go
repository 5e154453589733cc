package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	ExportRoot string `toml:"export_root"`
	StateDir   string `toml:"state_dir"`
	LogDir     string `toml:"log_dir"`
}

// Export contains the per-shot export policy.
type Export struct {
	// CopyTemplate is the frame-sequence destination, relative to export_root.
	// It must contain a frame placeholder (%04d or ####).
	CopyTemplate   string `toml:"copy_template"`
	ScriptTemplate string `toml:"script_template"`
	// CutLength exports only the cut (plus optional handles). When false the
	// full source clip is exported.
	CutLength        bool   `toml:"cut_length"`
	CutUseHandles    bool   `toml:"cut_use_handles"`
	CutHandles       int    `toml:"cut_handles"`
	IncludeRetimes   bool   `toml:"include_retimes"`
	StartFrameSource string `toml:"start_frame_source"`
	StartFrame       int    `toml:"start_frame"`
	Version          int    `toml:"version"`
	VersionPadding   int    `toml:"version_padding"`
	SkipOffline      bool   `toml:"skip_offline"`

	// WriteNodes become write-node placeholders in exported scripts.
	WriteNodes []WriteNode `toml:"write_nodes"`
}

// WriteNode names a pipeline write node and its output channel.
type WriteNode struct {
	Name   string `toml:"name"`
	Output string `toml:"output"`
}

// Publish contains tracking-database publish settings.
type Publish struct {
	Enabled                 bool   `toml:"enabled"`
	CreateVersion           bool   `toml:"create_version"`
	Project                 string `toml:"project"`
	PlatePublishedFileType  string `toml:"plate_published_file_type"`
	ScriptPublishedFileType string `toml:"script_published_file_type"`
	// TaskFilter names the task attached to publishes. A task is only
	// attached when exactly one task on the shot matches.
	TaskFilter string `toml:"task_filter"`
}

// Handoff contains configuration for the cross-stage handoff store.
type Handoff struct {
	Backend  string `toml:"backend"`
	TTLHours int    `toml:"ttl_hours"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for shotexport.
//
// Configuration sections by subsystem:
//   - Paths: export root, state (databases, locks) and log directories
//   - Export: templates, cut handles, retimes, start frame, versioning
//   - Publish: tracking-database publish and version records
//   - Handoff: backend and expiry for the cross-stage handoff store
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Export  Export  `toml:"export"`
	Publish Publish `toml:"publish"`
	Handoff Handoff `toml:"handoff"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/shotexport/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("shotexport.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state and log directories. The export root is
// created on a best-effort basis so collate inspection works while production
// storage is offline.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.ExportRoot) != "" {
		_ = os.MkdirAll(c.Paths.ExportRoot, 0o755)
	}
	return nil
}

// Handles returns the cut-handle policy: nil exports the full source clip,
// otherwise the value is the handle count in timeline frames.
func (c *Config) Handles() *int {
	if !c.Export.CutLength {
		return nil
	}
	handles := 0
	if c.Export.CutUseHandles {
		handles = c.Export.CutHandles
	}
	return &handles
}

// CustomStartFrame returns the first destination frame when the start frame
// source is custom, or nil to keep source frame numbers.
func (c *Config) CustomStartFrame() *int {
	if c.Export.StartFrameSource != StartFrameCustom {
		return nil
	}
	start := c.Export.StartFrame
	return &start
}

// VersionString formats the configured version number with its padding, e.g. v001.
func (c *Config) VersionString() string {
	return fmt.Sprintf("v%0*d", c.Export.VersionPadding, c.Export.Version)
}

// HandoffDBPath returns the SQLite file backing the handoff store.
func (c *Config) HandoffDBPath() string {
	return filepath.Join(c.Paths.StateDir, "handoff.db")
}

// LedgerDBPath returns the SQLite file backing the local publish ledger.
func (c *Config) LedgerDBPath() string {
	return filepath.Join(c.Paths.StateDir, "ledger.db")
}

// RunLockPath returns the lock file guarding a single export run at a time.
func (c *Config) RunLockPath() string {
	return filepath.Join(c.Paths.StateDir, "export.lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
