package testsupport

import (
	"path/filepath"
	"testing"

	"shotexport/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Handoff records stay in memory and publishing is off unless an option
// turns it on.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.ExportRoot = filepath.Join(base, "exports")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Handoff.Backend = config.HandoffMemory
	cfgVal.Publish.Enabled = false

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithHandles exports the cut plus the given handles on each side.
func WithHandles(handles int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Export.CutLength = true
		b.cfg.Export.CutUseHandles = true
		b.cfg.Export.CutHandles = handles
	}
}

// WithFullClip exports the whole source clip.
func WithFullClip() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Export.CutLength = false
	}
}

// WithSourceFrames keeps source frame numbers instead of a custom start.
func WithSourceFrames() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Export.StartFrameSource = config.StartFrameSource
	}
}

// WithPublishing enables publish and version records.
func WithPublishing() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Publish.Enabled = true
		b.cfg.Publish.CreateVersion = true
	}
}

// WithSQLiteHandoff stores handoff records in the state directory.
func WithSQLiteHandoff() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Handoff.Backend = config.HandoffSQLite
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
