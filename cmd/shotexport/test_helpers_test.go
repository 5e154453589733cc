package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"shotexport/internal/config"
	"shotexport/internal/testsupport"
)

type cliTestEnv struct {
	cfg          *config.Config
	configPath   string
	snapshotPath string
	baseDir      string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	t.Setenv("SHOTEXPORT_EXPORT_ROOT", "")
	cfg := testsupport.NewConfig(t, append([]testsupport.ConfigOption{testsupport.WithHandles(2)}, opts...)...)
	cfg.Logging.Level = "error"
	base := testsupport.BaseDir(cfg)

	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	configPath := filepath.Join(base, "shotexport.toml")
	writeTestConfig(t, configPath, cfg)

	media := filepath.Join(base, "media")
	bg := filepath.Join(media, "bg.####.exr")
	fg := filepath.Join(media, "fg.####.exr")
	testsupport.WriteFrames(t, bg, 0, 40)
	testsupport.WriteFrames(t, fg, 0, 40)

	snapshotPath := testsupport.WriteSnapshot(t, filepath.Join(base, "timeline.json"), "falcon", "sq010",
		testsupport.Track{Name: "BG", Clips: []testsupport.Clip{
			{ID: "item-1", Name: "sh010", TimelineIn: 0, TimelineOut: 10, SourceIn: 5, SourceOut: 15, MediaOut: 40, Pattern: bg},
			{ID: "item-2", Name: "sh020", TimelineIn: 10, TimelineOut: 20, SourceIn: 20, SourceOut: 30, MediaOut: 40, Pattern: bg},
		}},
		testsupport.Track{Name: "FG", Clips: []testsupport.Clip{
			{ID: "item-3", Name: "fg", TimelineIn: 4, TimelineOut: 8, SourceIn: 10, SourceOut: 14, MediaOut: 40, Pattern: fg},
		}},
	)

	return &cliTestEnv{
		cfg:          cfg,
		configPath:   configPath,
		snapshotPath: snapshotPath,
		baseDir:      base,
	}
}

func (env *cliTestEnv) selectionArgs() []string {
	return []string{"--snapshot", env.snapshotPath, "--project", "falcon", "--sequence", "sq010", "--track", "BG"}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	testsupport.WriteFile(t, path, data)
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q\n%s", needle, haystack)
	}
}
