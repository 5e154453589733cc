package scriptexport

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"shotexport/internal/config"
	"shotexport/internal/handoff"
	"shotexport/internal/logging"
	"shotexport/internal/pathtemplate"
	"shotexport/internal/services"
)

const (
	versionOneToken  = ".v001."
	versionZeroToken = ".v000."
)

// Options configures the script writer.
type Options struct {
	ExportRoot    string
	Template      string
	Version       string
	VersionNumber int
	WriteNodes    []WriteNode
}

// OptionsFromConfig derives writer options from configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	nodes := make([]WriteNode, 0, len(cfg.Export.WriteNodes))
	for _, node := range cfg.Export.WriteNodes {
		nodes = append(nodes, WriteNode{Name: node.Name, Output: node.Output})
	}
	return Options{
		ExportRoot:    cfg.Paths.ExportRoot,
		Template:      cfg.Export.ScriptTemplate,
		Version:       cfg.VersionString(),
		VersionNumber: cfg.Export.Version,
		WriteNodes:    nodes,
	}
}

// Shot identifies the shot a script is written for.
type Shot struct {
	ID       string
	Name     string
	Project  string
	Sequence string
	Track    string
}

// Output is one written script.
type Output struct {
	Path          string
	VersionNumber int
}

// Writer writes composite scripts from handoff records.
type Writer struct {
	opts     Options
	resolver pathtemplate.Resolver
	logger   *slog.Logger
}

// NewWriter constructs a writer. A nil resolver uses brace templates.
func NewWriter(opts Options, resolver pathtemplate.Resolver, logger *slog.Logger) *Writer {
	if resolver == nil {
		resolver = pathtemplate.Braces{}
	}
	return &Writer{opts: opts, resolver: resolver, logger: logging.NewComponentLogger(logger, "scriptexport")}
}

// Export fetches the shot's handoff record and writes its script, plus a
// version-zero copy when the script is a v001. A missing record aborts the
// shot with an error wrapping services.ErrNotFound.
func (w *Writer) Export(ctx context.Context, store handoff.Store, shot Shot) ([]Output, error) {
	record, err := store.Fetch(ctx, shot.ID)
	if err != nil {
		return nil, err
	}
	path, err := w.ScriptPath(shot)
	if err != nil {
		return nil, err
	}

	name := filepath.Base(path)
	content := Render(name, record, w.opts.WriteNodes)
	if err := writeScript(path, content); err != nil {
		return nil, services.Wrap(services.ErrTransient, "scriptexport", "write script",
			fmt.Sprintf("shot %s: %s", shot.ID, path), err)
	}
	outputs := []Output{{Path: path, VersionNumber: w.opts.VersionNumber}}
	logger := logging.WithContext(ctx, w.logger)
	logger.Info("script written",
		logging.String("path", path),
		logging.Int("reads", 1+len(record.UniqueOverlappingPaths())),
	)

	if !strings.Contains(name, versionOneToken) {
		logger.Debug("version zero skipped; script is not v001", logging.String("path", path))
		return outputs, nil
	}
	zeroName := strings.Replace(name, versionOneToken, versionZeroToken, 1)
	zeroPath := filepath.Join(filepath.Dir(path), zeroName)
	if err := writeScript(zeroPath, strings.ReplaceAll(content, name, zeroName)); err != nil {
		return outputs, services.Wrap(services.ErrTransient, "scriptexport", "write version zero",
			fmt.Sprintf("shot %s: %s", shot.ID, zeroPath), err)
	}
	logger.Info("version zero written", logging.String("path", zeroPath))
	return append(outputs, Output{Path: zeroPath, VersionNumber: 0}), nil
}

// ScriptPath resolves the script destination for a shot.
func (w *Writer) ScriptPath(shot Shot) (string, error) {
	name := shot.Name
	if strings.TrimSpace(name) == "" {
		name = shot.ID
	}
	rel, err := w.resolver.Resolve(pathtemplate.Tokens{
		Project:  shot.Project,
		Sequence: shot.Sequence,
		Shot:     name,
		Track:    shot.Track,
		Version:  w.opts.Version,
		Ext:      "nk",
	}, w.opts.Template)
	if err != nil {
		return "", fmt.Errorf("shot %s: %w", shot.ID, err)
	}
	return filepath.Join(w.opts.ExportRoot, filepath.FromSlash(rel)), nil
}

func writeScript(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create script directory: %w", err)
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
