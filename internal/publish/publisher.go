package publish

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"shotexport/internal/logging"
	"shotexport/internal/services"
)

// Sink persists publish data.
type Sink interface {
	// EnsureShot returns the shot entity, creating or updating it as needed.
	EnsureShot(ctx context.Context, shot ShotRef) (Entity, error)
	FindTasks(ctx context.Context, shot Entity, filter string) ([]Entity, error)
	RegisterPublish(ctx context.Context, record PublishRecord) (Entity, error)
	CreateVersion(ctx context.Context, record VersionRecord) (Entity, error)
}

// Options controls what the publisher records.
type Options struct {
	Enabled       bool
	CreateVersion bool
	Project       string
	PlateType     string
	ScriptType    string
	TaskFilter    string
}

// Result summarises the rows created for one file.
type Result struct {
	Publish Entity
	Version *Entity
}

// Publisher turns export results into publish records.
type Publisher struct {
	sink   Sink
	opts   Options
	logger *slog.Logger
	upper  cases.Caser
	lower  cases.Caser
}

// NewPublisher constructs a publisher. A nil sink or disabled options yield a
// publisher whose methods do nothing.
func NewPublisher(sink Sink, opts Options, logger *slog.Logger) *Publisher {
	return &Publisher{
		sink:   sink,
		opts:   opts,
		logger: logging.NewComponentLogger(logger, "publish"),
		upper:  cases.Upper(language.Und),
		lower:  cases.Lower(language.Und),
	}
}

// Enabled reports whether publishes are recorded.
func (p *Publisher) Enabled() bool {
	return p != nil && p.sink != nil && p.opts.Enabled
}

// PublishPlate records an exported frame sequence against the hero shot and,
// when configured, a version pointing at the frames.
func (p *Publisher) PublishPlate(ctx context.Context, shot ShotRef, path string, versionNumber int) (Result, error) {
	if !p.Enabled() {
		return Result{}, nil
	}
	shotEntity, task, err := p.resolveShot(ctx, shot)
	if err != nil {
		return Result{}, err
	}

	pub, err := p.sink.RegisterPublish(ctx, p.publishRecord(ctx, path, versionNumber, p.opts.PlateType, shotEntity, task))
	if err != nil {
		return Result{}, services.Wrap(services.ErrTransient, "publish", "register plate",
			fmt.Sprintf("shot %s: %s", shot.Name, path), err)
	}
	result := Result{Publish: pub}

	if p.opts.CreateVersion {
		version := VersionRecord{
			RunID:          runID(ctx),
			Code:           p.VersionCode(path),
			PathToFrames:   path,
			FirstFrame:     shot.HeadIn,
			LastFrame:      shot.TailOut,
			FrameRange:     fmt.Sprintf("%d-%d", shot.HeadIn, shot.TailOut),
			Project:        p.project(shot),
			Entity:         shotEntity,
			Task:           task,
			PublishedFiles: []Entity{pub},
		}
		created, err := p.sink.CreateVersion(ctx, version)
		if err != nil {
			return result, services.Wrap(services.ErrTransient, "publish", "create version",
				fmt.Sprintf("shot %s: %s", shot.Name, path), err)
		}
		result.Version = &created
	}

	logging.WithContext(ctx, p.logger).Debug("plate published",
		logging.String("path", path),
		logging.String("publish_id", pub.ID),
		logging.Bool("version_created", result.Version != nil),
	)
	return result, nil
}

// PublishScript records a composite script against the shot.
func (p *Publisher) PublishScript(ctx context.Context, shot ShotRef, path string, versionNumber int) (Result, error) {
	if !p.Enabled() {
		return Result{}, nil
	}
	shotEntity, task, err := p.resolveShot(ctx, shot)
	if err != nil {
		return Result{}, err
	}
	pub, err := p.sink.RegisterPublish(ctx, p.publishRecord(ctx, path, versionNumber, p.opts.ScriptType, shotEntity, task))
	if err != nil {
		return Result{}, services.Wrap(services.ErrTransient, "publish", "register script",
			fmt.Sprintf("shot %s: %s", shot.Name, path), err)
	}
	logging.WithContext(ctx, p.logger).Debug("script published",
		logging.String("path", path),
		logging.String("publish_id", pub.ID),
		logging.Int("version_number", versionNumber),
	)
	return Result{Publish: pub}, nil
}

// VersionCode derives a version code from a file path: the base name without
// extension, with the first letter upper-cased and the rest lower-cased.
func (p *Publisher) VersionCode(path string) string {
	base := filepath.Base(filepath.ToSlash(path))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" {
		return ""
	}
	_, size := utf8.DecodeRuneInString(base)
	return p.upper.String(base[:size]) + p.lower.String(base[size:])
}

func (p *Publisher) resolveShot(ctx context.Context, shot ShotRef) (Entity, *Entity, error) {
	if strings.TrimSpace(shot.Name) == "" {
		return Entity{}, nil, services.Wrap(services.ErrValidation, "publish", "resolve shot", "shot name is empty", nil)
	}
	shot.Project = p.project(shot)
	entity, err := p.sink.EnsureShot(ctx, shot)
	if err != nil {
		return Entity{}, nil, services.Wrap(services.ErrTransient, "publish", "resolve shot",
			fmt.Sprintf("shot %s", shot.Name), err)
	}
	tasks, err := p.sink.FindTasks(ctx, entity, p.opts.TaskFilter)
	if err != nil {
		logging.WithContext(ctx, p.logger).Warn("task lookup failed; continuing without task",
			logging.String("shot", shot.Name),
			logging.String("task_filter", p.opts.TaskFilter),
			logging.Error(err),
		)
		return entity, nil, nil
	}
	if len(tasks) != 1 {
		return entity, nil, nil
	}
	task := tasks[0]
	return entity, &task, nil
}

func (p *Publisher) publishRecord(ctx context.Context, path string, versionNumber int, fileType string, shot Entity, task *Entity) PublishRecord {
	return PublishRecord{
		RunID:             runID(ctx),
		Path:              path,
		Name:              filepath.Base(path),
		VersionNumber:     versionNumber,
		PublishedFileType: fileType,
		Entity:            shot,
		Task:              task,
	}
}

// project prefers the configured tracking project over the host project name.
func (p *Publisher) project(shot ShotRef) string {
	if p.opts.Project != "" {
		return p.opts.Project
	}
	return shot.Project
}

func runID(ctx context.Context) string {
	id, _ := services.RunIDFromContext(ctx)
	return id
}
