package exportrun

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"shotexport/internal/collate"
	"shotexport/internal/config"
	"shotexport/internal/copyexport"
	"shotexport/internal/handoff"
	"shotexport/internal/logging"
	"shotexport/internal/pathtemplate"
	"shotexport/internal/publish"
	"shotexport/internal/scriptexport"
	"shotexport/internal/services"
	"shotexport/internal/timeline"
)

const (
	stageCopy   = "copy"
	stageScript = "script"
)

// ErrRunInProgress reports that another run holds the export lock.
var ErrRunInProgress = errors.New("another export run is in progress")

// Request selects the track to export.
type Request struct {
	Project  string
	Sequence string
	Track    string
}

// Option customises a runner.
type Option func(*Runner)

// WithPublisher sets the publisher used for plates and scripts.
func WithPublisher(p *publish.Publisher) Option {
	return func(r *Runner) { r.publisher = p }
}

// WithResolver replaces the path template resolver.
func WithResolver(resolver pathtemplate.Resolver) Option {
	return func(r *Runner) {
		if resolver != nil {
			r.resolver = resolver
		}
	}
}

// WithCopier replaces the frame copier.
func WithCopier(copier copyexport.Copier) Option {
	return func(r *Runner) { r.copier = copier }
}

// WithRunIDs replaces the run id generator.
func WithRunIDs(next func() string) Option {
	return func(r *Runner) {
		if next != nil {
			r.newRunID = next
		}
	}
}

// Runner executes export runs.
type Runner struct {
	cfg       *config.Config
	host      timeline.Host
	backend   handoff.Backend
	publisher *publish.Publisher
	resolver  pathtemplate.Resolver
	copier    copyexport.Copier
	logger    *slog.Logger
	newRunID  func() string
}

// NewRunner constructs a runner over host, storing handoff records in backend.
func NewRunner(cfg *config.Config, host timeline.Host, backend handoff.Backend, logger *slog.Logger, opts ...Option) (*Runner, error) {
	if cfg == nil || host == nil || backend == nil {
		return nil, errors.New("export runner requires config, host, and handoff backend")
	}
	r := &Runner{
		cfg:      cfg,
		host:     host,
		backend:  backend,
		resolver: pathtemplate.Braces{},
		logger:   logging.NewComponentLogger(logger, "exportrun"),
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.publisher == nil {
		r.publisher = publish.NewPublisher(nil, publish.Options{}, logger)
	}
	return r, nil
}

// Run exports every shot of the requested track. The returned error covers
// run-level failures (lock, lookup, cancellation); per-shot failures are
// reported in the result.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	if err := os.MkdirAll(r.cfg.Paths.StateDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "exportrun", "prepare state dir", r.cfg.Paths.StateDir, err)
	}
	lock := flock.New(r.cfg.RunLockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock %s)", ErrRunInProgress, r.cfg.RunLockPath())
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			r.logger.Warn("failed to release run lock", logging.Error(err))
		}
	}()

	runID := r.newRunID()
	ctx = services.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, r.logger)
	result := &Result{
		RunID:    runID,
		Project:  req.Project,
		Sequence: req.Sequence,
		Track:    req.Track,
		Started:  time.Now(),
	}
	defer func() { result.Finished = time.Now() }()

	project, sequence, row, err := timeline.Locate(r.host, req.Project, req.Sequence, req.Track)
	if err != nil {
		return result, err
	}
	index, err := collate.BuildIndex(sequence.Rows(), row)
	if err != nil {
		return result, err
	}
	logger.Info("export run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.String("project", project.Name()),
		logging.String("sequence", sequence.Name()),
		logging.String("track", row.Name()),
		logging.Int("shots", index.Len()),
	)

	store := r.backend.ForRun(runID)
	defer func() {
		if err := store.Clear(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("failed to clear handoff records", logging.Error(err))
		}
	}()

	scope := copyexport.Scope{Project: project.Name(), Sequence: sequence.Name()}
	entries := index.Entries()
	result.Shots = make([]ShotResult, len(entries))
	for idx, entry := range entries {
		result.Shots[idx] = ShotResult{ShotID: entry.ShotID(), Shot: shotName(entry), Status: ShotExported}
	}

	for idx, entry := range entries {
		shot := &result.Shots[idx]
		shotCtx := services.WithShotID(ctx, shot.ShotID)
		if err := r.runStage(shotCtx, stageCopy, shot, func(stageCtx context.Context) error {
			return r.copyShot(stageCtx, scope, store, entry, shot)
		}); err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
		}
	}

	writer := scriptexport.NewWriter(scriptexport.OptionsFromConfig(r.cfg), r.resolver, r.logger)
	for idx, entry := range entries {
		shot := &result.Shots[idx]
		if shot.Status == ShotFailed {
			continue
		}
		shotCtx := services.WithShotID(ctx, shot.ShotID)
		if err := r.runStage(shotCtx, stageScript, shot, func(stageCtx context.Context) error {
			return r.scriptShot(stageCtx, writer, store, scope, row.Name(), entry, shot)
		}); err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
		}
	}

	logger.Info("export run completed",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Int("shots", len(result.Shots)),
		logging.Int("failed", result.Failed()),
		logging.Duration("duration", time.Since(result.Started)),
	)
	return result, nil
}

func (r *Runner) runStage(ctx context.Context, stage string, shot *ShotResult, fn func(context.Context) error) error {
	stageCtx := services.WithStage(ctx, stage)
	logger := logging.WithContext(stageCtx, r.logger)
	started := time.Now()
	logger.Info("stage started",
		logging.String(logging.FieldEventType, "stage_start"),
		logging.String("shot", shot.Shot),
	)
	if err := fn(stageCtx); err != nil {
		shot.Status = ShotFailed
		shot.Stage = stage
		shot.Err = err
		logger.Error("stage failed",
			logging.String(logging.FieldEventType, "stage_failure"),
			logging.String("shot", shot.Shot),
			logging.String("error_kind", services.Kind(err)),
			logging.String("error_message", strings.TrimSpace(err.Error())),
		)
		return err
	}
	logger.Info("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.String("shot", shot.Shot),
		logging.Duration("duration", time.Since(started)),
	)
	return nil
}

func (r *Runner) copyShot(ctx context.Context, scope copyexport.Scope, store handoff.Store, entry *collate.Entry, shot *ShotResult) error {
	var opts []copyexport.Option
	if r.copier != nil {
		opts = append(opts, copyexport.WithCopier(r.copier))
	}
	task, err := copyexport.NewTask(entry, scope, copyexport.PolicyFromConfig(r.cfg), r.resolver, opts...)
	if err != nil {
		return err
	}
	shot.Skipped = task.Skipped()
	logger := logging.WithContext(ctx, r.logger)
	for _, itemID := range task.Skipped() {
		logger.Warn("offline media skipped", logging.String(logging.FieldItemID, itemID))
	}

	for {
		copied, err := task.Step(ctx)
		if err != nil {
			return err
		}
		if !copied {
			break
		}
		shot.Frames++
	}

	if err := task.PublishHandoff(ctx, store); err != nil {
		return err
	}

	skipped := make(map[string]struct{}, len(task.Skipped()))
	for _, id := range task.Skipped() {
		skipped[id] = struct{}{}
	}
	ref := shotRef(scope, entry)
	for _, member := range entry.Members() {
		if _, ok := skipped[member.Item.ID]; ok {
			continue
		}
		path := member.Info.ResolvedPath
		shot.Plates = append(shot.Plates, path)
		if _, err := r.publisher.PublishPlate(ctx, ref, path, r.cfg.Export.Version); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) scriptShot(ctx context.Context, writer *scriptexport.Writer, store handoff.Store, scope copyexport.Scope, track string, entry *collate.Entry, shot *ShotResult) error {
	outputs, err := writer.Export(ctx, store, scriptexport.Shot{
		ID:       entry.ShotID(),
		Name:     shot.Shot,
		Project:  scope.Project,
		Sequence: scope.Sequence,
		Track:    track,
	})
	if err != nil {
		return err
	}
	ref := shotRef(scope, entry)
	for _, output := range outputs {
		shot.Scripts = append(shot.Scripts, output.Path)
		if _, err := r.publisher.PublishScript(ctx, ref, output.Path, output.VersionNumber); err != nil {
			return err
		}
	}
	return nil
}

func shotRef(scope copyexport.Scope, entry *collate.Entry) publish.ShotRef {
	ref := publish.ShotRef{Project: scope.Project, Sequence: scope.Sequence, Name: shotName(entry)}
	if info := entry.Main.Info; info != nil {
		ref.HeadIn = info.TargetStart
		ref.TailOut = info.TargetEnd
	}
	return ref
}

func shotName(entry *collate.Entry) string {
	if name := strings.TrimSpace(entry.Main.Item.Name); name != "" {
		return name
	}
	return entry.ShotID()
}
