package exportrun_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"

	"shotexport/internal/config"
	"shotexport/internal/exportrun"
	"shotexport/internal/handoff"
	"shotexport/internal/logging"
	"shotexport/internal/publish"
	"shotexport/internal/services"
	"shotexport/internal/testsupport"
	"shotexport/internal/timeline"
)

type scene struct {
	cfg  *config.Config
	host timeline.Host
}

func newScene(t *testing.T, withMissingMedia bool, opts ...testsupport.ConfigOption) scene {
	t.Helper()
	cfg := testsupport.NewConfig(t, append([]testsupport.ConfigOption{testsupport.WithHandles(2)}, opts...)...)
	media := filepath.Join(testsupport.BaseDir(cfg), "media")
	bg := filepath.Join(media, "bg.####.exr")
	fg := filepath.Join(media, "fg.####.exr")
	bg2 := filepath.Join(media, "bg2.####.exr")
	testsupport.WriteFrames(t, bg, 0, 40)
	testsupport.WriteFrames(t, fg, 0, 40)
	if !withMissingMedia {
		testsupport.WriteFrames(t, bg2, 0, 40)
	}

	host := testsupport.NewHost(t, "falcon", "sq010",
		testsupport.Track{Name: "BG", Clips: []testsupport.Clip{
			{ID: "item-1", Name: "sh010", TimelineIn: 0, TimelineOut: 10, SourceIn: 5, SourceOut: 15, MediaOut: 40, Pattern: bg},
			{ID: "item-2", Name: "sh020", TimelineIn: 10, TimelineOut: 20, SourceIn: 5, SourceOut: 15, MediaOut: 40, Pattern: bg2},
		}},
		testsupport.Track{Name: "FG", Clips: []testsupport.Clip{
			{ID: "item-3", Name: "fg", TimelineIn: 4, TimelineOut: 8, SourceIn: 10, SourceOut: 14, MediaOut: 40, Pattern: fg},
		}},
	)
	return scene{cfg: cfg, host: host}
}

func request() exportrun.Request {
	return exportrun.Request{Project: "falcon", Sequence: "sq010", Track: "BG"}
}

func fixedRunID(id string) exportrun.Option {
	return exportrun.WithRunIDs(func() string { return id })
}

func TestRunExportsEveryShot(t *testing.T) {
	sc := newScene(t, false, testsupport.WithPublishing(), testsupport.WithSQLiteHandoff())
	ctx := context.Background()

	backend, err := exportrun.OpenHandoff(ctx, sc.cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("OpenHandoff: %v", err)
	}
	defer backend.Close()
	publisher, closePublisher, err := exportrun.OpenPublisher(ctx, sc.cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("OpenPublisher: %v", err)
	}
	runner, err := exportrun.NewRunner(sc.cfg, sc.host, backend, logging.NewNop(),
		exportrun.WithPublisher(publisher), fixedRunID("run-1"))
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}

	result, err := runner.Run(ctx, request())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := closePublisher(); err != nil {
		t.Fatalf("close publisher: %v", err)
	}
	if result.RunID != "run-1" || len(result.Shots) != 2 || result.Failed() != 0 {
		t.Fatalf("unexpected result %+v", result)
	}

	first := result.Shots[0]
	if first.ShotID != "item-1" || first.Status != exportrun.ShotExported {
		t.Fatalf("unexpected first shot %+v", first)
	}
	// sh010: main [3,17] = 15 frames, fg [8,16] = 9 frames.
	if first.Frames != 15+9 || len(first.Plates) != 2 || len(first.Scripts) != 2 {
		t.Fatalf("unexpected first shot output %+v", first)
	}
	if got := testsupport.ReadFrame(t, first.Plates[0], 1001); got != "frame 3" {
		t.Fatalf("main plate frame 1001 holds %q", got)
	}
	// fg starts 4 frames after sh010 on the timeline.
	if got := testsupport.ReadFrame(t, first.Plates[1], 1005); got != "frame 8" {
		t.Fatalf("fg plate frame 1005 holds %q", got)
	}
	for _, script := range first.Scripts {
		if _, err := os.Stat(script); err != nil {
			t.Fatalf("script missing: %v", err)
		}
	}

	second := result.Shots[1]
	if second.Frames != 15 || len(second.Plates) != 1 {
		t.Fatalf("unexpected second shot %+v", second)
	}

	if _, err := backend.ForRun("run-1").Fetch(ctx, "item-1"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("handoff records should be cleared after the run, got %v", err)
	}

	ledger, err := publish.OpenLedger(ctx, sc.cfg.LedgerDBPath())
	if err != nil {
		t.Fatalf("OpenLedger: %v", err)
	}
	defer ledger.Close()
	rows, err := ledger.List(ctx, "run-1", 100)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	// 3 plates and 4 scripts (v001 + v000 for both shots).
	if len(rows) != 7 {
		t.Fatalf("expected 7 published files, got %d: %+v", len(rows), rows)
	}
	for _, row := range rows {
		if row.Shot != "sh010" && row.Shot != "sh020" {
			t.Fatalf("collated plate published against %q", row.Shot)
		}
	}
}

func TestRunRecordsShotFailuresAndContinues(t *testing.T) {
	sc := newScene(t, true)
	runner, err := exportrun.NewRunner(sc.cfg, sc.host, handoff.NewMemory(), logging.NewNop())
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	result, err := runner.Run(context.Background(), request())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Failed() != 1 {
		t.Fatalf("expected one failed shot, got %+v", result.Shots)
	}
	failed := result.Shots[1]
	if failed.Status != exportrun.ShotFailed || failed.Stage != "copy" || !errors.Is(failed.Err, services.ErrNotFound) {
		t.Fatalf("unexpected failed shot %+v", failed)
	}
	if len(failed.Scripts) != 0 {
		t.Fatal("failed shot should not reach the script stage")
	}
	if result.Shots[0].Status != exportrun.ShotExported || len(result.Shots[0].Scripts) == 0 {
		t.Fatalf("healthy shot should still export: %+v", result.Shots[0])
	}
}

func TestRunUnknownTrack(t *testing.T) {
	sc := newScene(t, false)
	runner, err := exportrun.NewRunner(sc.cfg, sc.host, handoff.NewMemory(), logging.NewNop())
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	_, err = runner.Run(context.Background(), exportrun.Request{Project: "falcon", Sequence: "sq010", Track: "Nope"})
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRunRefusesConcurrentRun(t *testing.T) {
	sc := newScene(t, false)
	if err := os.MkdirAll(sc.cfg.Paths.StateDir, 0o755); err != nil {
		t.Fatal(err)
	}
	holder := flock.New(sc.cfg.RunLockPath())
	ok, err := holder.TryLock()
	if err != nil || !ok {
		t.Fatalf("TryLock: ok=%v err=%v", ok, err)
	}
	defer holder.Unlock()

	runner, err := exportrun.NewRunner(sc.cfg, sc.host, handoff.NewMemory(), logging.NewNop())
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	if _, err := runner.Run(context.Background(), request()); !errors.Is(err, exportrun.ErrRunInProgress) {
		t.Fatalf("expected ErrRunInProgress, got %v", err)
	}
}

func TestRunStopsOnCancellation(t *testing.T) {
	sc := newScene(t, false)
	ctx, cancel := context.WithCancel(context.Background())
	copies := 0
	backend := handoff.NewMemory()
	runner, err := exportrun.NewRunner(sc.cfg, sc.host, backend, logging.NewNop(),
		fixedRunID("run-cancel"),
		exportrun.WithCopier(func(string, string) error {
			copies++
			if copies == 3 {
				cancel()
			}
			return nil
		}))
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	result, err := runner.Run(ctx, request())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if copies != 3 {
		t.Fatalf("copies after cancellation: %d", copies)
	}
	if result == nil || result.Shots[0].Status != exportrun.ShotFailed {
		t.Fatalf("interrupted shot should be failed: %+v", result)
	}
	if _, err := backend.ForRun("run-cancel").Fetch(context.Background(), "item-1"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("no handoff record expected after cancellation, got %v", err)
	}

	// The lock is released so the next run can proceed.
	again, err := exportrun.NewRunner(sc.cfg, sc.host, handoff.NewMemory(), logging.NewNop())
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	if _, err := again.Run(context.Background(), request()); err != nil {
		t.Fatalf("second run: %v", err)
	}
}

func TestNewRunnerRequiresDependencies(t *testing.T) {
	if _, err := exportrun.NewRunner(nil, nil, nil, nil); err == nil {
		t.Fatal("expected error for missing dependencies")
	}
}
