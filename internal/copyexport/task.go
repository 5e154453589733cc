package copyexport

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"shotexport/internal/collate"
	"shotexport/internal/fileutil"
	"shotexport/internal/framepath"
	"shotexport/internal/framerange"
	"shotexport/internal/handoff"
	"shotexport/internal/pathtemplate"
	"shotexport/internal/services"
	"shotexport/internal/timeline"
)

// Frame is one file copy.
type Frame struct {
	ItemID string
	Number int
	Src    string
	Dst    string
}

// Copier copies a single frame file.
type Copier func(src, dst string) error

// Option customises a task.
type Option func(*Task)

// WithCopier replaces the frame copier.
func WithCopier(copier Copier) Option {
	return func(t *Task) {
		if copier != nil {
			t.copy = copier
		}
	}
}

// Task copies the frames of one shot.
type Task struct {
	entry   *collate.Entry
	frames  []Frame
	next    int
	skipped []string
	copy    Copier
}

// NewTask resolves every member of entry and builds the frame list. The main
// member is resolved first so overlapping members can be registered against
// its timeline position.
func NewTask(entry *collate.Entry, scope Scope, policy Policy, resolver pathtemplate.Resolver, opts ...Option) (*Task, error) {
	if entry == nil {
		return nil, services.Wrap(services.ErrValidation, "copyexport", "new task", "entry is nil", nil)
	}
	if resolver == nil {
		resolver = pathtemplate.Braces{}
	}
	task := &Task{entry: entry, copy: fileutil.CopyFrame}
	for _, opt := range opts {
		opt(task)
	}

	shot := entry.Main.Item.Name
	if strings.TrimSpace(shot) == "" {
		shot = entry.ShotID()
	}
	mainIn := entry.Main.Item.TimelineIn

	for idx, member := range entry.Members() {
		var reference *int
		if idx > 0 {
			reference = &mainIn
		}
		info, src, err := resolveMember(member.Item, shot, scope, policy, resolver, reference)
		if err != nil {
			return nil, err
		}
		member.Info = &info

		item := member.Item
		if item.Media.Offline && policy.SkipOffline {
			task.skipped = append(task.skipped, item.ID)
			continue
		}
		if strings.TrimSpace(item.Media.FilePattern) == "" {
			return nil, services.Wrap(services.ErrValidation, "copyexport", "new task",
				fmt.Sprintf("shot %s item %s has no media file", shot, item.ID), nil)
		}
		task.frames = append(task.frames, expandFrames(item, src, info)...)
	}
	return task, nil
}

func resolveMember(item timeline.ItemData, shot string, scope Scope, policy Policy, resolver pathtemplate.Resolver, mainIn *int) (collate.Info, framerange.Range, error) {
	retimed := policy.IncludeRetimes && item.IsRetimed()
	src, err := framerange.ResolveSource(
		framerange.MediaInterval{SourceIn: item.Media.SourceIn, SourceOut: item.Media.SourceOut},
		framerange.ItemInterval{SourceIn: item.SourceIn, SourceOut: item.SourceOut},
		policy.Handles, retimed, item.PlaybackSpeed,
	)
	if err != nil {
		return collate.Info{}, framerange.Range{}, fmt.Errorf("shot %s item %s: %w", shot, item.ID, err)
	}
	target := framerange.MapTarget(src, policy.CustomStart, mainIn, item.TimelineIn)

	rel, err := resolver.Resolve(pathtemplate.Tokens{
		Project:  scope.Project,
		Sequence: scope.Sequence,
		Shot:     shot,
		Track:    item.RowName,
		Version:  policy.Version,
		Ext:      pathtemplate.Ext(item.Media.FilePattern),
	}, policy.CopyTemplate)
	if err != nil {
		return collate.Info{}, framerange.Range{}, fmt.Errorf("shot %s item %s: %w", shot, item.ID, err)
	}
	resolved := filepath.ToSlash(filepath.Join(policy.ExportRoot, filepath.FromSlash(rel)))
	if !framepath.HasFrameToken(resolved) {
		return collate.Info{}, framerange.Range{}, services.Wrap(services.ErrValidation, "copyexport", "resolve path",
			fmt.Sprintf("shot %s item %s: destination %s has no frame placeholder", shot, item.ID, resolved), nil)
	}
	resolved = framepath.HashesToPrintf(resolved)

	return collate.Info{
		ResolvedPath: resolved,
		SourceStart:  src.Start,
		SourceEnd:    src.End,
		TargetStart:  target.Start,
		TargetEnd:    target.End,
	}, src, nil
}

func expandFrames(item timeline.ItemData, src framerange.Range, info collate.Info) []Frame {
	srcPattern := framepath.HashesToPrintf(item.Media.FilePattern)
	offset := info.TargetStart - src.Start
	frames := make([]Frame, 0, src.Len())
	for number := src.Start; number <= src.End; number++ {
		frames = append(frames, Frame{
			ItemID: item.ID,
			Number: number,
			Src:    framepath.Format(srcPattern, number),
			Dst:    framepath.Format(info.ResolvedPath, number+offset),
		})
	}
	return frames
}

// ShotID returns the key of the shot being copied.
func (t *Task) ShotID() string { return t.entry.ShotID() }

// Entry returns the resolved collate entry.
func (t *Task) Entry() *collate.Entry { return t.entry }

// Frames returns the planned copies.
func (t *Task) Frames() []Frame { return t.frames }

// Skipped returns the ids of members whose media was offline.
func (t *Task) Skipped() []string { return t.skipped }

// NothingToDo reports whether the task has no frames to copy.
func (t *Task) NothingToDo() bool { return len(t.frames) == 0 }

// Progress returns the fraction of frames copied.
func (t *Task) Progress() float64 {
	if t.NothingToDo() {
		return 1
	}
	return float64(t.next) / float64(len(t.frames))
}

// Step copies the next frame and reports whether a frame was copied; it
// returns false once the list is exhausted. A failed frame is not counted and
// the error names the shot, item and both paths.
func (t *Task) Step(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if t.next >= len(t.frames) {
		return false, nil
	}
	frame := t.frames[t.next]
	if err := t.copy(frame.Src, frame.Dst); err != nil {
		marker := services.ErrTransient
		if errors.Is(err, fs.ErrNotExist) {
			marker = services.ErrNotFound
		}
		return false, services.Wrap(marker, "copyexport", "copy frame",
			fmt.Sprintf("shot %s item %s: %s -> %s", t.ShotID(), frame.ItemID, frame.Src, frame.Dst), err)
	}
	t.next++
	return true, nil
}

// PublishHandoff writes the shot's resolved info to store.
func (t *Task) PublishHandoff(ctx context.Context, store handoff.Store) error {
	record, err := handoff.FromEntry(t.entry)
	if err != nil {
		return err
	}
	return store.Publish(ctx, t.ShotID(), record)
}
