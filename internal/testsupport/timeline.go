package testsupport

import (
	"encoding/json"
	"testing"

	"shotexport/internal/timeline"
)

// Clip describes a test item on a track.
type Clip struct {
	ID          string
	Name        string
	TimelineIn  int
	TimelineOut int
	SourceIn    float64
	SourceOut   float64
	Speed       float64
	MediaIn     float64
	MediaOut    float64
	Pattern     string
	Offline     bool
}

// Item converts the clip into captured item data. A zero speed means normal
// playback.
func (c Clip) Item() timeline.ItemData {
	name := c.Name
	if name == "" {
		name = c.ID
	}
	speed := c.Speed
	if speed == 0 {
		speed = 1
	}
	return timeline.ItemData{
		ID:            c.ID,
		Name:          name,
		TimelineIn:    c.TimelineIn,
		TimelineOut:   c.TimelineOut,
		SourceIn:      c.SourceIn,
		SourceOut:     c.SourceOut,
		PlaybackSpeed: speed,
		Media: timeline.MediaData{
			SourceIn:    c.MediaIn,
			SourceOut:   c.MediaOut,
			FilePattern: c.Pattern,
			Offline:     c.Offline,
		},
	}
}

// Track is a named list of clips.
type Track struct {
	Name  string
	Clips []Clip
}

// NewHost builds a single-project, single-sequence host from tracks.
func NewHost(t testing.TB, project, sequence string, tracks ...Track) timeline.Host {
	t.Helper()
	return timeline.NewSnapshotHost(NewSnapshot(project, sequence, tracks...))
}

// NewSnapshot builds a single-project, single-sequence snapshot from tracks.
func NewSnapshot(project, sequence string, tracks ...Track) timeline.Snapshot {
	seq := timeline.SequenceSnapshot{Name: sequence}
	for _, track := range tracks {
		row := timeline.RowSnapshot{Name: track.Name}
		for _, clip := range track.Clips {
			row.Items = append(row.Items, clip.Item())
		}
		seq.Tracks = append(seq.Tracks, row)
	}
	return timeline.Snapshot{
		Projects: []timeline.ProjectSnapshot{{Name: project, Sequences: []timeline.SequenceSnapshot{seq}}},
	}
}

// WriteSnapshot writes a snapshot file for tracks and returns its path.
func WriteSnapshot(t testing.TB, path, project, sequence string, tracks ...Track) string {
	t.Helper()
	data, err := json.MarshalIndent(NewSnapshot(project, sequence, tracks...), "", "  ")
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}
	WriteFile(t, path, data)
	return path
}
