package timeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Snapshot is a JSON capture of the host timelines, used when the pipeline runs
// outside the editing application.
type Snapshot struct {
	Projects []ProjectSnapshot `json:"projects"`
}

// ProjectSnapshot is one project in a snapshot.
type ProjectSnapshot struct {
	Name      string             `json:"name"`
	Sequences []SequenceSnapshot `json:"sequences"`
}

// SequenceSnapshot is one sequence in a snapshot.
type SequenceSnapshot struct {
	Name   string        `json:"name"`
	Tracks []RowSnapshot `json:"tracks"`
}

// RowSnapshot is one video track in a snapshot.
type RowSnapshot struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Items []ItemData `json:"items"`
}

// LoadSnapshot reads a snapshot file and exposes it as a Host.
func LoadSnapshot(path string) (Host, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read timeline snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse timeline snapshot %s: %w", path, err)
	}
	return NewSnapshotHost(snap), nil
}

// NewSnapshotHost wraps an in-memory snapshot as a Host. Row identity and name
// are stamped onto each item, and a zero playback speed defaults to 1.
func NewSnapshotHost(snap Snapshot) Host {
	host := snapshotHost{}
	for _, p := range snap.Projects {
		project := snapshotProject{name: p.Name}
		for _, s := range p.Sequences {
			sequence := snapshotSequence{name: s.Name}
			for idx, r := range s.Tracks {
				row := &snapshotRow{id: strings.TrimSpace(r.ID), name: r.Name}
				if row.id == "" {
					row.id = fmt.Sprintf("%s/%s/%d", p.Name, s.Name, idx)
				}
				for _, data := range r.Items {
					data.RowID = row.id
					data.RowName = row.name
					if data.PlaybackSpeed == 0 {
						data.PlaybackSpeed = 1
					}
					row.items = append(row.items, snapshotItem{data: data})
				}
				sequence.rows = append(sequence.rows, row)
			}
			project.sequences = append(project.sequences, sequence)
		}
		host.projects = append(host.projects, project)
	}
	return host
}

type snapshotHost struct {
	projects []Project
}

func (h snapshotHost) Projects() []Project { return h.projects }

type snapshotProject struct {
	name      string
	sequences []Sequence
}

func (p snapshotProject) Name() string          { return p.name }
func (p snapshotProject) Sequences() []Sequence { return p.sequences }

type snapshotSequence struct {
	name string
	rows []Row
}

func (s snapshotSequence) Name() string { return s.name }
func (s snapshotSequence) Rows() []Row  { return s.rows }

type snapshotRow struct {
	id    string
	name  string
	items []Item
}

func (r *snapshotRow) ID() string    { return r.id }
func (r *snapshotRow) Name() string  { return r.name }
func (r *snapshotRow) Items() []Item { return r.items }

type snapshotItem struct {
	data ItemData
}

func (i snapshotItem) ID() string             { return i.data.ID }
func (i snapshotItem) Name() string           { return i.data.Name }
func (i snapshotItem) RowID() string          { return i.data.RowID }
func (i snapshotItem) RowName() string        { return i.data.RowName }
func (i snapshotItem) TimelineIn() int        { return i.data.TimelineIn }
func (i snapshotItem) TimelineOut() int       { return i.data.TimelineOut }
func (i snapshotItem) SourceIn() float64      { return i.data.SourceIn }
func (i snapshotItem) SourceOut() float64     { return i.data.SourceOut }
func (i snapshotItem) PlaybackSpeed() float64 { return i.data.PlaybackSpeed }
func (i snapshotItem) Media() Media           { return snapshotMedia{data: i.data.Media} }

type snapshotMedia struct {
	data MediaData
}

func (m snapshotMedia) SourceIn() float64   { return m.data.SourceIn }
func (m snapshotMedia) SourceOut() float64  { return m.data.SourceOut }
func (m snapshotMedia) FilePattern() string { return m.data.FilePattern }
func (m snapshotMedia) Present() bool       { return !m.data.Offline }
