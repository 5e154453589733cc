package collate_test

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"shotexport/internal/collate"
	"shotexport/internal/services"
	"shotexport/internal/timeline"
)

func item(id string, in, out int) timeline.ItemData {
	return timeline.ItemData{
		ID:          id,
		Name:        id,
		TimelineIn:  in,
		TimelineOut: out,
		SourceIn:    0,
		SourceOut:   float64(out - in),
		Media:       timeline.MediaData{SourceIn: 0, SourceOut: 1000, FilePattern: "/src/" + id + ".%04d.exr"},
	}
}

func sequenceOf(tracks ...timeline.RowSnapshot) timeline.Sequence {
	host := timeline.NewSnapshotHost(timeline.Snapshot{Projects: []timeline.ProjectSnapshot{{
		Name:      "P",
		Sequences: []timeline.SequenceSnapshot{{Name: "S", Tracks: tracks}},
	}}})
	return host.Projects()[0].Sequences()[0]
}

func TestBuildIndexCollatesOverlappingRows(t *testing.T) {
	seq := sequenceOf(
		timeline.RowSnapshot{ID: "v1", Name: "Video 1", Items: []timeline.ItemData{
			item("main-a", 100, 200),
			item("main-b", 200, 300),
		}},
		timeline.RowSnapshot{ID: "v2", Name: "Video 2", Items: []timeline.ItemData{
			item("grade-a", 100, 200),
			item("slate", 300, 310),
		}},
		timeline.RowSnapshot{ID: "v3", Name: "Video 3", Items: []timeline.ItemData{
			item("overlay", 150, 250),
		}},
	)
	rows := seq.Rows()

	idx, err := collate.BuildIndex(rows, rows[0])
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	if idx.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", idx.Len())
	}

	entries := idx.Entries()
	if entries[0].ShotID() != "main-a" || entries[1].ShotID() != "main-b" {
		t.Fatalf("entries not in main-row order: %s, %s", entries[0].ShotID(), entries[1].ShotID())
	}

	a, ok := idx.Get("main-a")
	if !ok {
		t.Fatal("missing entry for main-a")
	}
	assertIDs(t, a.Overlapping, "grade-a", "overlay")

	b, _ := idx.Get("main-b")
	// grade-a ends where main-b starts and slate starts where main-b ends: touching, not overlapping.
	assertIDs(t, b.Overlapping, "overlay")

	for _, entry := range entries {
		if entry.Main.Info != nil {
			t.Fatal("info must be absent before resolution")
		}
		if entry.Resolved() {
			t.Fatal("entry must not report resolved before resolution")
		}
	}
}

func TestBuildIndexZeroOverlapsIsEmptySlice(t *testing.T) {
	seq := sequenceOf(
		timeline.RowSnapshot{ID: "v1", Name: "Video 1", Items: []timeline.ItemData{item("solo", 0, 50)}},
		timeline.RowSnapshot{ID: "v2", Name: "Video 2", Items: []timeline.ItemData{item("far", 500, 600)}},
	)
	idx, err := collate.BuildIndex(seq.Rows(), seq.Rows()[0])
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	entry, _ := idx.Get("solo")
	if entry.Overlapping == nil {
		t.Fatal("overlapping items must be an empty slice, not nil")
	}
	if len(entry.Overlapping) != 0 {
		t.Fatalf("expected no overlaps, got %d", len(entry.Overlapping))
	}
	if got := len(entry.Members()); got != 1 {
		t.Fatalf("expected only the main member, got %d", got)
	}
}

func TestBuildIndexEmptyMainRow(t *testing.T) {
	seq := sequenceOf(
		timeline.RowSnapshot{ID: "v1", Name: "Video 1"},
		timeline.RowSnapshot{ID: "v2", Name: "Video 2", Items: []timeline.ItemData{item("x", 0, 10)}},
	)
	idx, err := collate.BuildIndex(seq.Rows(), seq.Rows()[0])
	if err != nil {
		t.Fatalf("expected no error for empty main row, got %v", err)
	}
	if idx.Len() != 0 || len(idx.Entries()) != 0 {
		t.Fatalf("expected empty index, got %d", idx.Len())
	}
}

func TestBuildIndexRejectsForeignMainRow(t *testing.T) {
	seq := sequenceOf(timeline.RowSnapshot{ID: "v1", Name: "Video 1"})
	other := sequenceOf(timeline.RowSnapshot{ID: "elsewhere", Name: "Video 9"})

	_, err := collate.BuildIndex(seq.Rows(), other.Rows()[0])
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestBuildIndexNeverIncludesMainRowItems(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	for trial := 0; trial < 200; trial++ {
		rowCount := 2 + r.IntN(4)
		tracks := make([]timeline.RowSnapshot, 0, rowCount)
		for ri := 0; ri < rowCount; ri++ {
			track := timeline.RowSnapshot{ID: fmt.Sprintf("row-%d", ri), Name: fmt.Sprintf("Video %d", ri+1)}
			itemCount := r.IntN(6)
			for ii := 0; ii < itemCount; ii++ {
				in := r.IntN(100)
				out := in + r.IntN(30)
				track.Items = append(track.Items, item(fmt.Sprintf("r%d-i%d", ri, ii), in, out))
			}
			tracks = append(tracks, track)
		}
		seq := sequenceOf(tracks...)
		rows := seq.Rows()
		mainRow := rows[r.IntN(len(rows))]

		idx, err := collate.BuildIndex(rows, mainRow)
		if err != nil {
			t.Fatalf("BuildIndex: %v", err)
		}
		for _, entry := range idx.Entries() {
			for _, member := range entry.Overlapping {
				if member.Item.RowID == mainRow.ID() {
					t.Fatalf("trial %d: overlapping item %s belongs to main row", trial, member.Item.ID)
				}
				if !collate.Overlaps(collate.Span(entry.Main.Item), collate.Span(member.Item)) {
					t.Fatalf("trial %d: %s does not overlap %s", trial, member.Item.ID, entry.ShotID())
				}
			}
		}
	}
}

func assertIDs(t *testing.T, members []collate.Member, want ...string) {
	t.Helper()
	if len(members) != len(want) {
		got := make([]string, 0, len(members))
		for _, m := range members {
			got = append(got, m.Item.ID)
		}
		t.Fatalf("got %v, want %v", got, want)
	}
	for i, id := range want {
		if members[i].Item.ID != id {
			t.Fatalf("member %d: got %s, want %s", i, members[i].Item.ID, id)
		}
	}
}
