package collate

import (
	"fmt"

	"shotexport/internal/services"
	"shotexport/internal/timeline"
)

// Info is the resolution result for one member of an entry.
type Info struct {
	ResolvedPath string `json:"resolvedPath"`
	SourceStart  int    `json:"sourceStart"`
	SourceEnd    int    `json:"sourceEnd"`
	TargetStart  int    `json:"targetStart"`
	TargetEnd    int    `json:"targetEnd"`
}

// Member is one item of an entry together with its resolution result. Info is
// nil until the item has been resolved.
type Member struct {
	Item timeline.ItemData
	Info *Info
}

// Entry is the collation result for one main-row item.
type Entry struct {
	Main Member
	// Overlapping holds items from sibling rows, in row then item order. It is
	// never nil.
	Overlapping []Member
}

// ShotID is the key used for the entry across stages.
func (e *Entry) ShotID() string {
	return e.Main.Item.ID
}

// Members returns the main member followed by the overlapping members, in
// resolution order. The returned pointers alias the entry.
func (e *Entry) Members() []*Member {
	out := make([]*Member, 0, 1+len(e.Overlapping))
	out = append(out, &e.Main)
	for idx := range e.Overlapping {
		out = append(out, &e.Overlapping[idx])
	}
	return out
}

// Resolved reports whether every member has an Info record.
func (e *Entry) Resolved() bool {
	for _, member := range e.Members() {
		if member.Info == nil {
			return false
		}
	}
	return true
}

// Index maps main-row item ids to their entries.
type Index struct {
	entries map[string]*Entry
	order   []string
}

// Len returns the number of entries.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.order)
}

// Get returns the entry for a main-row item id.
func (idx *Index) Get(id string) (*Entry, bool) {
	if idx == nil {
		return nil, false
	}
	entry, ok := idx.entries[id]
	return entry, ok
}

// Entries returns the entries in main-row order.
func (idx *Index) Entries() []*Entry {
	if idx == nil {
		return nil
	}
	out := make([]*Entry, 0, len(idx.order))
	for _, id := range idx.order {
		out = append(out, idx.entries[id])
	}
	return out
}

// BuildIndex collates every item of main against the items of all other rows
// in group. It fails only when main is not a member of group; an empty main
// row yields an empty index.
func BuildIndex(group []timeline.Row, main timeline.Row) (*Index, error) {
	if main == nil {
		return nil, services.Wrap(services.ErrNotFound, "collate", "build index", "main track is nil", nil)
	}
	mainID := main.ID()

	member := false
	var others []timeline.ItemData
	for _, row := range group {
		if row.ID() == mainID {
			member = true
			continue
		}
		for _, item := range row.Items() {
			others = append(others, timeline.Capture(item))
		}
	}
	if !member {
		return nil, services.Wrap(services.ErrNotFound, "collate", "build index",
			fmt.Sprintf("track %q is not part of the track group", main.Name()), nil)
	}

	idx := &Index{entries: make(map[string]*Entry)}
	for _, item := range main.Items() {
		data := timeline.Capture(item)
		overlapping := FindOverlapping(Span(data), others, Span)
		entry := &Entry{
			Main:        Member{Item: data},
			Overlapping: make([]Member, 0, len(overlapping)),
		}
		for _, other := range overlapping {
			entry.Overlapping = append(entry.Overlapping, Member{Item: other})
		}
		if _, exists := idx.entries[data.ID]; !exists {
			idx.order = append(idx.order, data.ID)
		}
		idx.entries[data.ID] = entry
	}
	return idx, nil
}

// Span returns the timeline interval of an item.
func Span(item timeline.ItemData) Interval {
	return Interval{Start: item.TimelineIn, End: item.TimelineOut}
}
