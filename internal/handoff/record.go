package handoff

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"shotexport/internal/collate"
	"shotexport/internal/services"
)

// Member is one resolved item of a shot.
type Member struct {
	Info collate.Info `json:"info"`
}

// Record is the handoff payload for one shot.
type Record struct {
	Main Member `json:"main_item"`
	// Overlapping is never nil; a shot without overlaps has an empty list.
	Overlapping []Member `json:"overlapping_items"`
}

type wireRecord struct {
	Main        *Member  `json:"main_item"`
	Overlapping []Member `json:"overlapping_items"`
}

// FromEntry builds a record from a fully resolved entry.
func FromEntry(entry *collate.Entry) (Record, error) {
	if entry == nil {
		return Record{}, services.Wrap(services.ErrValidation, "handoff", "build record", "entry is nil", nil)
	}
	for _, member := range entry.Members() {
		if member.Info == nil {
			return Record{}, services.Wrap(services.ErrValidation, "handoff", "build record",
				fmt.Sprintf("shot %s: item %s has not been resolved", entry.ShotID(), member.Item.ID), nil)
		}
	}
	record := Record{
		Main:        Member{Info: *entry.Main.Info},
		Overlapping: make([]Member, 0, len(entry.Overlapping)),
	}
	for _, member := range entry.Overlapping {
		record.Overlapping = append(record.Overlapping, Member{Info: *member.Info})
	}
	return record, nil
}

// UniqueOverlappingPaths returns the distinct resolved paths of the
// overlapping members in first-seen order.
func (r Record) UniqueOverlappingPaths() []string {
	seen := make(map[string]struct{}, len(r.Overlapping))
	paths := make([]string, 0, len(r.Overlapping))
	for _, member := range r.Overlapping {
		path := member.Info.ResolvedPath
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}
		paths = append(paths, path)
	}
	return paths
}

// Encode serialises the record to JSON.
func (r Record) Encode() (string, error) {
	if r.Overlapping == nil {
		r.Overlapping = []Member{}
	}
	data, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Parse decodes a JSON record. The main item is required.
func Parse(raw string) (Record, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Record{}, services.Wrap(services.ErrValidation, "handoff", "parse record", "record is empty", nil)
	}
	var wire wireRecord
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return Record{}, services.Wrap(services.ErrValidation, "handoff", "parse record", "invalid json", err)
	}
	if wire.Main == nil {
		return Record{}, services.Wrap(services.ErrValidation, "handoff", "parse record", "main_item is missing", nil)
	}
	record := Record{Main: *wire.Main, Overlapping: slices.Clone(wire.Overlapping)}
	if record.Overlapping == nil {
		record.Overlapping = []Member{}
	}
	return record, nil
}
