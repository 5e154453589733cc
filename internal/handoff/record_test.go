package handoff_test

import (
	"errors"
	"strings"
	"testing"

	"shotexport/internal/collate"
	"shotexport/internal/handoff"
	"shotexport/internal/services"
	"shotexport/internal/timeline"
)

func info(path string, start, end int) collate.Info {
	return collate.Info{ResolvedPath: path, SourceStart: start, SourceEnd: end, TargetStart: 1001, TargetEnd: 1001 + end - start}
}

func TestFromEntry(t *testing.T) {
	mainInfo := info("/exports/sh010/bg.%04d.exr", 40, 160)
	fgInfo := info("/exports/sh010/fg.%04d.exr", 0, 50)
	entry := &collate.Entry{
		Main: collate.Member{Item: timeline.ItemData{ID: "sh010"}, Info: &mainInfo},
		Overlapping: []collate.Member{
			{Item: timeline.ItemData{ID: "fg1"}, Info: &fgInfo},
		},
	}
	record, err := handoff.FromEntry(entry)
	if err != nil {
		t.Fatalf("FromEntry: %v", err)
	}
	if record.Main.Info != mainInfo {
		t.Fatalf("main info = %+v", record.Main.Info)
	}
	if len(record.Overlapping) != 1 || record.Overlapping[0].Info != fgInfo {
		t.Fatalf("overlapping = %+v", record.Overlapping)
	}
}

func TestFromEntryRejectsUnresolvedMembers(t *testing.T) {
	mainInfo := info("/exports/a.%04d.exr", 0, 10)
	entry := &collate.Entry{
		Main:        collate.Member{Item: timeline.ItemData{ID: "sh010"}, Info: &mainInfo},
		Overlapping: []collate.Member{{Item: timeline.ItemData{ID: "fg1"}}},
	}
	_, err := handoff.FromEntry(entry)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "fg1") {
		t.Fatalf("error should name the unresolved item: %v", err)
	}
}

func TestEncodeUsesWireNames(t *testing.T) {
	record := handoff.Record{Main: handoff.Member{Info: info("/a.%04d.exr", 1, 2)}}
	encoded, err := record.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for _, want := range []string{`"main_item":{"info":{`, `"resolvedPath":"/a.%04d.exr"`, `"sourceStart":1`, `"targetEnd":1002`, `"overlapping_items":[]`} {
		if !strings.Contains(encoded, want) {
			t.Errorf("encoded record %s missing %s", encoded, want)
		}
	}
}

func TestParse(t *testing.T) {
	raw := `{"main_item":{"info":{"resolvedPath":"/m.%04d.exr","sourceStart":40,"sourceEnd":160,"targetStart":1001,"targetEnd":1121}},
		"overlapping_items":[{"info":{"resolvedPath":"/o.%04d.exr","sourceStart":0,"sourceEnd":10,"targetStart":1011,"targetEnd":1021}}]}`
	record, err := handoff.Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if record.Main.Info.TargetEnd != 1121 || record.Main.Info.ResolvedPath != "/m.%04d.exr" {
		t.Fatalf("unexpected main %+v", record.Main)
	}
	if len(record.Overlapping) != 1 || record.Overlapping[0].Info.TargetStart != 1011 {
		t.Fatalf("unexpected overlapping %+v", record.Overlapping)
	}

	empty, err := handoff.Parse(`{"main_item":{"info":{}},"overlapping_items":null}`)
	if err != nil {
		t.Fatalf("Parse empty: %v", err)
	}
	if empty.Overlapping == nil || len(empty.Overlapping) != 0 {
		t.Fatalf("expected empty non-nil overlapping list, got %#v", empty.Overlapping)
	}
}

func TestParseRejectsMalformedRecords(t *testing.T) {
	for _, raw := range []string{"", "   ", "{", `{"overlapping_items":[]}`} {
		if _, err := handoff.Parse(raw); !errors.Is(err, services.ErrValidation) {
			t.Errorf("Parse(%q): expected validation error, got %v", raw, err)
		}
	}
}

func TestUniqueOverlappingPaths(t *testing.T) {
	record := handoff.Record{Overlapping: []handoff.Member{
		{Info: info("/b.%04d.exr", 0, 1)},
		{Info: info("/a.%04d.exr", 0, 1)},
		{Info: info("/b.%04d.exr", 5, 9)},
	}}
	got := record.UniqueOverlappingPaths()
	if len(got) != 2 || got[0] != "/b.%04d.exr" || got[1] != "/a.%04d.exr" {
		t.Fatalf("unexpected paths %v", got)
	}
}
