package framerange_test

import (
	"errors"
	"math/rand/v2"
	"testing"

	"shotexport/internal/framerange"
	"shotexport/internal/services"
)

func intPtr(v int) *int { return &v }

func TestResolveSource(t *testing.T) {
	tests := []struct {
		name    string
		media   framerange.MediaInterval
		item    framerange.ItemInterval
		handles *int
		retimed bool
		speed   float64
		want    framerange.Range
	}{
		{
			name:  "no handle policy exports full media",
			media: framerange.MediaInterval{SourceIn: 0, SourceOut: 500},
			item:  framerange.ItemInterval{SourceIn: 50, SourceOut: 150},
			speed: 1,
			want:  framerange.Range{Start: 0, End: 500},
		},
		{
			name:    "handles extend the cut",
			media:   framerange.MediaInterval{SourceIn: 0, SourceOut: 500},
			item:    framerange.ItemInterval{SourceIn: 50, SourceOut: 150},
			handles: intPtr(10),
			speed:   1,
			want:    framerange.Range{Start: 40, End: 160},
		},
		{
			name:    "zero handles is the bare cut",
			media:   framerange.MediaInterval{SourceIn: 0, SourceOut: 500},
			item:    framerange.ItemInterval{SourceIn: 50, SourceOut: 150},
			handles: intPtr(0),
			speed:   1,
			want:    framerange.Range{Start: 50, End: 150},
		},
		{
			name:    "media not starting at zero is re-based",
			media:   framerange.MediaInterval{SourceIn: 1001, SourceOut: 1200},
			item:    framerange.ItemInterval{SourceIn: 10, SourceOut: 20},
			handles: intPtr(5),
			speed:   1,
			want:    framerange.Range{Start: 1006, End: 1026},
		},
		{
			name:    "handles clamp to media bounds",
			media:   framerange.MediaInterval{SourceIn: 0, SourceOut: 100},
			item:    framerange.ItemInterval{SourceIn: 2, SourceOut: 98},
			handles: intPtr(10),
			speed:   1,
			want:    framerange.Range{Start: 0, End: 100},
		},
		{
			name:    "reversed retime scales handles by speed",
			media:   framerange.MediaInterval{SourceIn: 0, SourceOut: 500},
			item:    framerange.ItemInterval{SourceIn: 150, SourceOut: 50},
			handles: intPtr(10),
			retimed: true,
			speed:   -2,
			want:    framerange.Range{Start: 30, End: 170},
		},
		{
			name:    "retime ignored when not including retimes",
			media:   framerange.MediaInterval{SourceIn: 0, SourceOut: 500},
			item:    framerange.ItemInterval{SourceIn: 50, SourceOut: 150},
			handles: intPtr(10),
			retimed: false,
			speed:   3,
			want:    framerange.Range{Start: 40, End: 160},
		},
		{
			name:    "fractional bounds floor start and ceil end",
			media:   framerange.MediaInterval{SourceIn: 0, SourceOut: 500},
			item:    framerange.ItemInterval{SourceIn: 10.5, SourceOut: 20.2},
			handles: intPtr(0),
			speed:   1,
			want:    framerange.Range{Start: 10, End: 21},
		},
		{
			name:    "single frame media",
			media:   framerange.MediaInterval{SourceIn: 7, SourceOut: 7},
			item:    framerange.ItemInterval{SourceIn: 0, SourceOut: 0},
			handles: intPtr(4),
			speed:   1,
			want:    framerange.Range{Start: 7, End: 7},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := framerange.ResolveSource(tc.media, tc.item, tc.handles, tc.retimed, tc.speed)
			if err != nil {
				t.Fatalf("ResolveSource: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestResolveSourceRejectsInvalidInput(t *testing.T) {
	_, err := framerange.ResolveSource(framerange.MediaInterval{SourceIn: 100, SourceOut: 10}, framerange.ItemInterval{}, nil, false, 1)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for inverted media, got %v", err)
	}
	_, err = framerange.ResolveSource(framerange.MediaInterval{SourceIn: 0, SourceOut: 10}, framerange.ItemInterval{}, intPtr(-1), false, 1)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for negative handles, got %v", err)
	}
}

func TestResolveSourceWithoutHandlesIsMediaBounds(t *testing.T) {
	r := rand.New(rand.NewPCG(5, 8))
	for i := 0; i < 2000; i++ {
		in := r.IntN(2000)
		out := in + r.IntN(2000)
		item := framerange.ItemInterval{SourceIn: r.Float64() * 100, SourceOut: r.Float64() * 100}
		got, err := framerange.ResolveSource(framerange.MediaInterval{SourceIn: float64(in), SourceOut: float64(out)}, item, nil, r.IntN(2) == 0, r.Float64()*8-4)
		if err != nil {
			t.Fatalf("ResolveSource: %v", err)
		}
		if got.Start != in || got.End != out {
			t.Fatalf("got %+v, want [%d, %d]", got, in, out)
		}
	}
}

func TestResolveSourceNeverLeavesMediaBounds(t *testing.T) {
	r := rand.New(rand.NewPCG(13, 21))
	for i := 0; i < 5000; i++ {
		mediaIn := r.IntN(1000)
		mediaOut := mediaIn + r.IntN(1000)
		length := float64(mediaOut - mediaIn)
		item := framerange.ItemInterval{SourceIn: r.Float64() * length, SourceOut: r.Float64() * length}
		handles := r.IntN(60)
		speed := r.Float64()*8 - 4

		got, err := framerange.ResolveSource(
			framerange.MediaInterval{SourceIn: float64(mediaIn), SourceOut: float64(mediaOut)},
			item, &handles, r.IntN(2) == 0, speed)
		if err != nil {
			t.Fatalf("ResolveSource: %v", err)
		}
		if got.Start < mediaIn || got.End > mediaOut {
			t.Fatalf("range %+v escapes media [%d, %d] (item %+v, handles %d, speed %v)", got, mediaIn, mediaOut, item, handles, speed)
		}
		if got.Start > got.End {
			t.Fatalf("range %+v is inverted", got)
		}
	}
}

func TestRangeLen(t *testing.T) {
	if n := (framerange.Range{Start: 40, End: 160}).Len(); n != 121 {
		t.Fatalf("expected 121 frames, got %d", n)
	}
	if n := (framerange.Range{Start: 5, End: 5}).Len(); n != 1 {
		t.Fatalf("expected single frame, got %d", n)
	}
	if n := (framerange.Range{Start: 6, End: 5}).Len(); n != 0 {
		t.Fatalf("expected empty range, got %d", n)
	}
}
