package framerange

import (
	"fmt"
	"math"

	"shotexport/internal/services"
)

// Range is an inclusive frame range.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of frames in the range, or zero when degenerate.
func (r Range) Len() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start + 1
}

// MediaInterval is the source media's own frame bounds.
type MediaInterval struct {
	SourceIn  float64
	SourceOut float64
}

// ItemInterval is the item's cut within its media, relative to the media start.
type ItemInterval struct {
	SourceIn  float64
	SourceOut float64
}

// ResolveSource returns the inclusive source frame range to export. A nil
// handles value exports the full media range; otherwise the item's cut is
// re-based onto the media start and extended by the handle count, clamped to
// the media bounds. When retimed, handles are scaled by |speed| to convert
// timeline frames to source frames.
func ResolveSource(media MediaInterval, item ItemInterval, handles *int, retimed bool, speed float64) (Range, error) {
	if media.SourceIn > media.SourceOut {
		return Range{}, services.Wrap(services.ErrValidation, "framerange", "resolve source",
			fmt.Sprintf("media bounds are inverted (source in %g > source out %g)", media.SourceIn, media.SourceOut), nil)
	}

	start := media.SourceIn
	end := media.SourceOut

	if handles != nil {
		if *handles < 0 {
			return Range{}, services.Wrap(services.ErrValidation, "framerange", "resolve source",
				fmt.Sprintf("handle count %d is negative", *handles), nil)
		}
		effective := float64(*handles)
		if retimed {
			effective *= math.Abs(speed)
		}

		// Reversed retimes have source in > source out.
		start = math.Min(item.SourceIn, item.SourceOut)
		end = math.Max(item.SourceIn, item.SourceOut)

		start += media.SourceIn
		end += media.SourceIn

		start = math.Max(start-effective, media.SourceIn)
		end = math.Min(end+effective, media.SourceOut)
	}

	return Range{
		Start: int(math.Floor(start)),
		End:   int(math.Ceil(end)),
	}, nil
}
