package framerange

// Target is the destination placement of a resolved source range.
type Target struct {
	Start int `json:"start"`
	End   int `json:"end"`
	// Offset is added to every source frame to get its destination frame.
	Offset int `json:"offset"`
	// OffsetFromMain is this item's timeline-in minus the main item's.
	OffsetFromMain int `json:"offsetFromMain"`
}

// Frame maps a source frame to its destination frame.
func (t Target) Frame(src int) int {
	return src + t.Offset
}

// MapTarget places resolved on the destination frame line. With a custom start
// frame the main item's first frame lands exactly on it; an overlapping item is
// further shifted by its timeline offset from the main item. A nil
// mainTimelineIn means the item is the main item itself.
func MapTarget(resolved Range, customStart *int, mainTimelineIn *int, thisTimelineIn int) Target {
	reference := thisTimelineIn
	if mainTimelineIn != nil {
		reference = *mainTimelineIn
	}
	fromMain := thisTimelineIn - reference

	offset := fromMain
	if customStart != nil {
		offset += *customStart - resolved.Start
	}

	return Target{
		Start:          resolved.Start + offset,
		End:            resolved.End + offset,
		Offset:         offset,
		OffsetFromMain: fromMain,
	}
}
