package collate

// Interval is an inclusive span of global timeline frames.
type Interval struct {
	Start int
	End   int
}

// Overlaps reports whether candidate overlaps reference. The four cases are
// kept explicit; they agree with `c.Start < r.End && c.End > r.Start` only for
// positive-length intervals. Touching intervals (one ends where the other
// starts) do not overlap.
func Overlaps(reference, candidate Interval) bool {
	start, end := reference.Start, reference.End
	otherStart, otherEnd := candidate.Start, candidate.End

	switch {
	// Contained within or equal to the reference.
	case otherStart >= start && otherEnd <= end:
		return true
	// Starts before, ends during or at the same point.
	case otherStart < start && otherEnd > start && otherEnd <= end:
		return true
	// Starts during or at the same point, ends after or at the same point.
	case otherStart >= start && otherStart < end && otherEnd >= end:
		return true
	// Starts before and ends after.
	case otherStart < start && otherEnd > end:
		return true
	}
	return false
}

// FindOverlapping returns the candidates overlapping reference, in input order.
func FindOverlapping[T any](reference Interval, candidates []T, span func(T) Interval) []T {
	out := make([]T, 0, len(candidates))
	for _, candidate := range candidates {
		if Overlaps(reference, span(candidate)) {
			out = append(out, candidate)
		}
	}
	return out
}
