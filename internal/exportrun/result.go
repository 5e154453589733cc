package exportrun

import "time"

// ShotStatus is the outcome of one shot.
type ShotStatus string

const (
	ShotExported ShotStatus = "exported"
	ShotFailed   ShotStatus = "failed"
)

// ShotResult records what happened to one shot.
type ShotResult struct {
	ShotID  string
	Shot    string
	Status  ShotStatus
	Stage   string
	Frames  int
	Skipped []string
	Plates  []string
	Scripts []string
	Err     error
}

// Result summarises a run.
type Result struct {
	RunID    string
	Project  string
	Sequence string
	Track    string
	Started  time.Time
	Finished time.Time
	Shots    []ShotResult
}

// Failed returns the number of failed shots.
func (r *Result) Failed() int {
	if r == nil {
		return 0
	}
	count := 0
	for _, shot := range r.Shots {
		if shot.Status == ShotFailed {
			count++
		}
	}
	return count
}

// Duration returns the wall time of the run.
func (r *Result) Duration() time.Duration {
	if r == nil || r.Finished.IsZero() {
		return 0
	}
	return r.Finished.Sub(r.Started)
}
