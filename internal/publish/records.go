package publish

import "time"

// Entity references a tracking-database row.
type Entity struct {
	Type string
	ID   string
	Name string
}

// IsZero reports whether the entity is unset.
func (e Entity) IsZero() bool {
	return e.ID == ""
}

// ShotRef identifies the shot a publish belongs to. HeadIn and TailOut are
// stored on the shot and reused for version frame ranges.
type ShotRef struct {
	Project  string
	Sequence string
	Name     string
	HeadIn   int
	TailOut  int
}

// PublishRecord describes one published file.
type PublishRecord struct {
	RunID             string
	Path              string
	Name              string
	VersionNumber     int
	PublishedFileType string
	Entity            Entity
	Task              *Entity
}

// VersionRecord describes a reviewable version linked to published files.
type VersionRecord struct {
	RunID          string
	Code           string
	PathToFrames   string
	FirstFrame     int
	LastFrame      int
	FrameRange     string
	Project        string
	Entity         Entity
	Task           *Entity
	PublishedFiles []Entity
}

// LedgerRow is one published file as listed from the ledger.
type LedgerRow struct {
	ID                string
	RunID             string
	Shot              string
	Task              string
	Path              string
	VersionNumber     int
	PublishedFileType string
	Version           string
	CreatedAt         time.Time
}
