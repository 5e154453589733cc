package timeline

// Media is the underlying source media of an item.
type Media interface {
	// SourceIn and SourceOut are the media's own frame bounds.
	SourceIn() float64
	SourceOut() float64
	// FilePattern is the media file name with a frame placeholder (#### or %04d).
	FilePattern() string
	// Present reports whether the media is online.
	Present() bool
}

// Item is one clip on a row.
type Item interface {
	ID() string
	Name() string
	RowID() string
	RowName() string
	TimelineIn() int
	TimelineOut() int
	SourceIn() float64
	SourceOut() float64
	// PlaybackSpeed is the retime factor; negative means reversed playback.
	PlaybackSpeed() float64
	Media() Media
}

// Row is a video track holding an ordered set of items.
type Row interface {
	ID() string
	Name() string
	Items() []Item
}

// Sequence is a timeline whose rows form one track group.
type Sequence interface {
	Name() string
	Rows() []Row
}

// Project groups sequences.
type Project interface {
	Name() string
	Sequences() []Sequence
}

// Host is the query surface of the editing application.
type Host interface {
	Projects() []Project
}

// MediaData is a plain copy of an item's media fields.
type MediaData struct {
	SourceIn    float64 `json:"source_in"`
	SourceOut   float64 `json:"source_out"`
	FilePattern string  `json:"file_pattern"`
	Offline     bool    `json:"offline,omitempty"`
}

// ItemData is a plain copy of one item's fields, safe to keep after the host
// mutates its timeline.
type ItemData struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	RowID         string    `json:"row_id"`
	RowName       string    `json:"row_name"`
	TimelineIn    int       `json:"timeline_in"`
	TimelineOut   int       `json:"timeline_out"`
	SourceIn      float64   `json:"source_in"`
	SourceOut     float64   `json:"source_out"`
	PlaybackSpeed float64   `json:"playback_speed"`
	Media         MediaData `json:"media"`
}

// Capture copies the fields of a host item.
func Capture(item Item) ItemData {
	data := ItemData{
		ID:            item.ID(),
		Name:          item.Name(),
		RowID:         item.RowID(),
		RowName:       item.RowName(),
		TimelineIn:    item.TimelineIn(),
		TimelineOut:   item.TimelineOut(),
		SourceIn:      item.SourceIn(),
		SourceOut:     item.SourceOut(),
		PlaybackSpeed: item.PlaybackSpeed(),
	}
	if media := item.Media(); media != nil {
		data.Media = MediaData{
			SourceIn:    media.SourceIn(),
			SourceOut:   media.SourceOut(),
			FilePattern: media.FilePattern(),
			Offline:     !media.Present(),
		}
	} else {
		data.Media.Offline = true
	}
	return data
}

// IsRetimed reports whether the item plays at anything other than normal speed.
func (d ItemData) IsRetimed() bool {
	return d.PlaybackSpeed != 1
}
