package catalog

// Track is a single catalog entry for an audio file on disk.
type Track struct {
	ID          string
	Path        string
	Title       string
	Artist      string
	Album       *string
	Genre       *string
	Year        *int
	Duration    float64
	Bitrate     int
	SampleRate  int
	FileSize    int64
	BPM         *float64
	Key         *string
	Rating      *int
	PlayCount   int
	LastPlayed  *string
	DateAdded   string
	DateModified string
	Label       *string
	ISRC        *string
	BeatportID  *int64
}

// Playlist is a named, ordered collection of tracks.
type Playlist struct {
	ID           string
	Name         string
	Description  *string
	DateCreated  string
	DateModified string
}

// PlaylistEntry associates a track with a playlist at a given position.
type PlaylistEntry struct {
	ID         string
	PlaylistID string
	TrackID    string
	Position   int
	DateAdded  string
}

// Waveform holds the cached, normalized peak sequence for a track.
type Waveform struct {
	ID            string
	TrackID       string
	Peaks         []float32
	Resolution    int
	DateGenerated string
}

// Beatgrid holds the tempo analysis result for a track.
type Beatgrid struct {
	ID         string
	TrackID    string
	BPM        float64
	Offset     float64
	Confidence *float64
	AnalyzedAt string
}

// CuePoint is a named marker within a track.
type CuePoint struct {
	ID        string
	TrackID   string
	Position  float64
	Label     string
	Color     string
	Type      string
	Hotkey    *int
	CreatedAt string
}

// Loop is a repeatable playback region within a track.
type Loop struct {
	ID        string
	TrackID   string
	Label     string
	Start     float64
	End       float64
	IsActive  bool
	CreatedAt string
}

// Setting is a single typed configuration key/value pair.
type Setting struct {
	Key       string
	Value     string
	ValueType string // string, number, boolean, json
}
