package types

// SceneCut is one detected scene as reported by the detector: a half-open
// time range starting at the visual change. Immutable once computed.
type SceneCut struct {
	StartSec   float64
	EndSec     float64
	StartFrame int
	EndFrame   int
}

// SnapshotEvent is an accepted, offset-adjusted snapshot with its extracted
// still image. Image is relative to the report directory.
type SnapshotEvent struct {
	Seq     int
	Seconds float64
	Frame   int
	Image   string
}

// TranscriptSegment covers the interval between two consecutive snapshots
// (the last one runs to video end). Text is empty when no speech was
// recognized or when extraction failed for that interval. AudioFile is the
// report-relative path of the extracted clip, empty unless audio extraction
// was requested and succeeded.
type TranscriptSegment struct {
	StartSec  float64
	EndSec    float64
	Text      string
	AudioFile string
}

// ReportEvent pairs a snapshot with its transcript segment. Transcript is
// nil when transcription was not requested.
type ReportEvent struct {
	Snapshot   SnapshotEvent
	Transcript *TranscriptSegment
}

// Transcript is the raw output of the speech recognizer for one audio clip.
type Transcript struct {
	Segments []Segment `json:"segments"`
}

type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// MediaInfo is what ffprobe reports about a video container.
type MediaInfo struct {
	DurationSec float64
	FPS         float64
}
