package ports

import (
	"context"

	"github.com/scenesnap/scenesnap/internal/types"
)

// SceneDetector yields the ordered scene list for a video. A lower threshold
// makes the detector more sensitive.
type SceneDetector interface {
	DetectScenes(ctx context.Context, videoPath string, threshold float64) ([]types.SceneCut, error)
}

// MediaTool wraps the external media binary (ffmpeg/ffprobe).
type MediaTool interface {
	Probe(ctx context.Context, videoPath string) (types.MediaInfo, error)
	ExtractFrame(ctx context.Context, videoPath string, atSec float64, outJPEG string) error
	// ExtractAudioSegmentWAV produces mono 16 kHz PCM suitable for ASR input.
	ExtractAudioSegmentWAV(ctx context.Context, videoPath string, startSec, endSec float64, outWAV string) error
	// ExtractAudioSegmentMP3 produces a web-playable clip for the HTML report.
	ExtractAudioSegmentMP3(ctx context.Context, videoPath string, startSec, endSec float64, outMP3 string) error
}

// Transcriber turns an audio clip into timed text. workDir holds the
// recognizer's intermediate output files.
type Transcriber interface {
	Transcribe(ctx context.Context, wavPath, workDir string) (types.Transcript, error)
}
