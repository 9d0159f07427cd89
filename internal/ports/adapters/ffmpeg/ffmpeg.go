package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/scenesnap/scenesnap/internal/types"
)

// Adapter shells out to ffmpeg/ffprobe.
type Adapter struct {
	ffmpeg  string
	ffprobe string
}

func New(ffmpegPath, ffprobePath string) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath}
}

// ExtractFrame grabs a single frame at atSec with an accurate (output) seek.
// ffmpeg occasionally fails transiently on network mounts, so the call is
// retried once before the caller falls back to an earlier frame.
func (a *Adapter) ExtractFrame(ctx context.Context, videoPath string, atSec float64, outJPEG string) error {
	op := func() error {
		return a.run(ctx, a.ffmpeg,
			"-y",
			"-ss", fmtSeconds(atSec),
			"-i", videoPath,
			"-frames:v", "1",
			"-q:v", "2",
			outJPEG,
		)
	}
	bo := backoff.WithMaxRetries(backoff.NewConstantBackOff(500*time.Millisecond), 1)
	return backoff.Retry(op, backoff.WithContext(bo, ctx))
}

// ExtractAudioSegmentWAV extracts mono 16 kHz PCM over [startSec, endSec),
// the input format whisper expects.
func (a *Adapter) ExtractAudioSegmentWAV(ctx context.Context, videoPath string, startSec, endSec float64, outWAV string) error {
	return a.run(ctx, a.ffmpeg,
		"-y",
		"-ss", fmtSeconds(startSec),
		"-t", fmtSeconds(endSec-startSec),
		"-i", videoPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		outWAV,
	)
}

// ExtractAudioSegmentMP3 extracts a stereo 128k MP3 clip for the report's
// inline players.
func (a *Adapter) ExtractAudioSegmentMP3(ctx context.Context, videoPath string, startSec, endSec float64, outMP3 string) error {
	return a.run(ctx, a.ffmpeg,
		"-y",
		"-ss", fmtSeconds(startSec),
		"-t", fmtSeconds(endSec-startSec),
		"-i", videoPath,
		"-vn",
		"-acodec", "libmp3lame",
		"-ar", "44100",
		"-ac", "2",
		"-b:a", "128k",
		outMP3,
	)
}

// Probe returns container duration and the frame rate of the first video
// stream. A video that cannot be opened or has zero duration is a setup
// error for the whole run.
func (a *Adapter) Probe(ctx context.Context, videoPath string) (types.MediaInfo, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=r_frame_rate",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		videoPath,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return types.MediaInfo{}, fmt.Errorf("ffprobe %s: %w\n%s", videoPath, err, string(b))
	}
	info, err := parseProbeOutput(string(b))
	if err != nil {
		return types.MediaInfo{}, fmt.Errorf("ffprobe %s: %w", videoPath, err)
	}
	if info.DurationSec <= 0 {
		return types.MediaInfo{}, fmt.Errorf("video %s has zero duration", videoPath)
	}
	return info, nil
}

// parseProbeOutput reads the two nokey lines ffprobe prints for the query
// above: the stream frame rate as a rational, then the format duration.
func parseProbeOutput(out string) (types.MediaInfo, error) {
	var info types.MediaInfo
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == "N/A" {
			continue
		}
		if strings.Contains(line, "/") {
			fps, err := parseRational(line)
			if err != nil {
				return types.MediaInfo{}, err
			}
			info.FPS = fps
			continue
		}
		sec, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return types.MediaInfo{}, fmt.Errorf("parse duration %q: %w", line, err)
		}
		info.DurationSec = sec
	}
	if info.DurationSec == 0 && info.FPS == 0 {
		return types.MediaInfo{}, fmt.Errorf("no usable probe output in %q", out)
	}
	return info, nil
}

func parseRational(s string) (float64, error) {
	parts := strings.SplitN(s, "/", 2)
	num, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, fmt.Errorf("parse frame rate %q: %w", s, err)
	}
	den := 1.0
	if len(parts) == 2 {
		den, err = strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return 0, fmt.Errorf("parse frame rate %q: %w", s, err)
		}
	}
	if den == 0 {
		return 0, nil
	}
	return num / den, nil
}

func (a *Adapter) run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s %s: %w\n%s", name, strings.Join(args, " "), err, string(b))
	}
	return nil
}

func fmtSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 3, 64)
}
