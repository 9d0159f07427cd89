package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/scenesnap/scenesnap/internal/domain/report"
	"github.com/scenesnap/scenesnap/internal/domain/timeline"
	"github.com/scenesnap/scenesnap/internal/fsutil"
	"github.com/scenesnap/scenesnap/internal/ports"
	"github.com/scenesnap/scenesnap/internal/types"
)

const audioSegmentsDir = "audio_segments"

type Deps struct {
	Detector ports.SceneDetector
	Media    ports.MediaTool
	ASR      ports.Transcriber
	Log      *zap.Logger
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	return Usecase{d: d}
}

type Input struct {
	VideoPath           string
	BaseName            string
	Threshold           float64
	StabilizationOffset float64
	Transcribe          bool
	ExtractAudio        bool
	// OutDir is the per-video report directory; it must already exist.
	OutDir string
	// WorkDir holds intermediate files (segment WAVs, recognizer output).
	WorkDir string
}

type Result struct {
	Events        []types.ReportEvent
	SnapshotCount int
	SkippedFrames int
	ReportPath    string
}

// Run executes the full pipeline for one video: probe, detect scenes,
// extract a snapshot per accepted cut, optionally transcribe each snapshot
// interval, then write the SRT files and the HTML report.
func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	log := u.d.Log.With(zap.String("video", in.BaseName))

	info, err := u.d.Media.Probe(ctx, in.VideoPath)
	if err != nil {
		return Result{}, fmt.Errorf("probe video: %w", err)
	}
	log.Info("video probed",
		zap.Float64("duration_sec", info.DurationSec),
		zap.Float64("fps", info.FPS),
	)

	scenes, err := u.d.Detector.DetectScenes(ctx, in.VideoPath, in.Threshold)
	if err != nil {
		return Result{}, fmt.Errorf("detect scenes: %w", err)
	}
	if len(scenes) == 0 {
		log.Warn("no scene changes detected, keeping the first frame only")
	} else {
		log.Info("scenes detected", zap.Int("count", len(scenes)))
	}

	events := timeline.BuildEvents(scenes, in.StabilizationOffset, info.DurationSec, info.FPS)

	snapshots, skipped := u.extractSnapshots(ctx, log, in, events, info.FPS)
	if len(snapshots) == 0 {
		return Result{}, fmt.Errorf("no snapshots could be extracted from %s", in.VideoPath)
	}

	var transcripts []types.TranscriptSegment
	if in.Transcribe {
		transcripts = u.transcribeIntervals(ctx, log, in, snapshots, info.DurationSec)
	}

	res := Result{
		SnapshotCount: len(snapshots),
		SkippedFrames: skipped,
	}
	for i, snap := range snapshots {
		ev := types.ReportEvent{Snapshot: snap}
		if transcripts != nil {
			ev.Transcript = &transcripts[i]
		}
		res.Events = append(res.Events, ev)
	}

	if err := u.writeReports(in, &res, transcripts); err != nil {
		return Result{}, err
	}
	log.Info("report written",
		zap.Int("snapshots", res.SnapshotCount),
		zap.Int("skipped_frames", res.SkippedFrames),
		zap.String("path", res.ReportPath),
	)
	return res, nil
}

// extractSnapshots pulls one still per timeline event. A failed extraction
// retries one frame earlier (a cut exactly on a seek boundary often decodes
// one frame back); if that fails too the event is skipped, not fatal.
func (u Usecase) extractSnapshots(ctx context.Context, log *zap.Logger, in Input, events []timeline.Event, fps float64) ([]types.SnapshotEvent, int) {
	if fps <= 0 {
		fps = 30
	}
	frameDur := 1.0 / fps

	var out []types.SnapshotEvent
	skipped := 0
	seq := 0
	for _, ev := range events {
		name := fmt.Sprintf("%d.jpg", seq+1)
		err := u.d.Media.ExtractFrame(ctx, in.VideoPath, ev.Seconds, filepath.Join(in.OutDir, name))
		if err != nil && ev.Frame > 0 {
			log.Warn("frame extraction failed, retrying previous frame",
				zap.Float64("at_sec", ev.Seconds),
				zap.Error(err),
			)
			name = fmt.Sprintf("%d_fallback.jpg", seq+1)
			err = u.d.Media.ExtractFrame(ctx, in.VideoPath, ev.Seconds-frameDur, filepath.Join(in.OutDir, name))
		}
		if err != nil {
			log.Error("snapshot skipped",
				zap.Float64("at_sec", ev.Seconds),
				zap.Error(err),
			)
			skipped++
			continue
		}
		seq++
		out = append(out, types.SnapshotEvent{
			Seq:     seq,
			Seconds: ev.Seconds,
			Frame:   ev.Frame,
			Image:   name,
		})
	}
	return out, skipped
}

// transcribeIntervals produces one transcript segment per snapshot, covering
// the range up to the next snapshot (the last runs to video end). Any
// per-interval failure yields an empty segment; alignment with snapshots is
// always 1:1.
func (u Usecase) transcribeIntervals(ctx context.Context, log *zap.Logger, in Input, snapshots []types.SnapshotEvent, durationSec float64) []types.TranscriptSegment {
	if in.ExtractAudio {
		if err := fsutil.EnsureDir(filepath.Join(in.OutDir, audioSegmentsDir)); err != nil {
			log.Error("audio segments directory not created, keeping transcripts only", zap.Error(err))
			in.ExtractAudio = false
		}
	}

	kept := make([]timeline.Event, 0, len(snapshots))
	for _, snap := range snapshots {
		kept = append(kept, timeline.Event{Seq: snap.Seq, Seconds: snap.Seconds, Frame: snap.Frame})
	}
	intervals := timeline.Intervals(kept, durationSec)

	out := make([]types.TranscriptSegment, 0, len(snapshots))
	for _, iv := range intervals {
		start, end := iv.StartSec, iv.EndSec
		seg := types.TranscriptSegment{StartSec: start, EndSec: end}
		seg.Text = u.transcribeInterval(ctx, log, in, start, end)

		if in.ExtractAudio {
			clipName := fmt.Sprintf("segment_%d-%d.mp3", int(start*1000), int(end*1000))
			clipPath := filepath.Join(in.OutDir, audioSegmentsDir, clipName)
			if err := u.d.Media.ExtractAudioSegmentMP3(ctx, in.VideoPath, start, end, clipPath); err != nil {
				log.Warn("audio clip extraction failed",
					zap.Float64("start_sec", start),
					zap.Error(err),
				)
			} else {
				seg.AudioFile = filepath.ToSlash(filepath.Join(audioSegmentsDir, clipName))
			}
		}
		out = append(out, seg)
	}
	return out
}

func (u Usecase) transcribeInterval(ctx context.Context, log *zap.Logger, in Input, start, end float64) string {
	wav := fsutil.TempAudioPath(".wav")
	defer func() {
		if err := fsutil.SafeRemove(wav); err != nil {
			log.Warn("temp audio not removed", zap.String("path", wav), zap.Error(err))
		}
	}()

	if err := u.d.Media.ExtractAudioSegmentWAV(ctx, in.VideoPath, start, end, wav); err != nil {
		log.Warn("audio segment extraction failed, transcript left empty",
			zap.Float64("start_sec", start),
			zap.Error(err),
		)
		return ""
	}
	tr, err := u.d.ASR.Transcribe(ctx, wav, in.WorkDir)
	if err != nil {
		log.Warn("transcription failed, transcript left empty",
			zap.Float64("start_sec", start),
			zap.Error(err),
		)
		return ""
	}
	return joinSegments(tr)
}

// writeReports emits the snapshot SRT, the transcript SRT when transcription
// ran, and the combined HTML page. Write failures are fatal for the run.
func (u Usecase) writeReports(in Input, res *Result, transcripts []types.TranscriptSegment) error {
	snaps := make([]types.SnapshotEvent, 0, len(res.Events))
	for _, ev := range res.Events {
		snaps = append(snaps, ev.Snapshot)
	}

	srtPath := filepath.Join(in.OutDir, in.BaseName+"_snapshots.srt")
	if err := writeFile(srtPath, report.RenderSnapshotSRT(snaps)); err != nil {
		return fmt.Errorf("write snapshot srt: %w", err)
	}

	if transcripts != nil {
		trPath := filepath.Join(in.OutDir, in.BaseName+"_transcript.srt")
		if err := writeFile(trPath, report.RenderTranscriptSRT(transcripts)); err != nil {
			return fmt.Errorf("write transcript srt: %w", err)
		}
	}

	htmlPath := filepath.Join(in.OutDir, "report.html")
	if err := report.WriteHTML(htmlPath, in.BaseName, res.Events); err != nil {
		return fmt.Errorf("write html report: %w", err)
	}
	res.ReportPath = htmlPath
	return nil
}

func joinSegments(tr types.Transcript) string {
	var parts []string
	for _, s := range tr.Segments {
		if s.Text != "" {
			parts = append(parts, s.Text)
		}
	}
	return strings.Join(parts, " ")
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}
