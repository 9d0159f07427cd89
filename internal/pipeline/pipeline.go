package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/scenesnap/scenesnap/internal/config"
	"github.com/scenesnap/scenesnap/internal/fsutil"
	"github.com/scenesnap/scenesnap/internal/ports"
	"github.com/scenesnap/scenesnap/internal/ports/adapters/ffmpeg"
	"github.com/scenesnap/scenesnap/internal/ports/adapters/scenedetect"
	"github.com/scenesnap/scenesnap/internal/ports/adapters/whispercpp"
	"github.com/scenesnap/scenesnap/internal/usecase"
	"github.com/scenesnap/scenesnap/internal/watcher"
)

type Config struct {
	// Exactly one of VideoPath and BatchDir must be set.
	VideoPath string
	BatchDir  string

	OutputRoot          string  `validate:"required"`
	Threshold           float64 `validate:"gte=0"`
	StabilizationOffset float64
	Transcribe          bool
	WhisperModel        string `validate:"oneof=tiny base small medium large-v1 large-v2 large-v3"`
	ExtractAudio        bool
	Language            string

	Tools config.Tools

	Logger *zap.Logger
}

var validate = validator.New()

func (c Config) Validate() error {
	if (c.VideoPath == "") == (c.BatchDir == "") {
		return errors.New("exactly one of a video path and --batch-folder is required")
	}
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.VideoPath != "" {
		if _, err := os.Stat(c.VideoPath); err != nil {
			return fmt.Errorf("stat video: %w", err)
		}
	}
	if c.BatchDir != "" {
		fi, err := os.Stat(c.BatchDir)
		if err != nil {
			return fmt.Errorf("stat batch folder: %w", err)
		}
		if !fi.IsDir() {
			return fmt.Errorf("batch folder %s is not a directory", c.BatchDir)
		}
	}
	if c.Transcribe || c.ExtractAudio {
		if !fsutil.CommandAvailable(c.Tools.FFmpeg) {
			return fmt.Errorf("%s not found; audio features require ffmpeg", c.Tools.FFmpeg)
		}
	}
	if c.Transcribe {
		model := whispercpp.ModelPath(c.Tools.WhisperModelDir, c.WhisperModel)
		if _, err := os.Stat(model); err != nil {
			return fmt.Errorf("whisper model %s: %w", model, err)
		}
	}
	return nil
}

// Run processes a single video into its own report directory.
func Run(ctx context.Context, cfg Config) error {
	log := logger(cfg)
	return runVideo(ctx, cfg, log, cfg.VideoPath)
}

// RunBatch processes every recognized video in the batch folder, one at a
// time, continuing past per-video failures. It returns an error when any
// video failed, after all of them were attempted.
func RunBatch(ctx context.Context, cfg Config) error {
	log := logger(cfg)

	videos, err := collectVideos(cfg.BatchDir)
	if err != nil {
		return err
	}
	if len(videos) == 0 {
		return fmt.Errorf("no video files found in %s", cfg.BatchDir)
	}
	log.Info("batch started", zap.Int("videos", len(videos)), zap.String("folder", cfg.BatchDir))

	failed := 0
	for _, v := range videos {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := runVideo(ctx, cfg, log, v); err != nil {
			failed++
			log.Error("video failed", zap.String("video", filepath.Base(v)), zap.Error(err))
		}
	}
	log.Info("batch finished",
		zap.Int("processed", len(videos)-failed),
		zap.Int("failed", failed),
	)
	if failed > 0 {
		return fmt.Errorf("%d of %d videos failed", failed, len(videos))
	}
	return nil
}

// RunWatch processes the current contents of the batch folder, then keeps
// watching it for newly dropped videos until the context is cancelled.
func RunWatch(ctx context.Context, cfg Config) error {
	log := logger(cfg)

	videos, err := collectVideos(cfg.BatchDir)
	if err != nil {
		return err
	}
	for _, v := range videos {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := runVideo(ctx, cfg, log, v); err != nil {
			log.Error("video failed", zap.String("video", filepath.Base(v)), zap.Error(err))
		}
	}

	w, err := watcher.New(cfg.BatchDir, log)
	if err != nil {
		return err
	}
	defer w.Close()

	err = w.Run(ctx, func(ctx context.Context, videoPath string) error {
		return runVideo(ctx, cfg, log, videoPath)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func runVideo(ctx context.Context, cfg Config, log *zap.Logger, videoPath string) error {
	base := fsutil.BaseName(videoPath)
	name := fsutil.SanitizeName(base)
	if name == "" {
		name = "video"
	}

	outDir := fsutil.UniqueDir(cfg.OutputRoot, name)
	if err := fsutil.EnsureDir(outDir); err != nil {
		return err
	}
	workDir := filepath.Join(cfg.Tools.CacheDir, "runs", name)
	if err := fsutil.EnsureDir(workDir); err != nil {
		return err
	}
	log.Info("output directory ready", zap.String("video", base), zap.String("dir", outDir))

	deps := usecase.Deps{
		Detector: scenedetect.New(cfg.Tools.SceneDetect),
		Media:    ffmpeg.New(cfg.Tools.FFmpeg, cfg.Tools.FFprobe),
		ASR:      whispercpp.New(cfg.Tools.WhisperBin, whispercpp.ModelPath(cfg.Tools.WhisperModelDir, cfg.WhisperModel), cfg.Language),
		Log:      log,
	}

	_, err := usecase.New(deps).Run(ctx, usecase.Input{
		VideoPath:           videoPath,
		BaseName:            base,
		Threshold:           cfg.Threshold,
		StabilizationOffset: cfg.StabilizationOffset,
		Transcribe:          cfg.Transcribe,
		ExtractAudio:        cfg.ExtractAudio,
		OutDir:              outDir,
		WorkDir:             workDir,
	})
	return err
}

func collectVideos(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read batch folder: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !fsutil.IsVideoFile(e.Name()) {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}

func logger(cfg Config) *zap.Logger {
	if cfg.Logger != nil {
		return cfg.Logger
	}
	return zap.NewNop()
}

// interface conformance
var _ ports.SceneDetector = (*scenedetect.Adapter)(nil)
var _ ports.MediaTool = (*ffmpeg.Adapter)(nil)
var _ ports.Transcriber = (*whispercpp.Adapter)(nil)
