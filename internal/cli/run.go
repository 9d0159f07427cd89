package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scenesnap/scenesnap/internal/config"
	"github.com/scenesnap/scenesnap/internal/pipeline"
)

// runTimeout bounds single and batch runs; watch mode runs until interrupted.
const runTimeout = 6 * time.Hour

func run(cmd *cobra.Command, video string) error {
	outRoot, _ := cmd.Flags().GetString("output")
	threshold, _ := cmd.Flags().GetFloat64("threshold")
	offset, _ := cmd.Flags().GetFloat64("stabilization-offset")
	transcribe, _ := cmd.Flags().GetBool("transcribe")
	whisperModel, _ := cmd.Flags().GetString("whisper-model")
	extractAudio, _ := cmd.Flags().GetBool("extract-audio")
	language, _ := cmd.Flags().GetString("language")
	batchDir, _ := cmd.Flags().GetString("batch-folder")
	watch, _ := cmd.Flags().GetBool("watch")
	configPath, _ := cmd.Flags().GetString("config")
	logFile, _ := cmd.Flags().GetString("log-file")
	verbose, _ := cmd.Flags().GetBool("verbose")

	if watch && batchDir == "" {
		return errors.New("--watch requires --batch-folder")
	}

	tools, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, err := newLogger(verbose, logFile)
	if err != nil {
		return err
	}
	defer log.Sync()

	if video != "" {
		if video, err = filepath.Abs(video); err != nil {
			return err
		}
	}
	if batchDir != "" {
		if batchDir, err = filepath.Abs(batchDir); err != nil {
			return err
		}
	}

	cfg := pipeline.Config{
		VideoPath:           video,
		BatchDir:            batchDir,
		OutputRoot:          outRoot,
		Threshold:           threshold,
		StabilizationOffset: offset,
		Transcribe:          transcribe,
		WhisperModel:        whisperModel,
		ExtractAudio:        extractAudio,
		Language:            language,
		Tools:               tools,
		Logger:              log,
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch {
	case watch:
		return pipeline.RunWatch(ctx, cfg)
	case batchDir != "":
		ctx, cancel := context.WithTimeout(ctx, runTimeout)
		defer cancel()
		return pipeline.RunBatch(ctx, cfg)
	default:
		ctx, cancel := context.WithTimeout(ctx, runTimeout)
		defer cancel()
		return pipeline.Run(ctx, cfg)
	}
}

// newLogger builds the console logger; logFile, when set, is teed as an
// additional output so long batch and watch runs keep a record.
func newLogger(verbose bool, logFile string) (*zap.Logger, error) {
	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Encoding = "console"
		cfg.DisableCaller = true
		cfg.DisableStacktrace = true
	}
	if logFile != "" {
		cfg.OutputPaths = append(cfg.OutputPaths, logFile)
		cfg.ErrorOutputPaths = append(cfg.ErrorOutputPaths, logFile)
	}
	return cfg.Build()
}
