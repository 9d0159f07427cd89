//go:build integration

package itest

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/scenesnap/scenesnap/internal/config"
	"github.com/scenesnap/scenesnap/internal/pipeline"
)

// TestE2E runs the whole pipeline on a generated three-scene video and
// checks the report directory contents. Requires ffmpeg, ffprobe and the
// scenedetect CLI on PATH.
func TestE2E(t *testing.T) {
	for _, tool := range []string{"ffmpeg", "ffprobe", "scenedetect"} {
		if _, err := exec.LookPath(tool); err != nil {
			t.Skipf("%s not on PATH", tool)
		}
	}

	tmp := t.TempDir()
	in := makeSceneVideo(t, tmp, []string{"black", "white", "red"}, 4)

	dur := probeDurationSeconds(t, in)
	if dur < 11 || dur > 13 {
		t.Fatalf("fixture duration = %v, want about 12s", dur)
	}

	outRoot := filepath.Join(tmp, "out")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cfg := pipeline.Config{
		VideoPath:           in,
		OutputRoot:          outRoot,
		Threshold:           27.0,
		StabilizationOffset: 0.5,
		WhisperModel:        "base",
		Language:            "auto",
		Tools: config.Tools{
			FFmpeg:      "ffmpeg",
			FFprobe:     "ffprobe",
			SceneDetect: "scenedetect",
			CacheDir:    filepath.Join(tmp, "cache"),
		},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config: %v", err)
	}
	if err := pipeline.Run(ctx, cfg); err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}

	outDir := filepath.Join(outRoot, "scenes")
	for _, f := range []string{"report.html", "scenes_snapshots.srt", "styles.css", "1.jpg"} {
		if _, err := os.Stat(filepath.Join(outDir, f)); err != nil {
			t.Fatalf("missing %s: %v", f, err)
		}
	}

	// Three color blocks give two cuts plus the opening scene.
	jpgs, err := filepath.Glob(filepath.Join(outDir, "*.jpg"))
	if err != nil {
		t.Fatalf("glob snapshots: %v", err)
	}
	if len(jpgs) != 3 {
		t.Fatalf("expected 3 snapshots, got %d: %v", len(jpgs), jpgs)
	}

	// A second run must not clobber the first report directory.
	if err := pipeline.Run(ctx, cfg); err != nil {
		t.Fatalf("second pipeline run failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outRoot, "scenes (1)", "report.html")); err != nil {
		t.Fatalf("missing second report: %v", err)
	}
}

// TestE2E_Batch drops two valid videos and one corrupt file in a folder:
// the valid ones get reports, the corrupt one is reported as a partial
// failure after the whole folder was attempted.
func TestE2E_Batch(t *testing.T) {
	for _, tool := range []string{"ffmpeg", "ffprobe", "scenedetect"} {
		if _, err := exec.LookPath(tool); err != nil {
			t.Skipf("%s not on PATH", tool)
		}
	}

	tmp := t.TempDir()
	batch := filepath.Join(tmp, "videos")
	if err := os.Mkdir(batch, 0o755); err != nil {
		t.Fatalf("mkdir batch: %v", err)
	}
	a := makeSceneVideo(t, t.TempDir(), []string{"black", "white"}, 3)
	b := makeSceneVideo(t, t.TempDir(), []string{"red", "blue"}, 3)
	for i, src := range []string{a, b} {
		data, err := os.ReadFile(src)
		if err != nil {
			t.Fatalf("read fixture: %v", err)
		}
		dst := filepath.Join(batch, []string{"first.mp4", "second.mp4"}[i])
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			t.Fatalf("copy fixture: %v", err)
		}
	}
	corrupt := filepath.Join(batch, "corrupt.mp4")
	if err := os.WriteFile(corrupt, []byte("this is not an mp4"), 0o644); err != nil {
		t.Fatalf("write corrupt fixture: %v", err)
	}

	outRoot := filepath.Join(tmp, "out")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cfg := pipeline.Config{
		BatchDir:            batch,
		OutputRoot:          outRoot,
		Threshold:           27.0,
		StabilizationOffset: 0.5,
		WhisperModel:        "base",
		Language:            "auto",
		Tools: config.Tools{
			FFmpeg:      "ffmpeg",
			FFprobe:     "ffprobe",
			SceneDetect: "scenedetect",
			CacheDir:    filepath.Join(tmp, "cache"),
		},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config: %v", err)
	}
	err := pipeline.RunBatch(ctx, cfg)
	if err == nil {
		t.Fatal("expected partial-failure error from batch with a corrupt video")
	}
	if !strings.Contains(err.Error(), "1 of 3 videos failed") {
		t.Fatalf("unexpected batch error: %v", err)
	}
	for _, name := range []string{"first", "second"} {
		if _, err := os.Stat(filepath.Join(outRoot, name, "report.html")); err != nil {
			t.Fatalf("missing report for %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(outRoot, "corrupt", "report.html")); !os.IsNotExist(err) {
		t.Fatalf("unexpected report for corrupt video, stat err=%v", err)
	}
}
