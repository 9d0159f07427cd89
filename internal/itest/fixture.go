//go:build integration

package itest

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// makeSceneVideo builds an mp4 from solid color segments so content
// detection finds a hard cut at every color change.
func makeSceneVideo(t *testing.T, dir string, colors []string, secPerScene int) string {
	t.Helper()

	var inputs []string
	var filters string
	for i, c := range colors {
		inputs = append(inputs,
			"-f", "lavfi",
			"-i", fmt.Sprintf("color=c=%s:s=640x360:d=%d:r=25", c, secPerScene),
		)
		filters += fmt.Sprintf("[%d:v]", i)
	}
	filters += fmt.Sprintf("concat=n=%d:v=1:a=0[out]", len(colors))

	out := filepath.Join(dir, "scenes.mp4")
	args := append(inputs,
		"-filter_complex", filters,
		"-map", "[out]",
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-y", out,
	)
	cmd := exec.Command("ffmpeg", args...)
	if b, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("ffmpeg fixture failed: %v\n%s", err, string(b))
	}
	return out
}

// probeDurationSeconds sanity-checks a fixture's container duration.
func probeDurationSeconds(t *testing.T, videoPath string) float64 {
	t.Helper()

	cmd := exec.Command("ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		videoPath,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("ffprobe %s: %v\n%s", videoPath, err, string(b))
	}
	raw := strings.TrimSpace(string(b))
	sec, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		t.Fatalf("parse duration %q: %v", raw, err)
	}
	return sec
}
