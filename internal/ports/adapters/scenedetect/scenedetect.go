// Package scenedetect wraps the PySceneDetect CLI. The detector writes a
// scenes CSV which this adapter parses into ordered cuts.
package scenedetect

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/scenesnap/scenesnap/internal/types"
)

const csvName = "scenes.csv"

type Adapter struct {
	bin string
}

func New(binPath string) *Adapter {
	if binPath == "" {
		binPath = "scenedetect"
	}
	return &Adapter{bin: binPath}
}

// DetectScenes runs content detection at the given threshold and returns
// the ordered scene list. An empty list (no cuts found) is not an error.
func (a *Adapter) DetectScenes(ctx context.Context, videoPath string, threshold float64) ([]types.SceneCut, error) {
	tmpDir, err := os.MkdirTemp("", "scenesnap-scenes-")
	if err != nil {
		return nil, fmt.Errorf("scene detection workspace: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	cmd := exec.CommandContext(ctx, a.bin,
		"-i", videoPath,
		"--output", tmpDir,
		"detect-content",
		"-t", strconv.FormatFloat(threshold, 'f', -1, 64),
		"list-scenes",
		"-f", csvName,
		"--skip-cuts",
		"--quiet",
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("scenedetect %s: %w\n%s", videoPath, err, string(b))
	}

	f, err := os.Open(filepath.Join(tmpDir, csvName))
	if err != nil {
		if os.IsNotExist(err) {
			// The CLI skips the CSV entirely when nothing was detected.
			return nil, nil
		}
		return nil, fmt.Errorf("open scene list: %w", err)
	}
	defer f.Close()

	scenes, err := parseScenesCSV(f)
	if err != nil {
		return nil, fmt.Errorf("parse scene list for %s: %w", videoPath, err)
	}
	return scenes, nil
}

// parseScenesCSV reads the scene table PySceneDetect emits with
// --skip-cuts: a header row followed by one row per scene with frame
// numbers, timecodes and second offsets.
func parseScenesCSV(r io.Reader) ([]types.SceneCut, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	var out []types.SceneCut
	for _, row := range rows {
		if len(row) < 7 {
			continue
		}
		if _, err := strconv.Atoi(row[0]); err != nil {
			continue // header row
		}
		startFrame, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, fmt.Errorf("bad start frame %q", row[1])
		}
		startSec, err := strconv.ParseFloat(row[3], 64)
		if err != nil {
			return nil, fmt.Errorf("bad start seconds %q", row[3])
		}
		endFrame, err := strconv.Atoi(row[4])
		if err != nil {
			return nil, fmt.Errorf("bad end frame %q", row[4])
		}
		endSec, err := strconv.ParseFloat(row[6], 64)
		if err != nil {
			return nil, fmt.Errorf("bad end seconds %q", row[6])
		}
		out = append(out, types.SceneCut{
			StartSec:   startSec,
			EndSec:     endSec,
			StartFrame: startFrame,
			EndFrame:   endFrame,
		})
	}
	return out, nil
}
