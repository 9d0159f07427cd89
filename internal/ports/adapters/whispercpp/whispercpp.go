// Package whispercpp wraps the whisper.cpp CLI for local transcription.
package whispercpp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/scenesnap/scenesnap/internal/types"
)

// ModelSizes are the selectable whisper model variants.
var ModelSizes = []string{"tiny", "base", "small", "medium", "large-v1", "large-v2", "large-v3"}

// ModelPath maps a model size to its ggml weights file under dir.
func ModelPath(dir, size string) string {
	return filepath.Join(dir, "ggml-"+size+".bin")
}

type Adapter struct {
	bin      string
	model    string
	language string
}

// New builds an adapter around a whisper.cpp binary and a ggml model file.
// language is a two-letter code or "auto".
func New(binPath, modelPath, language string) *Adapter {
	if language == "" {
		language = "auto"
	}
	return &Adapter{bin: binPath, model: modelPath, language: language}
}

// Transcribe runs whisper.cpp on a WAV clip and parses its JSON output.
// The JSON file lands in workDir named after the clip and is removed after
// parsing.
func (a *Adapter) Transcribe(ctx context.Context, wavPath, workDir string) (types.Transcript, error) {
	outPrefix := filepath.Join(workDir, strings.TrimSuffix(filepath.Base(wavPath), filepath.Ext(wavPath)))
	cmd := exec.CommandContext(ctx, a.bin,
		"-m", a.model,
		"-f", wavPath,
		"-l", a.language,
		"-oj",
		"-of", outPrefix,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return types.Transcript{}, fmt.Errorf("whisper.cpp %s: %w\n%s", wavPath, err, string(b))
	}

	jsonPath := outPrefix + ".json"
	jb, err := os.ReadFile(jsonPath)
	if err != nil {
		return types.Transcript{}, fmt.Errorf("read transcript: %w", err)
	}
	defer os.Remove(jsonPath)

	tr, err := parseOutput(jb)
	if err != nil {
		return types.Transcript{}, fmt.Errorf("parse transcript %s: %w", jsonPath, err)
	}
	return tr, nil
}

// whisper.cpp -oj output: segment offsets are in milliseconds.
type whisperOutput struct {
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

func parseOutput(b []byte) (types.Transcript, error) {
	var out whisperOutput
	if err := json.Unmarshal(b, &out); err != nil {
		return types.Transcript{}, err
	}
	var tr types.Transcript
	for _, s := range out.Transcription {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		tr.Segments = append(tr.Segments, types.Segment{
			Start: float64(s.Offsets.From) / 1000,
			End:   float64(s.Offsets.To) / 1000,
			Text:  text,
		})
	}
	return tr, nil
}
