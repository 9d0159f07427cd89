package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/scenesnap/scenesnap/internal/types"
)

func seg(start, end float64, text, audio string) *types.TranscriptSegment {
	return &types.TranscriptSegment{StartSec: start, EndSec: end, Text: text, AudioFile: audio}
}

func TestWriteHTML_SnapshotsOnly(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	htmlPath := filepath.Join(dir, "report.html")
	events := []types.ReportEvent{
		{Snapshot: types.SnapshotEvent{Seq: 1, Seconds: 0.5, Image: "1.jpg"}},
		{Snapshot: types.SnapshotEvent{Seq: 2, Seconds: 65, Image: "2.jpg"}},
	}

	if err := WriteHTML(htmlPath, "demo", events); err != nil {
		t.Fatalf("write html: %v", err)
	}

	b, err := os.ReadFile(htmlPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	page := string(b)

	for _, want := range []string{`src="1.jpg"`, `src="2.jpg"`, "00:00:00", "00:01:05", "Report: demo"} {
		if !strings.Contains(page, want) {
			t.Fatalf("report missing %q:\n%s", want, page)
		}
	}
	if strings.Contains(page, "audio_controls.js") {
		t.Fatal("player script referenced without any audio")
	}
	if _, err := os.Stat(filepath.Join(dir, "styles.css")); err != nil {
		t.Fatalf("styles.css not written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "audio_controls.js")); !os.IsNotExist(err) {
		t.Fatalf("audio_controls.js written without audio, stat err=%v", err)
	}
}

func TestWriteHTML_WithTranscriptAndAudio(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	htmlPath := filepath.Join(dir, "report.html")
	events := []types.ReportEvent{
		{
			Snapshot:   types.SnapshotEvent{Seq: 1, Seconds: 0.5, Image: "1.jpg"},
			Transcript: seg(0.5, 10, "hello world", "audio_segments/segment_500-10000.mp3"),
		},
		{
			// Clip extracted but the recognizer heard nothing: the player
			// must still render.
			Snapshot:   types.SnapshotEvent{Seq: 2, Seconds: 10, Image: "2.jpg"},
			Transcript: seg(10, 20, "", "audio_segments/segment_10000-20000.mp3"),
		},
		{
			Snapshot:   types.SnapshotEvent{Seq: 3, Seconds: 20, Image: "3.jpg"},
			Transcript: seg(20, 30, "", ""),
		},
	}

	if err := WriteHTML(htmlPath, "demo", events); err != nil {
		t.Fatalf("write html: %v", err)
	}

	b, err := os.ReadFile(htmlPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	page := string(b)

	for _, want := range []string{
		"audio_controls.js",
		`src="audio_segments/segment_500-10000.mp3"`,
		`data-audio="audio-1"`,
		"hello world",
		"controls-panel",
		"playback-rate",
		"auto-scroll",
	} {
		if !strings.Contains(page, want) {
			t.Fatalf("report missing %q", want)
		}
	}
	if !strings.Contains(page, `data-audio="audio-2"`) {
		t.Fatal("player missing for a clip without recognized text")
	}
	// No clip and no text renders as a snapshot-only block.
	if strings.Contains(page, `data-audio="audio-3"`) {
		t.Fatal("unexpected player for segment without a clip")
	}
	if _, err := os.Stat(filepath.Join(dir, "audio_controls.js")); err != nil {
		t.Fatalf("audio_controls.js not written: %v", err)
	}
}

func TestWriteHTML_EscapesText(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	htmlPath := filepath.Join(dir, "report.html")
	events := []types.ReportEvent{
		{
			Snapshot:   types.SnapshotEvent{Seq: 1, Seconds: 0, Image: "1.jpg"},
			Transcript: seg(0, 5, "<script>alert(1)</script>", ""),
		},
	}

	if err := WriteHTML(htmlPath, "demo", events); err != nil {
		t.Fatalf("write html: %v", err)
	}
	b, _ := os.ReadFile(htmlPath)
	if strings.Contains(string(b), "<script>alert(1)</script>") {
		t.Fatal("transcript text not escaped")
	}
}
