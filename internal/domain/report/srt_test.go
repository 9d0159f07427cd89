package report

import (
	"regexp"
	"strings"
	"testing"

	"github.com/scenesnap/scenesnap/internal/types"
)

var cueRangeRe = regexp.MustCompile(`^\d{2}:\d{2}:\d{2},\d{3} --> \d{2}:\d{2}:\d{2},\d{3}$`)

func TestRenderSnapshotSRT_BlocksWellFormed(t *testing.T) {
	t.Parallel()

	events := []types.SnapshotEvent{
		{Seq: 1, Seconds: 0.5, Image: "1.jpg"},
		{Seq: 2, Seconds: 12.25, Image: "2.jpg"},
		{Seq: 3, Seconds: 61.001, Image: "3.jpg"},
	}
	srt := RenderSnapshotSRT(events)

	blocks := strings.Split(strings.TrimRight(srt, "\n"), "\n\n")
	if len(blocks) != len(events) {
		t.Fatalf("expected %d blocks, got %d", len(events), len(blocks))
	}
	var prevRange string
	for i, block := range blocks {
		lines := strings.Split(block, "\n")
		if len(lines) != 3 {
			t.Fatalf("block %d has %d lines: %q", i, len(lines), block)
		}
		if lines[0] != string(rune('1'+i)) {
			t.Fatalf("block %d numbered %q", i, lines[0])
		}
		if !cueRangeRe.MatchString(lines[1]) {
			t.Fatalf("block %d has malformed range %q", i, lines[1])
		}
		if lines[1] <= prevRange {
			t.Fatalf("blocks not in time order: %q after %q", lines[1], prevRange)
		}
		prevRange = lines[1]
		if lines[2] != events[i].Image {
			t.Fatalf("block %d text %q, want %q", i, lines[2], events[i].Image)
		}
	}
}

func TestRenderSnapshotSRT_Deterministic(t *testing.T) {
	t.Parallel()

	events := []types.SnapshotEvent{
		{Seq: 1, Seconds: 0.5, Image: "1.jpg"},
		{Seq: 2, Seconds: 7.832, Image: "2.jpg"},
	}
	if RenderSnapshotSRT(events) != RenderSnapshotSRT(events) {
		t.Fatal("expected byte-identical output for identical input")
	}
}

func TestRenderTranscriptSRT_SkipsEmptyKeepsNumbering(t *testing.T) {
	t.Parallel()

	segs := []types.TranscriptSegment{
		{StartSec: 0, EndSec: 4, Text: "hello there"},
		{StartSec: 4, EndSec: 8, Text: "   "},
		{StartSec: 8, EndSec: 12, Text: "line one\nline two"},
	}
	srt := RenderTranscriptSRT(segs)

	if strings.Contains(srt, "00:00:04,000 --> 00:00:08,000") {
		t.Fatalf("empty segment emitted:\n%s", srt)
	}
	if !strings.Contains(srt, "1\n00:00:00,000 --> 00:00:04,000\nhello there\n") {
		t.Fatalf("missing first cue:\n%s", srt)
	}
	if !strings.Contains(srt, "2\n00:00:08,000 --> 00:00:12,000\nline one line two\n") {
		t.Fatalf("expected renumbered, newline-collapsed second cue:\n%s", srt)
	}
}

func TestRenderTranscriptSRT_Empty(t *testing.T) {
	t.Parallel()

	if got := RenderTranscriptSRT(nil); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}
