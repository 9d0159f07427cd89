package report

import (
	"fmt"
	"strings"

	"github.com/scenesnap/scenesnap/internal/domain/timecode"
	"github.com/scenesnap/scenesnap/internal/types"
)

// snapshotDisplayWindow is how long a snapshot-only SRT cue stays on screen.
const snapshotDisplayWindow = 0.5

// RenderSnapshotSRT builds the snapshot index SRT: one numbered cue per
// snapshot with the image filename as cue text.
func RenderSnapshotSRT(events []types.SnapshotEvent) string {
	var b strings.Builder
	for i, ev := range events {
		writeCue(&b, i+1, ev.Seconds, ev.Seconds+snapshotDisplayWindow, ev.Image)
	}
	return b.String()
}

// RenderTranscriptSRT builds the transcript SRT from recognized segments.
// Segments with no recognized text are skipped; cue numbering stays
// sequential over the emitted cues.
func RenderTranscriptSRT(segments []types.TranscriptSegment) string {
	var b strings.Builder
	n := 0
	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		n++
		writeCue(&b, n, seg.StartSec, seg.EndSec, sanitizeCue(text))
	}
	return b.String()
}

func writeCue(b *strings.Builder, num int, startSec, endSec float64, text string) {
	fmt.Fprintf(b, "%d\n", num)
	fmt.Fprintf(b, "%s --> %s\n", timecode.FormatSRT(startSec), timecode.FormatSRT(endSec))
	b.WriteString(text)
	b.WriteString("\n\n")
}

// sanitizeCue collapses newlines so a recognizer segment never spans
// multiple SRT lines and never injects a blank line that would terminate
// the cue early.
func sanitizeCue(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
