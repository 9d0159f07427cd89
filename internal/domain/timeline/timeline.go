package timeline

import (
	"math"

	"github.com/scenesnap/scenesnap/internal/types"
)

// Event is an accepted snapshot point on the video timeline.
type Event struct {
	Seq     int
	Seconds float64
	Frame   int
}

// Interval is the half-open time range a snapshot covers, up to the next
// snapshot or the end of the video.
type Interval struct {
	StartSec float64
	EndSec   float64
}

const defaultFPS = 30.0

// BuildEvents turns detected scenes into the snapshot timeline. For each
// scene the snapshot lands at scene start plus the stabilization offset;
// scenes too short for the offset fall back to one frame before the scene
// end so the frame is taken inside the scene. The result is clamped to
// [0, duration): times pushed below zero snap to the first frame, times at
// or past the end of the video are dropped, and a cut that lands on the
// same frame as the previous accepted one is dropped as a duplicate.
//
// With zero detected scenes a single event at t=0 is synthesized so a run
// always yields a report.
//
// Invariant: the returned events have strictly increasing timestamps and
// frame indices, all within the video bounds.
func BuildEvents(scenes []types.SceneCut, offsetSec, durationSec, fps float64) []Event {
	if fps <= 0 {
		fps = defaultFPS
	}
	if durationSec <= 0 {
		return nil
	}

	if len(scenes) == 0 {
		return []Event{{Seq: 1, Seconds: 0, Frame: 0}}
	}

	frameDur := 1.0 / fps
	out := make([]Event, 0, len(scenes))
	prevFrame := -1
	for _, sc := range scenes {
		at := sc.StartSec + offsetSec
		if sc.EndSec >= sc.StartSec && at >= sc.EndSec {
			// Scene shorter than the offset: take the last frame that is
			// still inside the scene. Single-frame and zero-length scenes
			// collapse to the scene start.
			at = sc.EndSec - frameDur
			if at < sc.StartSec {
				at = sc.StartSec
			}
		}
		if at < 0 {
			at = 0
		}
		if at >= durationSec {
			continue
		}
		frame := int(math.Round(at * fps))
		if frame == prevFrame {
			continue
		}
		if len(out) > 0 && (frame < prevFrame || at <= out[len(out)-1].Seconds) {
			// A negative offset can fold a later cut back before the
			// previous accepted one; keep the sequence monotonic.
			continue
		}
		out = append(out, Event{Seq: len(out) + 1, Seconds: at, Frame: frame})
		prevFrame = frame
	}

	if len(out) == 0 {
		return []Event{{Seq: 1, Seconds: 0, Frame: 0}}
	}
	return out
}

// Intervals maps each event to the time range it covers: from its snapshot
// time up to the next event, the final one running to the end of the video.
func Intervals(events []Event, durationSec float64) []Interval {
	out := make([]Interval, 0, len(events))
	for i, ev := range events {
		end := durationSec
		if i+1 < len(events) {
			end = events[i+1].Seconds
		}
		out = append(out, Interval{StartSec: ev.Seconds, EndSec: end})
	}
	return out
}
