package timecode

import (
	"fmt"
	"math"
)

// FormatSRT renders seconds as an SRT timestamp, HH:MM:SS,mmm.
// Rounds to the nearest millisecond before splitting so values like 61.234
// do not truncate down a millisecond on float conversion.
func FormatSRT(sec float64) string {
	ms := totalMillis(sec)
	h := ms / 3600000
	ms -= h * 3600000
	m := ms / 60000
	ms -= m * 60000
	s := ms / 1000
	ms -= s * 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// FormatClock renders seconds as a display timecode, HH:MM:SS.
func FormatClock(sec float64) string {
	total := totalMillis(sec) / 1000
	h := total / 3600
	total -= h * 3600
	m := total / 60
	s := total - m*60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func totalMillis(sec float64) int64 {
	if sec < 0 {
		return 0
	}
	return int64(math.Round(sec * 1000))
}
