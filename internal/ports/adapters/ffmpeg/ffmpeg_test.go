package ffmpeg

import "testing"

func TestParseProbeOutput(t *testing.T) {
	t.Parallel()

	info, err := parseProbeOutput("30000/1001\n125.466667\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if info.DurationSec != 125.466667 {
		t.Fatalf("duration = %v", info.DurationSec)
	}
	if info.FPS < 29.96 || info.FPS > 29.98 {
		t.Fatalf("fps = %v, want ~29.97", info.FPS)
	}
}

func TestParseProbeOutput_MissingFPS(t *testing.T) {
	t.Parallel()

	info, err := parseProbeOutput("N/A\n60.0\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if info.DurationSec != 60.0 || info.FPS != 0 {
		t.Fatalf("unexpected info: %+v", info)
	}
}

func TestParseProbeOutput_Garbage(t *testing.T) {
	t.Parallel()

	if _, err := parseProbeOutput("\n\n"); err == nil {
		t.Fatal("expected error for empty probe output")
	}
	if _, err := parseProbeOutput("not-a-number\n"); err == nil {
		t.Fatal("expected error for malformed duration")
	}
}

func TestFmtSeconds(t *testing.T) {
	t.Parallel()

	tests := map[float64]string{
		0:      "0.000",
		0.5:    "0.500",
		12.345: "12.345",
	}
	for in, want := range tests {
		if got := fmtSeconds(in); got != want {
			t.Fatalf("fmtSeconds(%v) = %q, want %q", in, got, want)
		}
	}
}
