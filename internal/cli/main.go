package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "scenesnap [video_path]",
		Short:        "Turn scene changes into snapshots, subtitles and an HTML report",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			video := ""
			if len(args) == 1 {
				video = args[0]
			}
			return run(cmd, video)
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	root.Flags().StringP("output", "o", "userdata", "Root directory for per-video report folders")
	root.Flags().Float64P("threshold", "t", 27.0, "Scene detection content threshold")
	root.Flags().Float64("stabilization-offset", 0.5, "Seconds past each cut to grab the snapshot (may be negative)")
	root.Flags().Bool("transcribe", false, "Transcribe the interval after each snapshot")
	root.Flags().String("whisper-model", "medium", "Whisper model size (tiny, base, small, medium, large-v1, large-v2, large-v3)")
	root.Flags().Bool("extract-audio", false, "Save an MP3 clip per transcript interval")
	root.Flags().String("language", "auto", "Spoken language hint for transcription")
	root.Flags().String("batch-folder", "", "Process every video in this folder instead of a single file")
	root.Flags().Bool("watch", false, "Keep watching the batch folder for new videos")
	root.Flags().String("config", "", "Path to a YAML file with tool locations")
	root.Flags().String("log-file", "", "Also write logs to this file")
	root.Flags().BoolP("verbose", "v", false, "Verbose logging")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
