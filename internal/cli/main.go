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
		Use:           "trailmixer",
		Short:         "Assemble trailers from a source video and an analysis report",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)

	root.PersistentFlags().Bool("verbose", false, "Enable debug logging")
	root.PersistentFlags().String("ffmpeg", "", "Path to the ffmpeg binary (defaults to $FFMPEG_PATH or PATH lookup)")

	trail := &cobra.Command{
		Use:   "trail <input>",
		Short: "Build a trailer from an analysis report, music included",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrail(cmd, args[0])
		},
	}
	trail.Flags().String("report", "", "Analysis report JSON (required)")
	trail.Flags().String("music-dir", "", "Music library root (defaults to $MUSIC_DIR)")
	trail.Flags().String("output", "", "Output file path")
	trail.Flags().String("out", "out", "Output directory when --output is not set")
	trail.Flags().Float64("video-volume", 0, "Master gain for the original audio")
	trail.Flags().Float64("music-volume", 0, "Master gain for the soundtrack")
	trail.Flags().String("redis", "", "Redis address for job tracking (defaults to $REDIS_ADDR, empty disables)")
	_ = trail.MarkFlagRequired("report")

	stitch := &cobra.Command{
		Use:   "stitch <input>",
		Short: "Extract segments and concatenate them, no soundtrack",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStitch(cmd, args[0])
		},
	}
	stitch.Flags().StringArray("segment", nil, "Segment to keep as start-end seconds, repeatable (e.g. --segment 40-55)")
	stitch.Flags().String("output", "", "Output file path")
	stitch.Flags().String("out", "out", "Output directory when --output is not set")

	overlay := &cobra.Command{
		Use:   "overlay <video>",
		Short: "Mix music tracks under an existing video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOverlay(cmd, args[0])
		},
	}
	overlay.Flags().StringArray("track", nil, "Track as file:start-end[:volume], repeatable (e.g. --track theme.mp3:0-12:0.8)")
	overlay.Flags().String("output", "", "Output file path (required)")
	overlay.Flags().Float64("video-volume", 0, "Master gain for the original audio")
	overlay.Flags().Float64("music-volume", 0, "Master gain for the soundtrack")
	_ = overlay.MarkFlagRequired("output")

	root.AddCommand(trail, stitch, overlay)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
