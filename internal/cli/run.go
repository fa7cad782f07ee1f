package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/trailmixer/trailmixer/internal/jobs"
	"github.com/trailmixer/trailmixer/internal/logging"
	"github.com/trailmixer/trailmixer/internal/pipeline"
	"github.com/trailmixer/trailmixer/internal/ports/adapters/ffmpeg"
	"github.com/trailmixer/trailmixer/internal/types"
	"github.com/trailmixer/trailmixer/internal/usecase"
)

const runTimeout = 3 * time.Hour

// CLI-supplied tracks get the same fade treatment as report-planned ones.
const defaultTrackFade = 1.0

func runTrail(cmd *cobra.Command, input string) error {
	reportPath, _ := cmd.Flags().GetString("report")
	musicDir, _ := cmd.Flags().GetString("music-dir")
	output, _ := cmd.Flags().GetString("output")
	outDir, _ := cmd.Flags().GetString("out")
	videoVolume, _ := cmd.Flags().GetFloat64("video-volume")
	musicVolume, _ := cmd.Flags().GetFloat64("music-volume")
	redisAddr, _ := cmd.Flags().GetString("redis")

	if musicDir == "" {
		musicDir = os.Getenv("MUSIC_DIR")
	}
	if musicDir == "" {
		return fmt.Errorf("music dir is required (--music-dir or MUSIC_DIR)")
	}
	if redisAddr == "" {
		redisAddr = os.Getenv("REDIS_ADDR")
	}

	log := newLogger(cmd)

	var store jobs.Store = jobs.NewMemoryStore()
	if redisAddr != "" {
		redisStore, err := jobs.NewRedisStoreAddr(redisAddr, os.Getenv("REDIS_PASSWORD"), 0)
		if err != nil {
			return fmt.Errorf("job store: %w", err)
		}
		defer redisStore.Close()
		store = redisStore
	}

	absIn, err := filepath.Abs(input)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
	defer cancel()

	cfg := pipeline.Config{
		InputPath:   absIn,
		OutputPath:  output,
		OutDir:      outDir,
		ReportPath:  reportPath,
		MusicDir:    musicDir,
		VideoVolume: videoVolume,
		MusicVolume: musicVolume,
		FFmpegPath:  ffmpegPath(cmd),
		Store:       store,
		Log:         log,
	}

	res, err := pipeline.Run(ctx, cfg)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.OutputPath)
	return nil
}

func runStitch(cmd *cobra.Command, input string) error {
	rawSegments, _ := cmd.Flags().GetStringArray("segment")
	output, _ := cmd.Flags().GetString("output")
	outDir, _ := cmd.Flags().GetString("out")

	segs, err := parseSegments(rawSegments)
	if err != nil {
		return err
	}

	absIn, err := filepath.Abs(input)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
	defer cancel()

	cfg := pipeline.Config{
		InputPath:  absIn,
		OutputPath: output,
		OutDir:     outDir,
		Segments:   segs,
		FFmpegPath: ffmpegPath(cmd),
		Log:        newLogger(cmd),
	}

	res, err := pipeline.Run(ctx, cfg)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.OutputPath)
	return nil
}

func runOverlay(cmd *cobra.Command, video string) error {
	rawTracks, _ := cmd.Flags().GetStringArray("track")
	output, _ := cmd.Flags().GetString("output")
	videoVolume, _ := cmd.Flags().GetFloat64("video-volume")
	musicVolume, _ := cmd.Flags().GetFloat64("music-volume")

	tracks, err := parseTracks(rawTracks)
	if err != nil {
		return err
	}
	if len(tracks) == 0 {
		return fmt.Errorf("at least one --track is required")
	}
	if videoVolume == 0 {
		videoVolume = 0.4
	}
	if musicVolume == 0 {
		musicVolume = 0.3
	}

	absVideo, err := filepath.Abs(video)
	if err != nil {
		return err
	}

	log := newLogger(cmd)
	editor := usecase.New(usecase.Deps{
		Runner: ffmpeg.NewRunner(log),
		FFmpeg: ffmpeg.New(ffmpegPath(cmd), log),
		Log:    log,
	})

	ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
	defer cancel()

	if _, err := editor.OverlayMusic(ctx, absVideo, tracks, output, videoVolume, musicVolume); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), output)
	return nil
}

func newLogger(cmd *cobra.Command) zerolog.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return logging.New(verbose)
}

func ffmpegPath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("ffmpeg")
	if path == "" {
		path = os.Getenv("FFMPEG_PATH")
	}
	return path
}

// parseSegments turns "start-end" flag values into media segments.
func parseSegments(raw []string) ([]types.MediaSegment, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("at least one --segment is required")
	}
	segs := make([]types.MediaSegment, 0, len(raw))
	for _, spec := range raw {
		start, end, err := parseWindow(spec)
		if err != nil {
			return nil, fmt.Errorf("segment %q: %w", spec, err)
		}
		segs = append(segs, types.MediaSegment{Start: start, End: end})
	}
	return segs, nil
}

// parseTracks turns "file:start-end[:volume]" flag values into music tracks.
func parseTracks(raw []string) ([]types.MusicTrack, error) {
	tracks := make([]types.MusicTrack, 0, len(raw))
	for _, spec := range raw {
		// The file part may itself contain colons, so split from the right.
		parts := strings.Split(spec, ":")
		if len(parts) < 2 {
			return nil, fmt.Errorf("track %q: want file:start-end[:volume]", spec)
		}
		volume := 1.0
		windowIdx := len(parts) - 1
		if v, err := strconv.ParseFloat(parts[len(parts)-1], 64); err == nil && !strings.Contains(parts[len(parts)-1], "-") {
			volume = v
			windowIdx = len(parts) - 2
			if windowIdx < 1 {
				return nil, fmt.Errorf("track %q: want file:start-end[:volume]", spec)
			}
		}
		start, end, err := parseWindow(parts[windowIdx])
		if err != nil {
			return nil, fmt.Errorf("track %q: %w", spec, err)
		}
		file := strings.Join(parts[:windowIdx], ":")
		if file == "" {
			return nil, fmt.Errorf("track %q: file path is empty", spec)
		}
		tracks = append(tracks, types.MusicTrack{
			FilePath: file,
			Start:    start,
			End:      end,
			Volume:   volume,
			FadeIn:   defaultTrackFade,
			FadeOut:  defaultTrackFade,
		})
	}
	return tracks, nil
}

func parseWindow(spec string) (float64, float64, error) {
	lo, hi, ok := strings.Cut(spec, "-")
	if !ok {
		return 0, 0, fmt.Errorf("want start-end seconds")
	}
	start, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad start %q", lo)
	}
	end, err := strconv.ParseFloat(strings.TrimSpace(hi), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad end %q", hi)
	}
	if end <= start {
		return 0, 0, fmt.Errorf("end must be after start")
	}
	return start, end, nil
}
