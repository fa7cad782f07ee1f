// Package pipeline wires the adapters into the full trailer assembly flow:
// probe the source, validate the cut list, extract and concatenate the
// segments, then overlay the soundtrack.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/trailmixer/trailmixer/internal/analysis"
	"github.com/trailmixer/trailmixer/internal/domain/segments"
	"github.com/trailmixer/trailmixer/internal/jobs"
	"github.com/trailmixer/trailmixer/internal/logging"
	"github.com/trailmixer/trailmixer/internal/music"
	"github.com/trailmixer/trailmixer/internal/ports"
	"github.com/trailmixer/trailmixer/internal/ports/adapters/ffmpeg"
	"github.com/trailmixer/trailmixer/internal/types"
	"github.com/trailmixer/trailmixer/internal/usecase"
)

const (
	defaultVideoVolume = 0.4
	defaultMusicVolume = 0.3
)

type Config struct {
	// InputPath is the source video the trailer is cut from.
	InputPath string
	// OutputPath is where the finished trailer lands. If empty a name is
	// derived from the input under OutDir.
	OutputPath string
	OutDir     string

	// ReportPath points at an analysis report JSON describing which
	// segments to keep and which music to lay under them. When empty,
	// Segments and Tracks are used as given.
	ReportPath string
	// MusicDir is the root of the music library the report's planned
	// tracks are resolved against.
	MusicDir string

	Segments []types.MediaSegment
	Tracks   []types.MusicTrack

	// VideoVolume and MusicVolume are the master gains applied during the
	// overlay stage. Zero means use the defaults.
	VideoVolume float64
	MusicVolume float64

	FFmpegPath string

	// Store receives job progress updates. Nil disables tracking.
	Store jobs.Store

	Log zerolog.Logger
}

func (c Config) Validate() error {
	if c.InputPath == "" {
		return errors.New("input is empty")
	}
	if _, err := os.Stat(c.InputPath); err != nil {
		return fmt.Errorf("stat input: %w", err)
	}
	if c.ReportPath == "" && len(c.Segments) == 0 {
		return errors.New("either a report or an explicit segment list is required")
	}
	if c.ReportPath != "" && c.MusicDir == "" {
		return errors.New("music dir is required when assembling from a report")
	}
	if c.VideoVolume < 0 || c.MusicVolume < 0 {
		return errors.New("volumes must not be negative")
	}
	return nil
}

// Result describes a finished run.
type Result struct {
	JobID      string
	OutputPath string
	// SourceDuration is the probed length of the input in seconds.
	SourceDuration float64
	// TrailerDuration is the summed length of the kept segments.
	TrailerDuration float64
	Stages          []types.ProcessResult
}

func Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	adapter := ffmpeg.New(cfg.FFmpegPath, cfg.Log)
	runner := ffmpeg.NewRunner(cfg.Log)
	prober := ffmpeg.NewProbe()
	editor := usecase.New(usecase.Deps{
		Runner: runner,
		FFmpeg: adapter,
		Log:    logging.WithComponent(cfg.Log, "editor"),
	})

	job := jobs.NewJob(cfg.InputPath)
	trackJob(cfg.Store, job, func(j *jobs.Job) {
		j.Status = jobs.StatusPending
	})

	res, err := run(ctx, cfg, job, prober, editor)
	now := time.Now().UTC()
	if err != nil {
		updateJob(cfg.Store, job, func(j *jobs.Job) {
			j.Status = jobs.StatusFailed
			j.Error = err.Error()
			j.CompletedAt = &now
		})
		return nil, err
	}
	updateJob(cfg.Store, job, func(j *jobs.Job) {
		j.Status = jobs.StatusCompleted
		j.OutputPath = res.OutputPath
		j.Stages = res.Stages
		j.CompletedAt = &now
	})
	return res, nil
}

func run(
	ctx context.Context,
	cfg Config,
	job *jobs.Job,
	prober ports.Prober,
	editor ports.VideoEditor,
) (*Result, error) {
	log := cfg.Log

	updateJob(cfg.Store, job, func(j *jobs.Job) {
		j.Status = jobs.StatusProcessing
		j.Message = "probing source"
	})
	duration, err := prober.Duration(ctx, cfg.InputPath)
	if err != nil {
		return nil, err
	}
	log.Info().Str("input", cfg.InputPath).Float64("duration_s", duration).Msg("probed source")

	rawSegments := cfg.Segments
	rawTracks := cfg.Tracks
	if cfg.ReportPath != "" {
		report, err := analysis.Load(cfg.ReportPath)
		if err != nil {
			return nil, err
		}
		rawSegments = report.KeptSegments()
		picker := music.NewPicker(cfg.MusicDir)
		rawTracks, err = picker.Pick(report.Music.Tracks)
		if err != nil {
			return nil, err
		}
		log.Info().
			Str("report", cfg.ReportPath).
			Int("segments", len(rawSegments)).
			Int("tracks", len(rawTracks)).
			Msg("loaded analysis report")
	}

	kept, err := segments.Validate(rawSegments, duration)
	if err != nil {
		return nil, err
	}
	trailerDuration := segments.TotalDuration(kept)
	log.Info().
		Int("kept", len(kept)).
		Float64("trailer_s", trailerDuration).
		Msg("validated cut list")

	outputPath := cfg.OutputPath
	if outputPath == "" {
		outDir := cfg.OutDir
		if outDir == "" {
			outDir = "out"
		}
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return nil, err
		}
		outputPath = defaultOutputPath(outDir, cfg.InputPath, time.Now().UTC())
	}

	result := &Result{
		JobID:           job.ID,
		SourceDuration:  duration,
		TrailerDuration: trailerDuration,
	}

	// With no soundtrack the stitched cut is the final output.
	stitchTarget := outputPath
	if len(rawTracks) > 0 {
		stitchTarget = silentCutPath(outputPath)
	}

	updateJob(cfg.Store, job, func(j *jobs.Job) {
		j.Message = "extracting and concatenating segments"
	})
	_, err = editor.CropAndStitch(ctx, cfg.InputPath, kept, stitchTarget)
	result.Stages = append(result.Stages, stageResult(stitchTarget, err))
	if err != nil {
		return nil, err
	}

	if len(rawTracks) > 0 {
		updateJob(cfg.Store, job, func(j *jobs.Job) {
			j.Message = "overlaying soundtrack"
		})
		videoVolume := cfg.VideoVolume
		if videoVolume == 0 {
			videoVolume = defaultVideoVolume
		}
		musicVolume := cfg.MusicVolume
		if musicVolume == 0 {
			musicVolume = defaultMusicVolume
		}
		_, err := editor.OverlayMusic(ctx, stitchTarget, rawTracks, outputPath, videoVolume, musicVolume)
		result.Stages = append(result.Stages, stageResult(outputPath, err))
		// The silent cut is an intermediate once the overlay ran.
		if rmErr := os.Remove(stitchTarget); rmErr != nil && !os.IsNotExist(rmErr) {
			log.Warn().Err(rmErr).Str("path", stitchTarget).Msg("could not remove intermediate cut")
		}
		if err != nil {
			return nil, err
		}
	}

	result.OutputPath = outputPath
	log.Info().Str("output", outputPath).Msg("trailer assembled")
	return result, nil
}

func stageResult(outputPath string, err error) types.ProcessResult {
	res := types.ProcessResult{OutputPath: outputPath, Success: err == nil}
	if err == nil {
		if info, statErr := os.Stat(outputPath); statErr == nil {
			res.Bytes = info.Size()
		}
		return res
	}
	res.Diagnostic = stageDiagnostic(err)
	return res
}

// stageDiagnostic pulls the captured engine output out of the typed errors so
// a failed stage record carries what the engine actually printed.
func stageDiagnostic(err error) string {
	var extractErr *types.ExtractionError
	if errors.As(err, &extractErr) {
		return extractErr.Output
	}
	var concatErr *types.ConcatenationError
	if errors.As(err, &concatErr) {
		return concatErr.Output
	}
	var mixErr *types.AudioMixError
	if errors.As(err, &mixErr) {
		return mixErr.Output
	}
	return err.Error()
}

// silentCutPath names the pre-overlay intermediate next to the final output.
func silentCutPath(outputPath string) string {
	ext := filepath.Ext(outputPath)
	return strings.TrimSuffix(outputPath, ext) + ".cut" + ext
}

func trackJob(store jobs.Store, job *jobs.Job, mutate func(*jobs.Job)) {
	if store == nil {
		return
	}
	mutate(job)
	_ = store.Create(job)
}

func updateJob(store jobs.Store, job *jobs.Job, mutate func(*jobs.Job)) {
	mutate(job)
	if store == nil {
		return
	}
	_ = store.Update(job)
}

func defaultOutputPath(outDir, inputPath string, now time.Time) string {
	name := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	name = normalizePathSegment(name)
	if name == "" {
		name = "input"
	}
	ts := now.UTC().Format("20060102-150405Z")
	seed := fmt.Sprintf("%s|%d", inputPath, now.UTC().UnixNano())
	suffix := hash(seed)[:6]
	return filepath.Join(outDir, fmt.Sprintf("%s-trailer-%s-%s.mp4", name, ts, suffix))
}

func normalizePathSegment(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}

var _ ports.VideoEditor = usecase.Editor{}
