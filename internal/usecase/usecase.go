package usecase

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/trailmixer/trailmixer/internal/ports"
	"github.com/trailmixer/trailmixer/internal/ports/adapters/ffmpeg"
	"github.com/trailmixer/trailmixer/internal/types"
)

type Deps struct {
	Runner ports.Runner
	FFmpeg *ffmpeg.Adapter
	Log    zerolog.Logger
}

// Editor implements ports.VideoEditor on top of the engine adapter. It is
// purely functional over filesystem paths; every method validates its inputs
// before spawning a subprocess so bad input fails with a precise domain error
// instead of an engine-level one.
type Editor struct{ d Deps }

func New(d Deps) Editor { return Editor{d: d} }

var _ ports.VideoEditor = Editor{}

// ExtractSegments cuts each validated segment from sourcePath into a
// standalone file under workDir, strictly in order. Extraction for one job is
// sequential: later stages depend on earlier outputs. Any segment failing
// both tiers aborts the whole job; no partial trailers.
func (u Editor) ExtractSegments(ctx context.Context, sourcePath string, segs []types.MediaSegment, workDir string) ([]string, error) {
	if len(segs) == 0 {
		return nil, &types.ValidationError{Reason: "no segments to extract"}
	}
	if _, err := os.Stat(sourcePath); err != nil {
		return nil, &types.ResourceError{Path: sourcePath, Op: "extract", Err: err}
	}

	paths := make([]string, 0, len(segs))
	for i, seg := range segs {
		out := filepath.Join(workDir, fmt.Sprintf("segment_%03d.mp4", i))
		fast := u.d.FFmpeg.ExtractArgs(sourcePath, seg, out, false)
		fallback := u.d.FFmpeg.ExtractArgs(sourcePath, seg, out, true)

		u.d.Log.Info().Int("segment", i).Float64("start", seg.Start).Float64("end", seg.End).Msg("extracting segment")
		att := newAttempt(u.d.Runner, u.d.Log, u.d.FFmpeg.Bin(), out)
		diag, err := att.run(ctx, fast, fallback)
		if err != nil {
			return nil, &types.ExtractionError{Index: i, Segment: seg, Args: fallback, Output: string(diag), Err: err}
		}
		paths = append(paths, out)
	}
	return paths, nil
}

// Concatenate joins the given files back-to-back in list order. All inputs
// must already exist and share compatible codecs, which ExtractSegments
// guarantees for its own outputs. A single-element list degenerates to a
// plain file copy.
func (u Editor) Concatenate(ctx context.Context, paths []string, outputPath string) (string, error) {
	if len(paths) == 0 {
		return "", &types.ValidationError{Reason: "no files to concatenate"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return "", &types.ResourceError{Path: p, Op: "concatenate", Err: err}
		}
	}

	if len(paths) == 1 {
		if err := copyFile(paths[0], outputPath); err != nil {
			return "", &types.ResourceError{Path: outputPath, Op: "copy", Err: err}
		}
		return outputPath, nil
	}

	manifest, err := os.CreateTemp("", "trailmixer-concat-*.txt")
	if err != nil {
		return "", &types.ResourceError{Path: outputPath, Op: "concat manifest", Err: err}
	}
	manifestPath := manifest.Name()
	_ = manifest.Close()
	defer os.Remove(manifestPath)

	if err := ffmpeg.WriteConcatManifest(manifestPath, paths); err != nil {
		return "", &types.ResourceError{Path: manifestPath, Op: "concat manifest", Err: err}
	}

	fast := u.d.FFmpeg.ConcatArgs(manifestPath, outputPath, false)
	fallback := u.d.FFmpeg.ConcatArgs(manifestPath, outputPath, true)

	u.d.Log.Info().Int("inputs", len(paths)).Str("output", outputPath).Msg("concatenating")
	att := newAttempt(u.d.Runner, u.d.Log, u.d.FFmpeg.Bin(), outputPath)
	diag, err := att.run(ctx, fast, fallback)
	if err != nil {
		return "", &types.ConcatenationError{Args: fallback, Output: string(diag), Err: err}
	}
	return outputPath, nil
}

// CropAndStitch composes extraction and concatenation over a temp directory
// owned exclusively by this call. Intermediates are removed on success and
// failure alike; only the final output survives.
func (u Editor) CropAndStitch(ctx context.Context, sourcePath string, segs []types.MediaSegment, outputPath string) (string, error) {
	workDir, err := os.MkdirTemp("", "trailmixer-"+uuid.NewString())
	if err != nil {
		return "", &types.ResourceError{Path: sourcePath, Op: "workspace", Err: err}
	}
	defer os.RemoveAll(workDir)

	parts, err := u.ExtractSegments(ctx, sourcePath, segs, workDir)
	if err != nil {
		return "", err
	}
	return u.Concatenate(ctx, parts, outputPath)
}

// OverlayMusic produces a copy of the video whose single audio stream mixes
// the original audio at videoVolume with every track at its window. All
// preconditions are checked before any subprocess call.
func (u Editor) OverlayMusic(ctx context.Context, videoPath string, tracks []types.MusicTrack, outputPath string, videoVolume, musicVolume float64) (string, error) {
	if videoVolume < 0 || musicVolume < 0 {
		return "", &types.ValidationError{Reason: fmt.Sprintf("negative gain: video=%.3f music=%.3f", videoVolume, musicVolume)}
	}
	if _, err := os.Stat(videoPath); err != nil {
		return "", &types.ResourceError{Path: videoPath, Op: "mix", Err: err}
	}
	for i, t := range tracks {
		if t.End <= t.Start {
			return "", &types.ValidationError{Reason: fmt.Sprintf("track %d window [%.3fs-%.3fs] is empty", i, t.Start, t.End)}
		}
		if t.Volume < 0 {
			return "", &types.ValidationError{Reason: fmt.Sprintf("track %d has negative volume %.3f", i, t.Volume)}
		}
		if _, err := os.Stat(t.FilePath); err != nil {
			return "", &types.ResourceError{Path: t.FilePath, Op: "mix", Err: err}
		}
	}

	fast := u.d.FFmpeg.MixArgs(videoPath, tracks, outputPath, videoVolume, musicVolume, false)
	fallback := u.d.FFmpeg.MixArgs(videoPath, tracks, outputPath, videoVolume, musicVolume, true)

	u.d.Log.Info().Int("tracks", len(tracks)).Str("output", outputPath).Msg("mixing background music")
	att := newAttempt(u.d.Runner, u.d.Log, u.d.FFmpeg.Bin(), outputPath)
	diag, err := att.run(ctx, fast, fallback)
	if err != nil {
		return "", &types.AudioMixError{Tracks: tracks, Args: fallback, Output: string(diag), Err: err}
	}
	return outputPath, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
