package ffmpeg

import (
	"context"
	"os/exec"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/trailmixer/trailmixer/internal/types"
)

// Fallback encoding settings. The re-encode tier trades CPU time for
// correctness when stream copy at a non-key-frame boundary yields a corrupt
// or empty file.
const (
	fallbackVideoCodec = "libx264"
	fallbackPreset     = "veryfast"
	fallbackCRF        = "23"
)

type Adapter struct {
	ffmpeg string
	log    zerolog.Logger
}

func New(ffmpegPath string, log zerolog.Logger) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &Adapter{ffmpeg: ffmpegPath, log: log.With().Str("component", "ffmpeg").Logger()}
}

// Bin returns the engine binary the built argument vectors are meant for.
func (a *Adapter) Bin() string { return a.ffmpeg }

// ExtractArgs builds the argument vector that cuts one validated segment into
// a standalone file. The seek is placed before -i so ffmpeg jumps to the
// nearest key frame instead of decoding from zero, and timestamps are rebased
// so the output starts at t=0. With reencode false both streams are copied
// bit-for-bit; with reencode true the video is re-encoded and audio is still
// copied.
func (a *Adapter) ExtractArgs(sourcePath string, seg types.MediaSegment, outputPath string, reencode bool) []string {
	args := []string{
		"-y",
		"-ss", fmtSeconds(seg.Start),
		"-i", sourcePath,
		"-t", fmtSeconds(seg.Duration()),
	}
	if reencode {
		args = append(args,
			"-c:v", fallbackVideoCodec,
			"-preset", fallbackPreset,
			"-crf", fallbackCRF,
			"-c:a", "copy",
		)
	} else {
		args = append(args, "-c", "copy")
	}
	args = append(args, "-avoid_negative_ts", "make_zero", outputPath)
	return args
}

// Runner executes the engine with output captured whole. Used as the real
// ports.Runner; tests substitute a fake.
type Runner struct {
	log zerolog.Logger
}

func NewRunner(log zerolog.Logger) *Runner {
	return &Runner{log: log.With().Str("component", "ffmpeg").Logger()}
}

func (r *Runner) Run(ctx context.Context, name string, args []string) ([]byte, error) {
	r.log.Debug().Str("cmd", name).Strs("args", args).Msg("executing engine")
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		r.log.Debug().Err(err).Str("output", string(out)).Msg("engine exited non-zero")
	}
	return out, err
}

func fmtSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 3, 64)
}

func fmtGain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
