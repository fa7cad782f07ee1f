package ports

import (
	"context"

	"github.com/trailmixer/trailmixer/internal/types"
)

// Runner launches one external engine process and blocks until it exits.
// Stdout and stderr are captured, not streamed, and returned verbatim so they
// can be attached to typed errors. A non-nil error means a non-zero exit or a
// failure to launch; a caller-level timeout surfaces here as the same error.
type Runner interface {
	Run(ctx context.Context, name string, args []string) ([]byte, error)
}

// Prober reports the true duration of a media file in seconds, from the
// container's format metadata.
type Prober interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// VideoEditor is the processing surface exposed to the surrounding CLI/HTTP
// layer. Implementations are purely functional over filesystem paths and hold
// no state beyond one invocation.
type VideoEditor interface {
	ExtractSegments(ctx context.Context, sourcePath string, segs []types.MediaSegment, workDir string) ([]string, error)
	Concatenate(ctx context.Context, paths []string, outputPath string) (string, error)
	CropAndStitch(ctx context.Context, sourcePath string, segs []types.MediaSegment, outputPath string) (string, error)
	OverlayMusic(ctx context.Context, videoPath string, tracks []types.MusicTrack, outputPath string, videoVolume, musicVolume float64) (string, error)
}
