package ffmpeg

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConcatArgs builds the concat-demuxer invocation over a written manifest.
// Tier 1 copies both streams; the reencode tier re-encodes video and copies
// audio, mirroring ExtractArgs.
func (a *Adapter) ConcatArgs(manifestPath, outputPath string, reencode bool) []string {
	args := []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", manifestPath,
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
	return append(args, outputPath)
}

// WriteConcatManifest writes the concat-demuxer file list. Paths are made
// absolute and single-quoted per the demuxer's syntax, with embedded single
// quotes escaped as '\''. Unescaped quotes silently truncate entries.
func WriteConcatManifest(path string, inputs []string) error {
	var b strings.Builder
	for _, in := range inputs {
		abs, err := filepath.Abs(in)
		if err != nil {
			return fmt.Errorf("resolve %q: %w", in, err)
		}
		fmt.Fprintf(&b, "file '%s'\n", escapeConcatPath(abs))
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write concat manifest: %w", err)
	}
	return nil
}

func escapeConcatPath(p string) string {
	return strings.ReplaceAll(p, "'", `'\''`)
}
