package ffmpeg

import (
	"fmt"
	"math"
	"strings"

	"github.com/trailmixer/trailmixer/internal/types"
)

// MixArgs builds the overlay-mix invocation: the video stream is mapped
// through untouched while a filter graph synthesizes one audio stream from
// the original audio plus every music track. Tier 1 stream-copies the video;
// the reencode tier re-encodes it. The mixed audio is always encoded.
func (a *Adapter) MixArgs(videoPath string, tracks []types.MusicTrack, outputPath string, videoVolume, musicVolume float64, reencode bool) []string {
	args := []string{"-y", "-i", videoPath}
	for _, t := range tracks {
		args = append(args, "-i", t.FilePath)
	}
	args = append(args,
		"-filter_complex", BuildMixFilter(tracks, videoVolume, musicVolume),
		"-map", "0:v",
		"-map", "[aout]",
	)
	if reencode {
		args = append(args,
			"-c:v", fallbackVideoCodec,
			"-preset", fallbackPreset,
			"-crf", fallbackCRF,
		)
	} else {
		args = append(args, "-c:v", "copy")
	}
	return append(args, "-c:a", "aac", "-b:a", "192k", outputPath)
}

// BuildMixFilter constructs the filter_complex graph. Input 0 is the video;
// its audio is gained by videoVolume. Input i+1 is track i, whose chain is,
// in order: gain (track volume times the master music volume), fade envelopes
// within the track window, a trim so the contribution never exceeds end-start
// even when the music file is longer, and a constant stereo delay of start
// seconds so the track lands at the correct absolute time. All chains are
// summed with amix using duration=longest, so the video's full audio span is
// preserved even when no music covers the tail.
func BuildMixFilter(tracks []types.MusicTrack, videoVolume, musicVolume float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[0:a]volume=%s[a0]", fmtGain(videoVolume))

	labels := make([]string, 0, len(tracks)+1)
	labels = append(labels, "[a0]")

	for i, t := range tracks {
		win := t.Window()
		fmt.Fprintf(&b, ";[%d:a]volume=%s", i+1, fmtGain(t.Volume*musicVolume))
		if t.FadeIn > 0 {
			fmt.Fprintf(&b, ",afade=t=in:st=0:d=%s", fmtSeconds(t.FadeIn))
		}
		if t.FadeOut > 0 {
			st := win - t.FadeOut
			if st < 0 {
				st = 0
			}
			fmt.Fprintf(&b, ",afade=t=out:st=%s:d=%s", fmtSeconds(st), fmtSeconds(t.FadeOut))
		}
		fmt.Fprintf(&b, ",atrim=0:%s", fmtSeconds(win))
		if t.Start > 0 {
			ms := int(math.Round(t.Start * 1000))
			fmt.Fprintf(&b, ",adelay=%d|%d", ms, ms)
		}
		label := fmt.Sprintf("[a%d]", i+1)
		fmt.Fprintf(&b, "%s", label)
		labels = append(labels, label)
	}

	fmt.Fprintf(&b, ";%samix=inputs=%d:duration=longest[aout]", strings.Join(labels, ""), len(tracks)+1)
	return b.String()
}
