package segments

import (
	"fmt"
	"sort"

	"github.com/trailmixer/trailmixer/internal/types"
)

// Validate clamps raw time ranges against the true media duration and drops
// the ones that collapse. Upstream proposals come from an external analysis
// service or user edits and routinely reference times past the real media
// length; without clamping every downstream ffmpeg call fails with an opaque
// engine error instead of a clear domain error.
//
// Each range has start and end clamped independently into [0, duration]; a
// range whose end <= start after clamping is discarded. The survivors are
// returned sorted ascending by start. Validate is idempotent: an already
// valid, sorted, in-range list comes back unchanged.
func Validate(raw []types.MediaSegment, duration float64) ([]types.MediaSegment, error) {
	if duration <= 0 {
		return nil, &types.ValidationError{Reason: fmt.Sprintf("source duration %.3fs is not positive", duration)}
	}

	out := make([]types.MediaSegment, 0, len(raw))
	for _, s := range raw {
		s.Start = clamp(s.Start, 0, duration)
		s.End = clamp(s.End, 0, duration)
		if s.End <= s.Start {
			continue
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil, &types.ValidationError{Reason: fmt.Sprintf("no usable segments after clamping %d proposals to %.3fs", len(raw), duration)}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out, nil
}

// TotalDuration sums end-start over the list.
func TotalDuration(segs []types.MediaSegment) float64 {
	var total float64
	for _, s := range segs {
		total += s.Duration()
	}
	return total
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
