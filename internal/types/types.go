package types

// MediaSegment is a contiguous time range of the source video to keep in the
// final output. Ranges are normalized by segments.Validate before any
// processing component sees them; afterwards they are read-only.
type MediaSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

func (s MediaSegment) Duration() float64 {
	return s.End - s.Start
}

// MusicTrack places one background-music file at an absolute window of the
// output timeline. Volume is the track's own gain; the mixer multiplies it by
// the master music volume. FadeIn/FadeOut are envelope durations in seconds,
// zero meaning no fade.
type MusicTrack struct {
	FilePath string  `json:"file_path"`
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Volume   float64 `json:"volume"`
	FadeIn   float64 `json:"fade_in,omitempty"`
	FadeOut  float64 `json:"fade_out,omitempty"`
}

func (t MusicTrack) Window() float64 {
	return t.End - t.Start
}

// ProcessResult describes the outcome of one pipeline stage. Success implies
// the output exists and is non-trivially sized.
type ProcessResult struct {
	OutputPath string `json:"output_path"`
	Bytes      int64  `json:"bytes"`
	Success    bool   `json:"success"`
	Diagnostic string `json:"diagnostic,omitempty"`
}
