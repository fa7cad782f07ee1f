// Package analysis consumes reports produced by the external
// content-understanding service. Only the report format is owned here; the
// service itself sits behind the upload/analyze boundary and is not called.
package analysis

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/trailmixer/trailmixer/internal/types"
)

// Report is one analysis run over a source video: which time ranges to keep
// and which music windows to lay over the cropped timeline.
type Report struct {
	VideoID          string          `json:"video_id"`
	VideoTitle       string          `json:"video_title"`
	VideoDescription string          `json:"video_description,omitempty"`
	VideoLength      Seconds         `json:"video_length"`
	OverallMood      string          `json:"overall_mood"`
	Segments         []ReportSegment `json:"segments"`
	Music            MusicPlan       `json:"music"`
}

// ReportSegment is one proposed time range. Include mirrors the service's
// keep/drop decision; excluded segments are ignored by KeptSegments.
type ReportSegment struct {
	Start     Seconds `json:"start_time"`
	End       Seconds `json:"end_time"`
	Sentiment string  `json:"sentiment"`
	Style     string  `json:"music_style"`
	Intensity string  `json:"intensity"`
	Include   bool    `json:"include"`
}

type MusicPlan struct {
	Tracks []PlannedTrack `json:"tracks"`
}

// PlannedTrack is a music window on the cropped timeline, not yet bound to a
// file on disk; the music picker resolves style and sentiment to a path.
type PlannedTrack struct {
	Start     Seconds `json:"start"`
	End       Seconds `json:"end"`
	Style     string  `json:"style"`
	Sentiment string  `json:"sentiment"`
	Intensity string  `json:"intensity"`
}

// Load reads and validates a report file. Malformed or missing fields are
// rejected with a ValidationError rather than silently defaulted.
func Load(path string) (*Report, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &types.ResourceError{Path: path, Op: "read report", Err: err}
	}
	return Parse(b)
}

func Parse(b []byte) (*Report, error) {
	var r Report
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, &types.ValidationError{Reason: fmt.Sprintf("malformed analysis report: %v", err)}
	}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *Report) validate() error {
	if len(r.Segments) == 0 {
		return &types.ValidationError{Reason: "analysis report has no segments"}
	}
	for i, s := range r.Segments {
		if s.End <= s.Start {
			return &types.ValidationError{Reason: fmt.Sprintf("segment %d window [%.3fs-%.3fs] is empty", i, s.Start, s.End)}
		}
		if s.Sentiment == "" {
			return &types.ValidationError{Reason: fmt.Sprintf("segment %d is missing a sentiment", i)}
		}
	}
	for i, t := range r.Music.Tracks {
		if t.End <= t.Start {
			return &types.ValidationError{Reason: fmt.Sprintf("music track %d window [%.3fs-%.3fs] is empty", i, t.Start, t.End)}
		}
		if t.Sentiment == "" || t.Style == "" {
			return &types.ValidationError{Reason: fmt.Sprintf("music track %d is missing style or sentiment", i)}
		}
	}
	return nil
}

// KeptSegments returns the raw time ranges the service marked for keeping, in
// report order. They are still untrusted: the caller clamps them against the
// probed source duration.
func (r *Report) KeptSegments() []types.MediaSegment {
	out := make([]types.MediaSegment, 0, len(r.Segments))
	for _, s := range r.Segments {
		if !s.Include {
			continue
		}
		out = append(out, types.MediaSegment{Start: float64(s.Start), End: float64(s.End)})
	}
	return out
}
