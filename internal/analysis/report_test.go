package analysis

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/trailmixer/trailmixer/internal/types"
)

func TestSecondsUnmarshal(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		in      string
		want    float64
		wantErr bool
	}{
		{name: "number", in: `14.5`, want: 14.5},
		{name: "integer", in: `7`, want: 7},
		{name: "suffixed seconds", in: `"12.5s"`, want: 12.5},
		{name: "minutes seconds", in: `"01:30"`, want: 90},
		{name: "hours minutes seconds", in: `"01:02:03.500"`, want: 3723.5},
		{name: "parenthesized timecode", in: `"0s (00:45)"`, want: 45},
		{name: "plain string number", in: `"33"`, want: 33},
		{name: "garbage", in: `"around one minute"`, wantErr: true},
		{name: "object", in: `{"sec": 3}`, wantErr: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var s Seconds
			err := json.Unmarshal([]byte(tc.in), &s)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", s)
				}
				return
			}
			if err != nil {
				t.Fatalf("unmarshal %s: %v", tc.in, err)
			}
			if math.Abs(float64(s)-tc.want) > 1e-9 {
				t.Fatalf("got %v, want %v", float64(s), tc.want)
			}
		})
	}
}

const sampleReport = `{
  "video_id": "hack_the_6ix",
  "video_title": "Hackathon Event Highlights",
  "video_length": 145,
  "overall_mood": "energetic",
  "segments": [
    {"start_time": 0, "end_time": 7, "sentiment": "exciting", "music_style": "Pop", "intensity": "high", "include": true},
    {"start_time": 11, "end_time": 18, "sentiment": "calm", "music_style": "Pop", "intensity": "medium", "include": false},
    {"start_time": "00:34", "end_time": "40s", "sentiment": "energetic", "music_style": "Pop", "intensity": "high", "include": true}
  ],
  "music": {
    "tracks": [
      {"start": 0, "end": 7, "style": "Pop", "intensity": "high", "sentiment": "exciting"},
      {"start": 7, "end": 13, "style": "Pop", "intensity": "medium", "sentiment": "calm"}
    ]
  }
}`

func TestParseReport(t *testing.T) {
	t.Parallel()

	r, err := Parse([]byte(sampleReport))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if r.VideoTitle != "Hackathon Event Highlights" || float64(r.VideoLength) != 145 {
		t.Fatalf("header wrong: %+v", r)
	}

	kept := r.KeptSegments()
	want := []types.MediaSegment{{Start: 0, End: 7}, {Start: 34, End: 40}}
	if len(kept) != len(want) {
		t.Fatalf("kept %d segments, want %d", len(kept), len(want))
	}
	for i := range want {
		if kept[i] != want[i] {
			t.Fatalf("kept[%d] = %v, want %v", i, kept[i], want[i])
		}
	}
}

func TestParseReportRejectsBadInput(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
	}{
		{name: "not json", in: `{`},
		{name: "no segments", in: `{"video_title":"x","video_length":10,"segments":[]}`},
		{
			name: "empty segment window",
			in:   `{"video_length":10,"segments":[{"start_time":5,"end_time":5,"sentiment":"calm","include":true}]}`,
		},
		{
			name: "missing sentiment",
			in:   `{"video_length":10,"segments":[{"start_time":0,"end_time":5,"include":true}]}`,
		},
		{
			name: "track missing style",
			in:   `{"video_length":10,"segments":[{"start_time":0,"end_time":5,"sentiment":"calm","include":true}],"music":{"tracks":[{"start":0,"end":5,"sentiment":"calm"}]}}`,
		},
		{
			name: "unparseable timestamp",
			in:   `{"video_length":10,"segments":[{"start_time":"whenever","end_time":5,"sentiment":"calm","include":true}]}`,
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse([]byte(tc.in))
			var vErr *types.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %T: %v", err, err)
			}
		})
	}
}
