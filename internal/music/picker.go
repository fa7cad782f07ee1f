// Package music resolves planned music windows to files on disk. The mapping
// from sentiment to a candidate file is a static lookup table; the library is
// laid out as <root>/<style>/<sentiment>.mp3.
package music

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/trailmixer/trailmixer/internal/analysis"
	"github.com/trailmixer/trailmixer/internal/types"
)

// defaultFade is the envelope applied to every picked track so adjacent
// windows blend instead of cutting hard.
const defaultFade = 1.0

var styles = map[string]string{
	"classical":  "classical",
	"hiphop":     "hiphop",
	"hip hop":    "hiphop",
	"pop":        "pop",
	"electronic": "electronic",
	"meme":       "meme",
}

var sentiments = []string{"happy", "sad", "energetic", "calm", "dramatic", "romantic", "suspenseful"}

// Synonym buckets for sentiments the analysis service emits outside the
// canonical seven. Order matters: a label matching words from several buckets
// resolves to the first one, so the list is a priority, not a set.
var fuzzySentiments = []struct {
	canonical string
	words     []string
}{
	{"suspenseful", []string{"tense", "intense", "anxious"}},
	{"energetic", []string{"exciting", "upbeat", "lively"}},
	{"calm", []string{"peaceful", "relaxed", "soothing"}},
	{"happy", []string{"positive", "joyful", "cheerful", "fun"}},
	{"sad", []string{"negative", "melancholy", "depressing"}},
	{"dramatic", []string{"epic", "cinematic", "powerful"}},
	{"romantic", []string{"love", "tender", "sweet"}},
}

var intensityVolume = map[string]float64{
	"low":    0.5,
	"medium": 0.75,
	"high":   1.0,
}

// Picker binds planned tracks to files under the library root.
type Picker struct {
	root string
}

func NewPicker(root string) *Picker {
	return &Picker{root: root}
}

// Pick resolves every planned window into a MusicTrack with a concrete file
// path and an intensity-scaled volume. Unknown styles, sentiments, or
// intensities are rejected: a wrong guess here would put the wrong mood under
// the whole trailer.
func (p *Picker) Pick(planned []analysis.PlannedTrack) ([]types.MusicTrack, error) {
	out := make([]types.MusicTrack, 0, len(planned))
	for i, pt := range planned {
		style, ok := styles[strings.ToLower(strings.TrimSpace(pt.Style))]
		if !ok {
			return nil, &types.ValidationError{Reason: fmt.Sprintf("track %d: unknown music style %q", i, pt.Style)}
		}
		sentiment, err := MapSentiment(pt.Sentiment)
		if err != nil {
			return nil, &types.ValidationError{Reason: fmt.Sprintf("track %d: %v", i, err)}
		}
		vol, ok := intensityVolume[strings.ToLower(strings.TrimSpace(pt.Intensity))]
		if !ok {
			return nil, &types.ValidationError{Reason: fmt.Sprintf("track %d: unknown intensity %q", i, pt.Intensity)}
		}
		out = append(out, types.MusicTrack{
			FilePath: filepath.Join(p.root, style, sentiment+".mp3"),
			Start:    float64(pt.Start),
			End:      float64(pt.End),
			Volume:   vol,
			FadeIn:   defaultFade,
			FadeOut:  defaultFade,
		})
	}
	return out, nil
}

// MapSentiment normalizes a reported sentiment to one of the seven the
// library carries, accepting the known synonym buckets.
func MapSentiment(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	for _, known := range sentiments {
		if s == known {
			return known, nil
		}
	}
	for _, bucket := range fuzzySentiments {
		for _, w := range bucket.words {
			if strings.Contains(s, w) {
				return bucket.canonical, nil
			}
		}
	}
	return "", fmt.Errorf("unknown sentiment %q", raw)
}
