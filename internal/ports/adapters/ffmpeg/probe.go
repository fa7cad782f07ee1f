package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	ffmpeggo "github.com/u2takey/ffmpeg-go"

	"github.com/trailmixer/trailmixer/internal/types"
)

// Probe discovers media duration via ffprobe's JSON format section.
type Probe struct{}

func NewProbe() *Probe { return &Probe{} }

type probeData struct {
	Format probeFormat `json:"format"`
}

type probeFormat struct {
	Filename string `json:"filename"`
	Duration string `json:"duration"`
	Size     string `json:"size"`
	BitRate  string `json:"bit_rate"`
}

func (p *Probe) Duration(_ context.Context, path string) (float64, error) {
	if _, err := os.Stat(path); err != nil {
		return 0, &types.ResourceError{Path: path, Op: "probe", Err: err}
	}
	raw, err := ffmpeggo.Probe(path)
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	var data probeData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return 0, fmt.Errorf("parse ffprobe output for %s: %w", path, err)
	}
	s := strings.TrimSpace(data.Format.Duration)
	if s == "" {
		return 0, fmt.Errorf("ffprobe reported no duration for %s", path)
	}
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return sec, nil
}
