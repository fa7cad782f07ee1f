package analysis

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/trailmixer/trailmixer/internal/types"
)

// Seconds decodes the timestamp shapes the analysis service actually emits.
// Despite the prompt demanding numeric seconds, real responses carry floats,
// "12.5s", "MM:SS", "HH:MM:SS.mmm", and occasionally "0s (00:00)" with the
// timecode in parentheses. Anything else is a validation failure, never a
// silent default.
type Seconds float64

var (
	parenRe = regexp.MustCompile(`\(([^)]+)\)`)
	hmsRe   = regexp.MustCompile(`^\d{1,2}:\d{2}:\d{2}(\.\d+)?$`)
	msRe    = regexp.MustCompile(`^\d{1,2}:\d{2}(\.\d+)?$`)
)

func (s *Seconds) UnmarshalJSON(b []byte) error {
	var num float64
	if err := json.Unmarshal(b, &num); err == nil {
		*s = Seconds(num)
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return &types.ValidationError{Reason: fmt.Sprintf("unsupported timestamp %s", string(b))}
	}
	sec, err := parseClock(str)
	if err != nil {
		return err
	}
	*s = Seconds(sec)
	return nil
}

func parseClock(raw string) (float64, error) {
	s := strings.TrimSpace(raw)

	// Prefer a parenthesized timecode: "0s (00:00)" -> "00:00".
	if m := parenRe.FindStringSubmatch(s); m != nil {
		s = strings.TrimSpace(m[1])
	}

	if strings.HasSuffix(s, "s") {
		if v, err := strconv.ParseFloat(strings.TrimSuffix(s, "s"), 64); err == nil {
			return v, nil
		}
	}

	switch {
	case hmsRe.MatchString(s):
		parts := strings.SplitN(s, ":", 3)
		hh, _ := strconv.Atoi(parts[0])
		mm, _ := strconv.Atoi(parts[1])
		ss, _ := strconv.ParseFloat(parts[2], 64)
		return float64(hh)*3600 + float64(mm)*60 + ss, nil
	case msRe.MatchString(s):
		parts := strings.SplitN(s, ":", 2)
		mm, _ := strconv.Atoi(parts[0])
		ss, _ := strconv.ParseFloat(parts[1], 64)
		return float64(mm)*60 + ss, nil
	}

	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, nil
	}
	return 0, &types.ValidationError{Reason: fmt.Sprintf("unsupported timestamp %q", raw)}
}
