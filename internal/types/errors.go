package types

import (
	"fmt"
	"strings"
)

// ValidationError reports bad or out-of-range segment/track input. It is
// always raised before any external process is spawned.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Reason
}

// ResourceError reports a missing input file or an unusable output location,
// detected before any subprocess call.
type ResourceError struct {
	Path string
	Op   string
	Err  error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("resource %s %q: %v", e.Op, e.Path, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

// ExtractionError means both the stream-copy and the re-encode tier failed for
// one segment. It carries enough context to replay the failing invocation.
type ExtractionError struct {
	Index   int
	Segment MediaSegment
	Args    []string
	Output  string
	Err     error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract segment %d [%.3fs-%.3fs]: %v\nargs: %s\n%s",
		e.Index, e.Segment.Start, e.Segment.End, e.Err, strings.Join(e.Args, " "), e.Output)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// ConcatenationError carries the full argument list plus captured engine
// output; concat failures are opaque without the exact invocation.
type ConcatenationError struct {
	Args   []string
	Output string
	Err    error
}

func (e *ConcatenationError) Error() string {
	return fmt.Sprintf("concatenate: %v\nargs: %s\n%s", e.Err, strings.Join(e.Args, " "), e.Output)
}

func (e *ConcatenationError) Unwrap() error { return e.Err }

// AudioMixError means the overlay mix failed after both tiers. Tracks lists
// every music input with its window so the failing graph can be rebuilt.
type AudioMixError struct {
	Tracks []MusicTrack
	Args   []string
	Output string
	Err    error
}

func (e *AudioMixError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "mix audio: %v", e.Err)
	for _, t := range e.Tracks {
		fmt.Fprintf(&b, "\ntrack %s [%.3fs-%.3fs] vol=%.3f", t.FilePath, t.Start, t.End, t.Volume)
	}
	fmt.Fprintf(&b, "\nargs: %s\n%s", strings.Join(e.Args, " "), e.Output)
	return b.String()
}

func (e *AudioMixError) Unwrap() error { return e.Err }
