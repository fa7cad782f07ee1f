package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/trailmixer/trailmixer/internal/ports"
)

// minOutputBytes is the smallest plausible media file. Stream copy at a bad
// key-frame boundary can exit zero yet write a header-only file; the size
// check catches that.
const minOutputBytes = 1 << 10

// attemptState tracks the fast/fallback progression for one unit of work.
// There is no retry beyond the single fallback: a second failure is terminal
// and propagates as a typed error.
type attemptState int

const (
	statePending attemptState = iota
	stateFastAttempt
	stateFastFailed
	stateFallbackAttempt
	stateSucceeded
	stateFailed
)

func (s attemptState) String() string {
	switch s {
	case statePending:
		return "pending"
	case stateFastAttempt:
		return "fast_attempt"
	case stateFastFailed:
		return "fast_failed"
	case stateFallbackAttempt:
		return "fallback_attempt"
	case stateSucceeded:
		return "succeeded"
	case stateFailed:
		return "failed"
	}
	return "unknown"
}

// attempt runs one engine invocation through the two-tier strategy: try the
// fast argument vector, validate the produced file, and fall back to the
// re-encode vector when the fast tier exits non-zero or leaves an invalid
// output. The fast tier's failure is logged as a diagnostic only.
type attempt struct {
	runner ports.Runner
	log    zerolog.Logger
	bin    string
	output string
	state  attemptState
}

func newAttempt(runner ports.Runner, log zerolog.Logger, bin, output string) *attempt {
	return &attempt{runner: runner, log: log, bin: bin, output: output, state: statePending}
}

// run returns the captured engine output and error of the losing tier when
// both tiers fail; on success both returns are nil.
func (a *attempt) run(ctx context.Context, fast, fallback []string) ([]byte, error) {
	a.state = stateFastAttempt
	out, err := a.runner.Run(ctx, a.bin, fast)
	if err == nil {
		if err = a.validateOutput(); err == nil {
			a.state = stateSucceeded
			return nil, nil
		}
	}
	a.state = stateFastFailed
	a.log.Warn().Err(err).Str("output", a.output).Msg("fast tier failed, falling back to re-encode")
	a.log.Debug().Str("engine", string(out)).Msg("fast tier diagnostics")

	// A partial file from the fast tier must not satisfy the fallback's
	// output validation.
	_ = os.Remove(a.output)

	a.state = stateFallbackAttempt
	out, err = a.runner.Run(ctx, a.bin, fallback)
	if err == nil {
		if err = a.validateOutput(); err == nil {
			a.state = stateSucceeded
			return nil, nil
		}
	}
	a.state = stateFailed
	return out, err
}

func (a *attempt) validateOutput() error {
	info, err := os.Stat(a.output)
	if err != nil {
		return fmt.Errorf("output missing: %w", err)
	}
	if info.Size() <= minOutputBytes {
		return errors.New("output under minimal size threshold")
	}
	return nil
}
