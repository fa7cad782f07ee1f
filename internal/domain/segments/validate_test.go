package segments

import (
	"errors"
	"reflect"
	"testing"

	"github.com/trailmixer/trailmixer/internal/types"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		raw      []types.MediaSegment
		duration float64
		want     []types.MediaSegment
		wantErr  bool
	}{
		{
			name:     "negative start clamps to zero",
			raw:      []types.MediaSegment{{Start: -5, End: 10}},
			duration: 20,
			want:     []types.MediaSegment{{Start: 0, End: 10}},
		},
		{
			name:     "fully out of range is dropped",
			raw:      []types.MediaSegment{{Start: 25, End: 30}, {Start: 2, End: 4}},
			duration: 20,
			want:     []types.MediaSegment{{Start: 2, End: 4}},
		},
		{
			name:     "end past duration clamps",
			raw:      []types.MediaSegment{{Start: 15, End: 30}},
			duration: 20,
			want:     []types.MediaSegment{{Start: 15, End: 20}},
		},
		{
			name:     "inverted range is dropped",
			raw:      []types.MediaSegment{{Start: 8, End: 3}, {Start: 0, End: 1}},
			duration: 20,
			want:     []types.MediaSegment{{Start: 0, End: 1}},
		},
		{
			name:     "survivors sorted by start",
			raw:      []types.MediaSegment{{Start: 90, End: 100}, {Start: 0, End: 10}, {Start: 40, End: 55}},
			duration: 100,
			want:     []types.MediaSegment{{Start: 0, End: 10}, {Start: 40, End: 55}, {Start: 90, End: 100}},
		},
		{
			name:     "nothing survives",
			raw:      []types.MediaSegment{{Start: 25, End: 30}, {Start: 7, End: 7}},
			duration: 20,
			wantErr:  true,
		},
		{
			name:     "empty input",
			raw:      nil,
			duration: 20,
			wantErr:  true,
		},
		{
			name:     "zero duration",
			raw:      []types.MediaSegment{{Start: 0, End: 1}},
			duration: 0,
			wantErr:  true,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := Validate(tc.raw, tc.duration)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				var verr *types.ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("expected ValidationError, got %T: %v", err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("validate: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestValidateIdempotent(t *testing.T) {
	t.Parallel()

	valid := []types.MediaSegment{{Start: 0, End: 10}, {Start: 40, End: 55}, {Start: 90, End: 100}}
	once, err := Validate(valid, 100)
	if err != nil {
		t.Fatalf("first validate: %v", err)
	}
	twice, err := Validate(once, 100)
	if err != nil {
		t.Fatalf("second validate: %v", err)
	}
	if !reflect.DeepEqual(once, valid) || !reflect.DeepEqual(twice, valid) {
		t.Fatalf("validation of valid input changed it: %v -> %v -> %v", valid, once, twice)
	}
}

func TestTotalDuration(t *testing.T) {
	t.Parallel()

	segs := []types.MediaSegment{{Start: 0, End: 10}, {Start: 40, End: 55}, {Start: 90, End: 100}}
	if got := TotalDuration(segs); got != 35 {
		t.Fatalf("total duration = %v, want 35", got)
	}
}
