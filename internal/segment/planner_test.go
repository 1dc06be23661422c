package segment_test

// Notes:
// - Black-box testing via package segment_test.
// - The central property is exact coverage: windows are contiguous,
//   non-overlapping, and cover [0, duration) exactly once.

import (
	"errors"
	"testing"
	"time"

	"github.com/alnah/go-videodigest/internal/segment"
)

// checkExactCover asserts the planner's coverage invariant.
func checkExactCover(t *testing.T, windows []segment.Window, duration time.Duration) {
	t.Helper()

	if len(windows) == 0 {
		t.Fatal("no windows planned")
	}
	if windows[0].Start != 0 {
		t.Errorf("first window starts at %v, want 0", windows[0].Start)
	}
	if windows[len(windows)-1].End != duration {
		t.Errorf("last window ends at %v, want %v", windows[len(windows)-1].End, duration)
	}
	for i, w := range windows {
		if w.Index != i {
			t.Errorf("window %d has Index %d", i, w.Index)
		}
		if w.End <= w.Start {
			t.Errorf("window %d is empty or inverted: %v-%v", i, w.Start, w.End)
		}
		if i > 0 && w.Start != windows[i-1].End {
			t.Errorf("gap or overlap between window %d and %d: %v != %v",
				i-1, i, windows[i-1].End, w.Start)
		}
	}
}

func TestPlan_SingleWindowWhenSourceFits(t *testing.T) {
	t.Parallel()

	// 10 minutes at 1000 B/s is 600KB, far under the 20MB default.
	duration := 10 * time.Minute
	windows, err := segment.Plan(duration, 0, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(windows) != 1 {
		t.Fatalf("planned %d windows, want 1", len(windows))
	}
	checkExactCover(t, windows, duration)
}

func TestPlan_SplitsOversizedSource(t *testing.T) {
	t.Parallel()

	// 40 minutes at a rate where the cap holds 16 minutes of audio:
	// 0-16, 16-32, 32-40.
	duration := 40 * time.Minute
	maxBytes := int64(16 * 60 * 1000)
	windows, err := segment.Plan(duration, maxBytes, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(windows) != 3 {
		t.Fatalf("planned %d windows, want 3", len(windows))
	}
	checkExactCover(t, windows, duration)

	if windows[0].End != 16*time.Minute {
		t.Errorf("first window ends at %v, want 16m", windows[0].End)
	}
	if windows[2].Length() != 8*time.Minute {
		t.Errorf("last window length %v, want 8m", windows[2].Length())
	}
}

func TestPlan_ExactCoverProperty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		duration time.Duration
		maxBytes int64
		bps      float64
	}{
		{name: "even split", duration: time.Hour, maxBytes: 600 * 1000, bps: 1000},
		{name: "ragged tail", duration: 61 * time.Minute, maxBytes: 600 * 1000, bps: 1000},
		{name: "short source", duration: 3 * time.Second, maxBytes: 1000, bps: 1000},
		{name: "fractional rate", duration: 17*time.Minute + 31*time.Second, maxBytes: 200 * 1024, bps: 733.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			windows, err := segment.Plan(tt.duration, tt.maxBytes, tt.bps)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			checkExactCover(t, windows, tt.duration)
		})
	}
}

func TestPlan_MinWindowLengthFloor(t *testing.T) {
	t.Parallel()

	// An absurd byte rate would plan sub-second windows; the floor keeps
	// them at 5s.
	duration := time.Minute
	windows, err := segment.Plan(duration, 100, 1e9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	checkExactCover(t, windows, duration)
	if len(windows) != 12 {
		t.Errorf("planned %d windows, want 12 (5s floor over 60s)", len(windows))
	}
}

func TestPlan_InvalidInputs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		duration time.Duration
		bps      float64
	}{
		{name: "zero duration", duration: 0, bps: 1000},
		{name: "negative duration", duration: -time.Second, bps: 1000},
		{name: "zero rate", duration: time.Minute, bps: 0},
		{name: "negative rate", duration: time.Minute, bps: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := segment.Plan(tt.duration, 0, tt.bps)
			if !errors.Is(err, segment.ErrPlanning) {
				t.Errorf("error = %v, want ErrPlanning", err)
			}
		})
	}
}
