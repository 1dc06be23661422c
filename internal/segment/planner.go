// Package segment plans time windows over a media source and materializes
// them as independently transcribable audio files sized under the
// transcription service's per-request limit.
package segment

import (
	"fmt"
	"time"

	"github.com/alnah/go-videodigest/internal/format"
)

// Planning parameters.
const (
	// DefaultMaxSegmentSize is the target maximum segment size in bytes.
	// The transcription API limit is 25MB; 20MB leaves a VBR safety margin.
	DefaultMaxSegmentSize = 20 * 1024 * 1024

	// minWindowLength is the floor for planned window lengths.
	// Prevents pathological over-splitting when the bytes-per-second
	// estimate is absurdly high.
	minWindowLength = 5 * time.Second
)

// Window is a half-open interval [Start, End) over the source audio.
// Windows produced by Plan are contiguous, non-overlapping, and cover
// [0, duration) exactly once.
type Window struct {
	Index int
	Start time.Duration
	End   time.Duration
}

// Length returns the window's duration.
func (w Window) Length() time.Duration {
	return w.End - w.Start
}

// String returns a human-readable representation for progress output.
func (w Window) String() string {
	return fmt.Sprintf("window %d: %s-%s",
		w.Index,
		format.Duration(w.Start),
		format.Duration(w.End))
}

// Plan computes the sequence of windows for a source of the given duration,
// such that each window's estimated encoded size stays under maxBytes at the
// given bytes-per-second rate. If the whole source fits under the limit, a
// single window covering it is returned.
func Plan(duration time.Duration, maxBytes int64, bytesPerSecond float64) ([]Window, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("%w: duration %v", ErrPlanning, duration)
	}
	if bytesPerSecond <= 0 {
		return nil, fmt.Errorf("%w: bytes per second %v", ErrPlanning, bytesPerSecond)
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxSegmentSize
	}

	windowLength := time.Duration(float64(maxBytes) / bytesPerSecond * float64(time.Second))
	if windowLength < minWindowLength {
		windowLength = minWindowLength
	}

	if windowLength >= duration {
		return []Window{{Index: 0, Start: 0, End: duration}}, nil
	}

	var windows []Window
	for start := time.Duration(0); start < duration; start += windowLength {
		end := min(start+windowLength, duration)
		windows = append(windows, Window{Index: len(windows), Start: start, End: end})
	}

	return windows, nil
}
