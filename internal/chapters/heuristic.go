package chapters

import (
	"context"
	"fmt"
	"time"

	"github.com/alnah/go-videodigest/internal/format"
	"github.com/alnah/go-videodigest/internal/transcript"
)

// DefaultInterval is the bucket size for heuristic detection.
// With no semantic signal available, fixed five-minute sections track the
// scale of typical topic shifts in lectures and talks.
const DefaultInterval = 5 * time.Minute

// Compile-time interface compliance check.
var _ Detector = (*HeuristicDetector)(nil)

// HeuristicDetector splits the transcript into fixed-size time buckets.
// It is the zero-dependency fallback when the generation service is
// unavailable or not wanted.
type HeuristicDetector struct {
	interval time.Duration
}

// NewHeuristicDetector creates a HeuristicDetector.
// Non-positive intervals use DefaultInterval.
func NewHeuristicDetector(interval time.Duration) *HeuristicDetector {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &HeuristicDetector{interval: interval}
}

// Detect returns one chapter per time bucket. A source shorter than one
// interval yields a single whole-source chapter.
func (h *HeuristicDetector) Detect(_ context.Context, t transcript.Transcript) ([]Chapter, error) {
	if t.Empty() || t.Duration <= h.interval {
		return WholeSource(), nil
	}

	var chs []Chapter
	for start := time.Duration(0); start < t.Duration; start += h.interval {
		end := min(start+h.interval, t.Duration)
		chs = append(chs, Chapter{
			Title: fmt.Sprintf("Section %d (%s - %s)",
				len(chs)+1, format.Timestamp(start), format.Timestamp(end)),
			Start: start,
		})
	}
	return chs, nil
}
