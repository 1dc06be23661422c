// Package chapters detects logical chapter boundaries in a merged
// transcript, either heuristically or via the text-generation service.
// Detection failure is never fatal: callers degrade to a single chapter
// covering the whole source.
package chapters

import (
	"context"
	"fmt"
	"time"

	"github.com/alnah/go-videodigest/internal/format"
	"github.com/alnah/go-videodigest/internal/transcript"
)

// Chapter is a named logical section of the source.
type Chapter struct {
	Title string
	Start time.Duration
}

// String returns a human-readable representation for listings.
func (c Chapter) String() string {
	return fmt.Sprintf("[%s] %s", format.Timestamp(c.Start), c.Title)
}

// Detector produces an ordered chapter list from a transcript.
// Implementations guarantee: at least one chapter, first chapter at 0,
// strictly increasing start timestamps.
type Detector interface {
	Detect(ctx context.Context, t transcript.Transcript) ([]Chapter, error)
}

// Strategy names for configuration.
const (
	StrategyHeuristic  = "heuristic"
	StrategyGenerative = "generative"
)

// DefaultTitle is the title of the degraded single chapter.
const DefaultTitle = "Full recording"

// WholeSource returns the single-chapter fallback covering the entire
// transcript.
func WholeSource() []Chapter {
	return []Chapter{{Title: DefaultTitle, Start: 0}}
}

// DetectWithFallback runs the detector and degrades to a single whole-source
// chapter on failure or invalid output. It never returns an error or an
// empty list: a usable summary without fine-grained chapters is still
// valuable. The returned bool reports whether detection succeeded.
func DetectWithFallback(ctx context.Context, d Detector, t transcript.Transcript) ([]Chapter, bool) {
	chs, err := d.Detect(ctx, t)
	if err != nil || len(chs) == 0 {
		return WholeSource(), false
	}
	if chs := normalize(chs); len(chs) > 0 {
		return chs, true
	}
	return WholeSource(), false
}

// normalize enforces the chapter invariants: first chapter at 0, strictly
// increasing starts. Out-of-order entries are dropped rather than reordered;
// a detector that scrambles timestamps is not to be trusted about them.
func normalize(chs []Chapter) []Chapter {
	out := make([]Chapter, 0, len(chs))
	for _, c := range chs {
		if c.Title == "" {
			continue
		}
		if len(out) == 0 {
			c.Start = 0
			out = append(out, c)
			continue
		}
		if c.Start <= out[len(out)-1].Start {
			continue
		}
		out = append(out, c)
	}
	return out
}
