// Package transcript reassembles per-segment transcription fragments into a
// single globally time-aligned transcript, resolving duplicate phrases at
// segment seams.
package transcript

import (
	"fmt"
	"strings"
	"time"

	"github.com/alnah/go-videodigest/internal/format"
)

// Entry is one timestamped phrase in global (source) time.
type Entry struct {
	Text  string
	Start time.Duration
	End   time.Duration
}

// Transcript is the fully merged, globally time-aligned text for the whole
// source. Entries are ordered by Start, which is monotonically
// non-decreasing, and every interval lies within [0, Duration).
// Immutable once produced by Merge.
type Transcript struct {
	Entries  []Entry
	Duration time.Duration
	Language string
}

// Text returns the plain transcript without timestamps.
func (t Transcript) Text() string {
	var b strings.Builder
	for i, e := range t.Entries {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(strings.TrimSpace(e.Text))
	}
	return b.String()
}

// Render returns the transcript with one timestamped line per entry:
//
//	[00:01:23 - 00:01:31] text
func (t Transcript) Render() string {
	var b strings.Builder
	for _, e := range t.Entries {
		fmt.Fprintf(&b, "[%s - %s] %s\n",
			format.Timestamp(e.Start),
			format.Timestamp(e.End),
			strings.TrimSpace(e.Text))
	}
	return strings.TrimRight(b.String(), "\n")
}

// Empty reports whether the transcript carries no text.
func (t Transcript) Empty() bool {
	return len(t.Entries) == 0
}

// WordCount returns the number of whitespace-separated words.
func (t Transcript) WordCount() int {
	return len(strings.Fields(t.Text()))
}
