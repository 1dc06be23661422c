package transcript

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alnah/go-videodigest/internal/segment"
	"github.com/alnah/go-videodigest/internal/transcribe"
)

// ErrMissingFragment indicates a segment has no transcription result.
// Merging never silently skips a segment; a missing fragment upstream is an
// invariant violation and aborts the run.
var ErrMissingFragment = errors.New("transcript fragment missing for segment")

// seamTolerance bounds how far past a segment boundary a duplicated phrase
// may start and still be treated as a seam artifact. Transcription of
// adjacent segments occasionally re-emits the phrase that straddles the cut;
// 1s covers the observed drift without swallowing genuine repetition.
// This is a tuning point, not a law.
const seamTolerance = 1 * time.Second

// Merge offsets each fragment's local timestamps by its window start and
// concatenates everything into one Transcript. fragments[i] must correspond
// to windows[i]; a length mismatch means a segment was lost upstream and
// fails with ErrMissingFragment rather than producing an incomplete
// transcript.
//
// Merge is a pure function of its inputs: re-running it on the same
// fragments yields an identical transcript.
func Merge(windows []segment.Window, fragments []transcribe.Fragment, duration time.Duration, language string) (Transcript, error) {
	if len(windows) != len(fragments) {
		return Transcript{}, fmt.Errorf("%w: %d windows, %d fragments",
			ErrMissingFragment, len(windows), len(fragments))
	}

	var entries []Entry
	for i, w := range windows {
		frag := fragments[i]
		for _, fe := range frag.Entries {
			e := Entry{
				Text:  fe.Text,
				Start: w.Start + fe.Start,
				End:   w.Start + fe.End,
			}
			e = clampEntry(e, duration)

			if len(entries) > 0 {
				prev := &entries[len(entries)-1]

				// Seam artifact: the segment re-emitted the phrase that
				// straddles the boundary. Keep the earlier entry.
				if isSeamDuplicate(*prev, e, w.Start) {
					continue
				}

				// Timestamps must never go backwards across a seam.
				if e.Start < prev.Start {
					e.Start = prev.Start
				}
				if e.End < e.Start {
					e.End = e.Start
				}
			}

			if strings.TrimSpace(e.Text) == "" {
				continue
			}
			entries = append(entries, e)
		}
	}

	return Transcript{Entries: entries, Duration: duration, Language: language}, nil
}

// clampEntry constrains an entry's interval to [0, duration).
func clampEntry(e Entry, duration time.Duration) Entry {
	if e.Start < 0 {
		e.Start = 0
	}
	if duration > 0 && e.End > duration {
		e.End = duration
	}
	if e.End < e.Start {
		e.End = e.Start
	}
	return e
}

// isSeamDuplicate reports whether next repeats prev across the seam at
// boundary: identical text (case-insensitive) starting within seamTolerance
// of the boundary.
func isSeamDuplicate(prev, next Entry, boundary time.Duration) bool {
	if next.Start > boundary+seamTolerance {
		return false
	}
	a := strings.ToLower(strings.TrimSpace(prev.Text))
	b := strings.ToLower(strings.TrimSpace(next.Text))
	return a != "" && a == b
}
