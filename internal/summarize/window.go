package summarize

import (
	"fmt"

	"github.com/alnah/go-videodigest/internal/chapters"
	"github.com/alnah/go-videodigest/internal/format"
	"github.com/alnah/go-videodigest/internal/transcript"
)

// window is one chapter-aligned sub-request: the text of one or more
// consecutive chapters.
type window struct {
	first chapters.Chapter // First chapter in the window.
	last  chapters.Chapter // Last chapter in the window.
	text  string
}

// label describes the window's chapter range for prompts and progress.
func (w window) label() string {
	if w.first.Title == w.last.Title {
		return fmt.Sprintf("%q (from %s)", w.first.Title, format.Timestamp(w.first.Start))
	}
	return fmt.Sprintf("%q through %q (from %s)",
		w.first.Title, w.last.Title, format.Timestamp(w.first.Start))
}

// planWindows groups consecutive chapters into windows whose estimated
// token count stays under maxTokens. A single chapter that alone exceeds
// the limit still gets its own window: splitting mid-chapter is never done,
// and one oversized request that the service rejects is better than a
// summary stitched from half-chapters.
func planWindows(t transcript.Transcript, chs []chapters.Chapter, maxTokens int) []window {
	texts := sliceByChapters(t, chs)

	var windows []window
	var cur *window
	curTokens := 0

	for i, ch := range chs {
		chText := texts[i]
		chTokens := estimateTokens(chText)

		if cur != nil && curTokens+chTokens > maxTokens {
			windows = append(windows, *cur)
			cur = nil
			curTokens = 0
		}

		if cur == nil {
			w := window{first: ch, last: ch, text: chText}
			cur = &w
			curTokens = chTokens
			continue
		}

		cur.last = ch
		cur.text += "\n\n" + chText
		curTokens += chTokens
	}

	if cur != nil {
		windows = append(windows, *cur)
	}
	return windows
}

// sliceByChapters returns the transcript text belonging to each chapter:
// entries whose start lies in [chapter.Start, nextChapter.Start).
func sliceByChapters(t transcript.Transcript, chs []chapters.Chapter) []string {
	texts := make([]string, len(chs))
	for i := range chs {
		start := chs[i].Start
		end := t.Duration
		if i+1 < len(chs) {
			end = chs[i+1].Start
		}

		var b []byte
		for _, e := range t.Entries {
			if e.Start < start || (e.Start >= end && end > start) {
				continue
			}
			if len(b) > 0 {
				b = append(b, ' ')
			}
			b = append(b, e.Text...)
		}
		texts[i] = string(b)
	}
	return texts
}
