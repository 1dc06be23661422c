package summarize

import (
	"strings"
	"time"

	"github.com/alnah/go-videodigest/internal/chapters"
	"github.com/alnah/go-videodigest/internal/transcript"
)

// ChapterDetail is the per-chapter portion of a detailed summary.
type ChapterDetail struct {
	Title string
	Start time.Duration
	Text  string
}

// Summary is the structured summarization result, shaped by its Style:
//
//   - brief: Paragraphs (2-3, no headers)
//   - detailed: Overview, KeyPoints, ChapterDetails, Conclusion
//   - bullet: Bullets (flat ordered list, no prose)
//
// The Transcript and Chapters it was derived from are carried along for
// downstream rendering.
type Summary struct {
	Style Style

	Paragraphs []string // brief
	Bullets    []string // bullet

	Overview       string          // detailed
	KeyPoints      []string        // detailed
	ChapterDetails []ChapterDetail // detailed
	Conclusion     string          // detailed

	Transcript transcript.Transcript
	Chapters   []chapters.Chapter
}

// Text returns the summary as plain prose, suitable for TTS rendering.
func (s Summary) Text() string {
	var parts []string
	switch s.Style {
	case BriefStyle:
		parts = s.Paragraphs
	case BulletStyle:
		parts = s.Bullets
	case DetailedStyle:
		if s.Overview != "" {
			parts = append(parts, s.Overview)
		}
		parts = append(parts, s.KeyPoints...)
		for _, cd := range s.ChapterDetails {
			parts = append(parts, cd.Text)
		}
		if s.Conclusion != "" {
			parts = append(parts, s.Conclusion)
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n\n"))
}

// WordCount returns the number of whitespace-separated words in the summary.
func (s Summary) WordCount() int {
	return len(strings.Fields(s.Text()))
}
