// Package report renders the digest result as a markdown document and
// writes it to disk without clobbering existing files.
package report

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alnah/go-videodigest/internal/format"
	"github.com/alnah/go-videodigest/internal/media"
	"github.com/alnah/go-videodigest/internal/summarize"
)

// ErrFileExists indicates the output file already exists.
var ErrFileExists = errors.New("output file already exists")

// Report collects everything that goes into the markdown document.
type Report struct {
	// Title heads the document. Empty falls back to the source file name.
	Title string

	Source  media.Source
	Summary summarize.Summary

	// IncludeTranscript appends the full timestamped transcript.
	IncludeTranscript bool

	// GeneratedAt stamps the metadata block; zero means time.Now at render.
	GeneratedAt time.Time
}

// Render produces the markdown document.
func (r Report) Render() string {
	var b strings.Builder

	title := r.Title
	if title == "" {
		title = r.Source.String()
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	r.renderMetadata(&b)
	r.renderChapterIndex(&b)
	r.renderSummary(&b)
	r.renderStatistics(&b)

	if r.IncludeTranscript && !r.Summary.Transcript.Empty() {
		b.WriteString("## Transcript\n\n")
		b.WriteString("```\n")
		b.WriteString(r.Summary.Transcript.Render())
		b.WriteString("\n```\n\n")
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func (r Report) renderMetadata(b *strings.Builder) {
	at := r.GeneratedAt
	if at.IsZero() {
		at = time.Now()
	}

	b.WriteString("## Metadata\n\n")
	fmt.Fprintf(b, "- **Duration:** %s\n", format.Duration(r.Source.Duration))
	if r.Summary.Transcript.Language != "" {
		fmt.Fprintf(b, "- **Language:** %s\n", r.Summary.Transcript.Language)
	}
	if !r.Summary.Style.IsZero() {
		fmt.Fprintf(b, "- **Summary style:** %s\n", r.Summary.Style)
	}
	fmt.Fprintf(b, "- **Generated:** %s\n", at.Format("2006-01-02 15:04"))
	b.WriteString("\n")
}

func (r Report) renderChapterIndex(b *strings.Builder) {
	chs := r.Summary.Chapters
	// A lone whole-source chapter is not worth an index.
	if len(chs) < 2 {
		return
	}

	b.WriteString("## Chapters\n\n")
	for _, c := range chs {
		fmt.Fprintf(b, "- [%s] %s\n", format.Timestamp(c.Start), c.Title)
	}
	b.WriteString("\n")
}

func (r Report) renderSummary(b *strings.Builder) {
	s := r.Summary
	b.WriteString("## Summary\n\n")

	switch s.Style {
	case summarize.BriefStyle:
		for _, p := range s.Paragraphs {
			b.WriteString(p)
			b.WriteString("\n\n")
		}
	case summarize.BulletStyle:
		for _, item := range s.Bullets {
			fmt.Fprintf(b, "- %s\n", item)
		}
		b.WriteString("\n")
	default:
		r.renderDetailed(b)
	}
}

func (r Report) renderDetailed(b *strings.Builder) {
	s := r.Summary
	if s.Overview != "" {
		b.WriteString(s.Overview)
		b.WriteString("\n\n")
	}
	if len(s.KeyPoints) > 0 {
		b.WriteString("### Key Points\n\n")
		for _, p := range s.KeyPoints {
			fmt.Fprintf(b, "- %s\n", p)
		}
		b.WriteString("\n")
	}
	for _, cd := range s.ChapterDetails {
		fmt.Fprintf(b, "### [%s] %s\n\n%s\n\n", format.Timestamp(cd.Start), cd.Title, cd.Text)
	}
	if s.Conclusion != "" {
		b.WriteString("### Conclusion\n\n")
		b.WriteString(s.Conclusion)
		b.WriteString("\n\n")
	}
}

func (r Report) renderStatistics(b *strings.Builder) {
	tWords := r.Summary.Transcript.WordCount()
	sWords := r.Summary.WordCount()
	if tWords == 0 {
		return
	}

	b.WriteString("## Statistics\n\n")
	fmt.Fprintf(b, "- **Transcript:** %d words\n", tWords)
	fmt.Fprintf(b, "- **Summary:** %d words\n", sWords)
	if sWords > 0 {
		fmt.Fprintf(b, "- **Compression:** %.0f%%\n", 100*(1-float64(sWords)/float64(tWords)))
	}
	b.WriteString("\n")
}

// DefaultFileName derives the report file name from the source and the day.
func DefaultFileName(src media.Source, at time.Time) string {
	base := strings.TrimSuffix(src.Path, ".ogg")
	if idx := strings.LastIndexByte(base, '/'); idx >= 0 {
		base = base[idx+1:]
	}
	if base == "" {
		base = "digest"
	}
	return fmt.Sprintf("%s_%s.md", sanitizeFileName(base), at.Format("2006-01-02"))
}

// sanitizeFileName replaces characters that are awkward in file names.
func sanitizeFileName(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, s)
}
