package summarize

import (
	"regexp"
	"strings"

	"github.com/alnah/go-videodigest/internal/chapters"
)

// bulletLineRe matches "- item", "* item", "• item", "1. item".
var bulletLineRe = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s+(.+)$`)

// parseSummary converts raw model output into a structured Summary for the
// requested style. Parsing is tolerant: models drift on markdown details,
// so classification is by keyword, not exact match, mirroring how the
// output prompts are phrased.
func parseSummary(raw string, style Style, chs []chapters.Chapter) Summary {
	sum := Summary{Style: style}
	switch style {
	case BriefStyle:
		sum.Paragraphs = splitParagraphs(raw)
	case BulletStyle:
		sum.Bullets = parseBullets(raw)
	default:
		parseDetailed(raw, chs, &sum)
	}
	return sum
}

// splitParagraphs splits prose into paragraphs on blank lines, dropping
// stray markdown headers.
func splitParagraphs(raw string) []string {
	var paras []string
	for _, block := range strings.Split(raw, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" || strings.HasPrefix(block, "#") {
			continue
		}
		paras = append(paras, block)
	}
	return paras
}

// parseBullets extracts list items; non-list lines (stray prose or headers)
// are dropped so the bullet contract holds even when the model preambles.
func parseBullets(raw string) []string {
	var bullets []string
	for line := range strings.SplitSeq(raw, "\n") {
		if m := bulletLineRe.FindStringSubmatch(line); m != nil {
			bullets = append(bullets, strings.TrimSpace(m[1]))
		}
	}
	return bullets
}

// detailed-section classification keywords, checked against header lines.
var (
	overviewWords   = []string{"overview", "introduction"}
	keyPointWords   = []string{"key points", "main ideas", "main points"}
	chapterWords    = []string{"chapters", "details", "sections"}
	conclusionWords = []string{"conclusion", "takeaway"}
)

// parseDetailed fills the detailed fields of sum from headed markdown.
// Chapter subsections are assigned to the provided chapter list in order;
// if the model emitted none, the whole details text goes to the first
// chapter so nothing is lost.
func parseDetailed(raw string, chs []chapters.Chapter, sum *Summary) {
	type section int
	const (
		secOverview section = iota
		secKeyPoints
		secChapters
		secConclusion
	)

	classify := func(header string) (section, bool) {
		h := strings.ToLower(header)
		for _, w := range overviewWords {
			if strings.Contains(h, w) {
				return secOverview, true
			}
		}
		for _, w := range keyPointWords {
			if strings.Contains(h, w) {
				return secKeyPoints, true
			}
		}
		for _, w := range chapterWords {
			if strings.Contains(h, w) {
				return secChapters, true
			}
		}
		for _, w := range conclusionWords {
			if strings.Contains(h, w) {
				return secConclusion, true
			}
		}
		return 0, false
	}

	cur := secOverview
	var overview, conclusion []string
	var chapterBlocks []string // raw text blocks, one per detected subsection
	var curChapter []string
	inChapterSub := false

	flushChapter := func() {
		if inChapterSub || len(curChapter) > 0 {
			if text := strings.TrimSpace(strings.Join(curChapter, "\n")); text != "" {
				chapterBlocks = append(chapterBlocks, text)
			}
			curChapter = nil
		}
	}

	for line := range strings.SplitSeq(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, "#") {
			level := len(trimmed) - len(strings.TrimLeft(trimmed, "#"))
			header := strings.TrimLeft(trimmed, "# ")

			// Sub-headings inside the chapters section are chapter
			// subsections, whatever words their titles happen to contain.
			if cur == secChapters && level >= 3 {
				flushChapter()
				inChapterSub = true
				continue
			}
			if sec, ok := classify(header); ok {
				flushChapter()
				inChapterSub = false
				cur = sec
				continue
			}
			// Unclassified heading inside the chapters section starts a
			// new chapter subsection.
			if cur == secChapters {
				flushChapter()
				inChapterSub = true
				continue
			}
			continue
		}

		switch cur {
		case secOverview:
			overview = append(overview, trimmed)
		case secKeyPoints:
			if m := bulletLineRe.FindStringSubmatch(trimmed); m != nil {
				sum.KeyPoints = append(sum.KeyPoints, strings.TrimSpace(m[1]))
			} else {
				sum.KeyPoints = append(sum.KeyPoints, trimmed)
			}
		case secChapters:
			curChapter = append(curChapter, trimmed)
		case secConclusion:
			conclusion = append(conclusion, trimmed)
		}
	}
	flushChapter()

	sum.Overview = strings.Join(overview, "\n")
	sum.Conclusion = strings.Join(conclusion, "\n")

	for i, block := range chapterBlocks {
		if i >= len(chs) {
			break
		}
		sum.ChapterDetails = append(sum.ChapterDetails, ChapterDetail{
			Title: chs[i].Title,
			Start: chs[i].Start,
			Text:  block,
		})
	}
}
