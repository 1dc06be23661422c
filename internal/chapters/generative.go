package chapters

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/alnah/go-videodigest/internal/apierr"
	"github.com/alnah/go-videodigest/internal/format"
	"github.com/alnah/go-videodigest/internal/transcript"
)

// Generative detection configuration.
const (
	defaultChapterModel     = "gpt-4o-mini"
	defaultChapterMaxTokens = 1000

	// maxPromptChars bounds the transcript text sent for chapter detection.
	// Beyond this the timestamped head of the transcript is enough signal;
	// chapter detection does not need the full text the way summarization
	// does.
	maxPromptChars = 240000

	defaultChapterRetries   = 2
	defaultChapterBaseDelay = 1 * time.Second
	defaultChapterMaxDelay  = 15 * time.Second
)

// chapterPrompt instructs the model to emit parseable chapter lines.
const chapterPrompt = `Analyze this timestamped transcript and identify its logical chapters.
Emit one line per chapter, nothing else, in this exact format:

[HH:MM:SS] Chapter Title

The first chapter must start at [00:00:00]. Timestamps must match moments
present in the transcript and be strictly increasing.`

// chapterLineRe matches "[HH:MM:SS] Title" and "[MM:SS] Title" lines.
var chapterLineRe = regexp.MustCompile(`^\s*[-*]?\s*\[(\d{1,2}:\d{2}(?::\d{2})?)\]\s*(.+)$`)

// chatCompleter is the slice of the OpenAI client this package uses.
// *openai.Client implements it implicitly; tests inject mocks.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Compile-time interface compliance check.
var _ Detector = (*GenerativeDetector)(nil)

// GenerativeDetector asks the text-generation service for chapter titles and
// their nearest transcript timestamps.
type GenerativeDetector struct {
	client     chatCompleter
	model      string
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

// GenerativeOption configures a GenerativeDetector.
type GenerativeOption func(*GenerativeDetector)

// WithModel sets the chat model used for detection.
func WithModel(model string) GenerativeOption {
	return func(d *GenerativeDetector) {
		d.model = model
	}
}

// WithMaxRetries sets the maximum number of retry attempts.
func WithMaxRetries(n int) GenerativeOption {
	return func(d *GenerativeDetector) {
		if n >= 0 {
			d.maxRetries = n
		}
	}
}

// WithRetryDelays sets the base and max delays for exponential backoff.
func WithRetryDelays(base, max time.Duration) GenerativeOption {
	return func(d *GenerativeDetector) {
		if base > 0 {
			d.baseDelay = base
		}
		if max > 0 {
			d.maxDelay = max
		}
	}
}

// withCompleter sets a custom chat completer (for testing).
func withCompleter(c chatCompleter) GenerativeOption {
	return func(d *GenerativeDetector) {
		d.client = c
	}
}

// NewGenerativeDetector creates a GenerativeDetector.
func NewGenerativeDetector(client *openai.Client, opts ...GenerativeOption) *GenerativeDetector {
	d := &GenerativeDetector{
		client:     client,
		model:      defaultChapterModel,
		maxRetries: defaultChapterRetries,
		baseDelay:  defaultChapterBaseDelay,
		maxDelay:   defaultChapterMaxDelay,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect sends the timestamped transcript to the generation service and
// parses the chapter lines out of the reply. Transient API errors are
// retried; any terminal failure is returned for the caller to degrade on.
func (d *GenerativeDetector) Detect(ctx context.Context, t transcript.Transcript) ([]Chapter, error) {
	if t.Empty() {
		return WholeSource(), nil
	}

	text := t.Render()
	if len(text) > maxPromptChars {
		text = text[:maxPromptChars]
	}

	req := openai.ChatCompletionRequest{
		Model:     d.model,
		MaxTokens: defaultChapterMaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: chapterPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
		Temperature: 0, // Deterministic output for reproducibility
	}

	cfg := apierr.RetryConfig{
		MaxRetries: d.maxRetries,
		BaseDelay:  d.baseDelay,
		MaxDelay:   d.maxDelay,
	}

	reply, err := apierr.RetryWithBackoff(ctx, cfg, func() (string, error) {
		resp, err := d.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return "", apierr.Classify(err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("no response from API")
		}
		return resp.Choices[0].Message.Content, nil
	}, apierr.IsRetryable)
	if err != nil {
		return nil, err
	}

	chs := ParseChapterLines(reply, t.Duration)
	if len(chs) == 0 {
		return nil, fmt.Errorf("no parseable chapters in model output")
	}
	return chs, nil
}

// ParseChapterLines extracts chapters from "[HH:MM:SS] Title" lines.
// Lines that don't match, carry an unparseable timestamp, or point past the
// source duration are skipped.
func ParseChapterLines(s string, duration time.Duration) []Chapter {
	var chs []Chapter
	for line := range strings.SplitSeq(s, "\n") {
		matches := chapterLineRe.FindStringSubmatch(line)
		if matches == nil {
			continue
		}

		start, err := format.ParseTimestamp(matches[1])
		if err != nil {
			continue
		}
		if duration > 0 && start >= duration {
			continue
		}

		title := strings.TrimSpace(strings.Trim(matches[2], " -–"))
		if title == "" {
			continue
		}
		chs = append(chs, Chapter{Title: title, Start: start})
	}
	return chs
}
