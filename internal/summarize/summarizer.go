package summarize

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/alnah/go-videodigest/internal/apierr"
	"github.com/alnah/go-videodigest/internal/chapters"
	"github.com/alnah/go-videodigest/internal/format"
	"github.com/alnah/go-videodigest/internal/lang"
	"github.com/alnah/go-videodigest/internal/transcript"
)

// Default configuration values.
const (
	defaultModel           = "gpt-4o-mini"
	defaultMaxInputTokens  = 100000
	defaultMaxOutputTokens = 4000

	// Token estimation: conservative ~3 chars/token keeps the real request
	// safely under the model's context window.
	charsPerToken = 3

	// maxWindowTokens is the target size of each chapter-aligned
	// sub-request, leaving room for prompt and response inside the budget.
	maxWindowTokens = 80000

	defaultMaxRetries = 3
	defaultBaseDelay  = 1 * time.Second
	defaultMaxDelay   = 30 * time.Second
)

// DeepSeek provider configuration. DeepSeek exposes an OpenAI-compatible
// chat API, so the same client speaks to it with a different base URL.
const (
	deepSeekBaseURL = "https://api.deepseek.com"
	deepSeekModel   = "deepseek-chat"
)

// Options configures a summarization run.
type Options struct {
	// Style shapes the output; must be a parsed Style.
	Style Style

	// Language is the output language. Empty keeps the prompts' native
	// English.
	Language string
}

// Summarizer produces a structured summary from a transcript and its
// chapters.
type Summarizer interface {
	// Summarize returns a Summary shaped by opts.Style. The transcript is
	// windowed by chapter boundaries if it exceeds the service's input
	// budget; a failure on any sub-window fails the whole summary.
	Summarize(ctx context.Context, t transcript.Transcript, chs []chapters.Chapter, opts Options) (Summary, error)
}

// chatCompleter is the slice of the OpenAI client this package uses.
// *openai.Client implements it implicitly; tests inject mocks.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Compile-time interface compliance checks.
var (
	_ Summarizer    = (*OpenAISummarizer)(nil)
	_ chatCompleter = (*openai.Client)(nil)
)

// OpenAISummarizer summarizes transcripts using an OpenAI-compatible chat
// completion API, with retry on transient errors.
type OpenAISummarizer struct {
	client         chatCompleter
	model          string
	maxInputTokens int
	maxRetries     int
	baseDelay      time.Duration
	maxDelay       time.Duration

	onProgress func(phase string, current, total int)
}

// Option configures an OpenAISummarizer.
type Option func(*OpenAISummarizer)

// WithModel sets the chat model.
func WithModel(model string) Option {
	return func(s *OpenAISummarizer) {
		s.model = model
	}
}

// WithMaxInputTokens sets the input token budget.
func WithMaxInputTokens(max int) Option {
	return func(s *OpenAISummarizer) {
		if max > 0 {
			s.maxInputTokens = max
		}
	}
}

// WithMaxRetries sets the maximum number of retry attempts.
func WithMaxRetries(n int) Option {
	return func(s *OpenAISummarizer) {
		if n >= 0 {
			s.maxRetries = n
		}
	}
}

// WithRetryDelays sets the base and max delays for exponential backoff.
func WithRetryDelays(base, max time.Duration) Option {
	return func(s *OpenAISummarizer) {
		if base > 0 {
			s.baseDelay = base
		}
		if max > 0 {
			s.maxDelay = max
		}
	}
}

// WithProgress sets a callback for windowing progress.
func WithProgress(fn func(phase string, current, total int)) Option {
	return func(s *OpenAISummarizer) {
		s.onProgress = fn
	}
}

// withCompleter sets a custom chat completer (for testing).
func withCompleter(c chatCompleter) Option {
	return func(s *OpenAISummarizer) {
		s.client = c
	}
}

// NewOpenAISummarizer creates an OpenAISummarizer with the given client.
func NewOpenAISummarizer(client *openai.Client, opts ...Option) *OpenAISummarizer {
	s := &OpenAISummarizer{
		client:         client,
		model:          defaultModel,
		maxInputTokens: defaultMaxInputTokens,
		maxRetries:     defaultMaxRetries,
		baseDelay:      defaultBaseDelay,
		maxDelay:       defaultMaxDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewDeepSeekSummarizer creates a summarizer backed by DeepSeek's
// OpenAI-compatible API.
func NewDeepSeekSummarizer(apiKey string, opts ...Option) *OpenAISummarizer {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = deepSeekBaseURL
	client := openai.NewClientWithConfig(cfg)
	return NewOpenAISummarizer(client, append([]Option{WithModel(deepSeekModel)}, opts...)...)
}

// Summarize implements Summarizer.
func (s *OpenAISummarizer) Summarize(ctx context.Context, t transcript.Transcript, chs []chapters.Chapter, opts Options) (Summary, error) {
	if t.Empty() {
		return Summary{}, ErrNoTranscript
	}
	if opts.Style.IsZero() {
		opts.Style = DetailedStyle
	}
	if len(chs) == 0 {
		chs = chapters.WholeSource()
	}

	text := t.Text()

	var raw string
	var err error
	if estimateTokens(text) <= maxWindowTokens {
		raw, err = s.summarizeOnce(ctx, text, chs, opts)
	} else {
		raw, err = s.summarizeWindowed(ctx, t, chs, opts)
	}
	if err != nil {
		return Summary{}, err
	}
	if strings.TrimSpace(raw) == "" {
		return Summary{}, ErrEmptyResult
	}

	sum := parseSummary(raw, opts.Style, chs)
	sum.Transcript = t
	sum.Chapters = chs
	return sum, nil
}

// summarizeOnce handles transcripts that fit in a single request.
func (s *OpenAISummarizer) summarizeOnce(ctx context.Context, text string, chs []chapters.Chapter, opts Options) (string, error) {
	system, user := stylePrompts(opts.Style, chs, opts.Language)
	return s.complete(ctx, system, user+"\n\n"+text)
}

// summarizeWindowed splits the transcript at chapter boundaries into
// sub-requests, summarizes each, then reduces the partial summaries into
// one result honoring the requested style.
func (s *OpenAISummarizer) summarizeWindowed(ctx context.Context, t transcript.Transcript, chs []chapters.Chapter, opts Options) (string, error) {
	windows := planWindows(t, chs, maxWindowTokens)

	partials := make([]string, len(windows))
	for i, w := range windows {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if s.onProgress != nil {
			s.onProgress("map", i+1, len(windows))
		}

		user := fmt.Sprintf(windowPrompt, len(windows), i+1, w.label())
		out, err := s.complete(ctx, windowSystemPrompt, user+"\n\n"+w.text)
		if err != nil {
			return "", fmt.Errorf("failed to summarize part %d/%d: %w", i+1, len(windows), err)
		}
		partials[i] = out
	}

	if s.onProgress != nil {
		s.onProgress("reduce", 1, 1)
	}

	var input strings.Builder
	for i, p := range partials {
		if i > 0 {
			input.WriteString("\n\n---\n\n")
		}
		fmt.Fprintf(&input, "=== PART %d (%s) ===\n\n%s", i+1, windows[i].label(), p)
	}

	system, user := stylePrompts(opts.Style, chs, opts.Language)
	out, err := s.complete(ctx, system, reducePreamble+"\n\n"+user+"\n\n"+input.String())
	if err != nil {
		return "", fmt.Errorf("failed to merge partial summaries: %w", err)
	}
	return out, nil
}

// complete executes one chat completion with retry.
func (s *OpenAISummarizer) complete(ctx context.Context, system, user string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:               s.model,
		MaxCompletionTokens: defaultMaxOutputTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: system,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: user,
			},
		},
		Temperature: 0, // Deterministic output for reproducibility
	}

	cfg := apierr.RetryConfig{
		MaxRetries: s.maxRetries,
		BaseDelay:  s.baseDelay,
		MaxDelay:   s.maxDelay,
	}

	return apierr.RetryWithBackoff(ctx, cfg, func() (string, error) {
		resp, err := s.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return "", apierr.Classify(err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("no response from API")
		}
		return resp.Choices[0].Message.Content, nil
	}, apierr.IsRetryable)
}

// estimateTokens estimates the number of tokens in a text using the
// conservative chars-per-token ratio.
func estimateTokens(text string) int {
	return len(text) / charsPerToken
}

// Prompts. The system prompts are adapted per style; the user prompt
// carries the chapter list so the model can align detailed sections.
const (
	briefSystemPrompt = `You are a concise summarizer. Create brief, clear summaries.`
	briefUserPrompt   = `Summarize this transcript in 2-3 paragraphs of plain prose,
focusing on the key points. No headers, no lists.`

	detailedSystemPrompt = `You are an expert summarizer. Create comprehensive, well-structured summaries.`
	detailedUserPrompt   = `Create a detailed summary of this transcript with exactly these
markdown sections:

## Overview
One or two paragraphs.

## Key Points
Bullet points of the main ideas.

## Chapters
For each chapter listed below, a subsection:
### [HH:MM:SS] Chapter Title
One short paragraph about that chapter.

## Conclusion
Takeaways in one paragraph.

The chapters are:
%s`

	bulletSystemPrompt = `You are a summarizer who creates clear bullet-point summaries.`
	bulletUserPrompt   = `Create a bullet-point summary of the main ideas in this transcript.
Output a flat markdown list ("- " items) and nothing else: no headers,
no prose paragraphs.`

	windowSystemPrompt = `You are an expert summarizer condensing one part of a long transcript.`
	windowPrompt       = `This transcript was split into %d parts by chapter; this is part %d
covering %s. Write dense prose notes capturing every distinct point,
decision, and example in this part. Do not add headers or an introduction.`

	reducePreamble = `The numbered parts below are condensed notes for consecutive sections
of one recording. Merge them into a single coherent summary of the whole
recording, following these instructions:`
)

// stylePrompts returns the system and user prompts for a style, with the
// output-language instruction prepended when the target is not English.
func stylePrompts(style Style, chs []chapters.Chapter, language string) (system, user string) {
	switch style {
	case BriefStyle:
		system, user = briefSystemPrompt, briefUserPrompt
	case BulletStyle:
		system, user = bulletSystemPrompt, bulletUserPrompt
	default:
		system, user = detailedSystemPrompt, fmt.Sprintf(detailedUserPrompt, chapterList(chs))
	}

	if language != "" && !lang.IsEnglish(language) {
		user = fmt.Sprintf("Respond in %s.\n\n%s", lang.DisplayName(language), user)
	}
	return system, user
}

// chapterList renders the chapter listing embedded in the detailed prompt.
func chapterList(chs []chapters.Chapter) string {
	var b strings.Builder
	for _, c := range chs {
		fmt.Fprintf(&b, "- [%s] %s\n", format.Timestamp(c.Start), c.Title)
	}
	return strings.TrimRight(b.String(), "\n")
}
