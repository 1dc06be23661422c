// Package transcribe converts audio segments to timestamped text fragments
// using OpenAI's transcription API, with retry on transient failures and a
// bounded worker pool for parallel segment transcription.
package transcribe

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-videodigest/internal/apierr"
)

// Transcription model. whisper-1 is the model that returns phrase-level
// timestamps in verbose_json responses.
const ModelWhisper1 = "whisper-1"

// Parallelism configuration.
const (
	// MaxRecommendedParallel is the recommended upper limit for concurrent
	// API requests. Higher values may trigger rate limiting.
	MaxRecommendedParallel = 10
)

// Default retry configuration.
const (
	defaultMaxRetries = 3
	defaultBaseDelay  = 1 * time.Second
	defaultMaxDelay   = 30 * time.Second
)

// Entry is one timestamped phrase, in segment-local time.
type Entry struct {
	Text  string
	Start time.Duration // Offset within the segment, not the source.
	End   time.Duration
}

// Fragment is the transcription result for one audio segment, ordered by
// start offset. Fragments are consumed by the merger and discarded.
type Fragment struct {
	Entries []Entry
}

// Options configures transcription behavior.
type Options struct {
	// Language is the audio language as an ISO 639-1 base code.
	// Empty means auto-detect.
	Language string

	// Prompt provides context to improve transcription accuracy, e.g.
	// domain vocabulary or expected names.
	Prompt string
}

// Transcriber transcribes one audio segment to a timestamped fragment.
type Transcriber interface {
	// Transcribe converts an audio file to a Fragment with entries in
	// segment-local time.
	Transcribe(ctx context.Context, audioPath string, opts Options) (Fragment, error)
}

// audioTranscriber is the slice of the OpenAI client this package uses.
// *openai.Client implements it implicitly; tests inject mocks.
type audioTranscriber interface {
	CreateTranscription(ctx context.Context, req openai.AudioRequest) (openai.AudioResponse, error)
}

// Compile-time interface compliance checks.
var (
	_ Transcriber      = (*OpenAITranscriber)(nil)
	_ audioTranscriber = (*openai.Client)(nil)
)

// OpenAITranscriber transcribes audio using OpenAI's transcription API,
// requesting verbose_json so responses carry per-phrase timestamps.
type OpenAITranscriber struct {
	client     audioTranscriber
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

// TranscriberOption configures an OpenAITranscriber.
type TranscriberOption func(*OpenAITranscriber)

// WithMaxRetries sets the maximum number of retry attempts.
func WithMaxRetries(n int) TranscriberOption {
	return func(t *OpenAITranscriber) {
		if n >= 0 {
			t.maxRetries = n
		}
	}
}

// WithRetryDelays sets the base and max delays for exponential backoff.
func WithRetryDelays(base, max time.Duration) TranscriberOption {
	return func(t *OpenAITranscriber) {
		if base > 0 {
			t.baseDelay = base
		}
		if max > 0 {
			t.maxDelay = max
		}
	}
}

// withClient sets a custom transcription client (for testing).
func withClient(c audioTranscriber) TranscriberOption {
	return func(t *OpenAITranscriber) {
		t.client = c
	}
}

// NewOpenAITranscriber creates an OpenAITranscriber.
func NewOpenAITranscriber(client *openai.Client, opts ...TranscriberOption) *OpenAITranscriber {
	t := &OpenAITranscriber{
		client:     client,
		maxRetries: defaultMaxRetries,
		baseDelay:  defaultBaseDelay,
		maxDelay:   defaultMaxDelay,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Transcribe transcribes one segment file.
// Transient errors (rate limits, timeouts, 5xx) are retried with
// exponential backoff; auth and invalid-input errors fail immediately.
func (t *OpenAITranscriber) Transcribe(ctx context.Context, audioPath string, opts Options) (Fragment, error) {
	req := openai.AudioRequest{
		Model:    ModelWhisper1,
		FilePath: audioPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
		Prompt:   opts.Prompt,
		Language: opts.Language,
	}

	cfg := apierr.RetryConfig{
		MaxRetries: t.maxRetries,
		BaseDelay:  t.baseDelay,
		MaxDelay:   t.maxDelay,
	}

	return apierr.RetryWithBackoff(ctx, cfg, func() (Fragment, error) {
		resp, err := t.client.CreateTranscription(ctx, req)
		if err != nil {
			return Fragment{}, apierr.Classify(err)
		}
		return fragmentFromResponse(resp), nil
	}, apierr.IsRetryable)
}

// fragmentFromResponse converts the verbose_json response to a Fragment.
// Responses without segment timings degrade to a single entry spanning the
// reported duration.
func fragmentFromResponse(resp openai.AudioResponse) Fragment {
	if len(resp.Segments) == 0 {
		if resp.Text == "" {
			return Fragment{}
		}
		return Fragment{Entries: []Entry{{
			Text:  resp.Text,
			Start: 0,
			End:   secondsToDuration(resp.Duration),
		}}}
	}

	entries := make([]Entry, 0, len(resp.Segments))
	for _, seg := range resp.Segments {
		entries = append(entries, Entry{
			Text:  seg.Text,
			Start: secondsToDuration(seg.Start),
			End:   secondsToDuration(seg.End),
		})
	}
	return Fragment{Entries: entries}
}

// secondsToDuration converts the API's float seconds to a Duration.
func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// TranscribeAll transcribes segment files in parallel, bounded by
// maxParallel. Results are returned indexed like the input paths.
// If any segment fails after retries, outstanding work is cancelled and the
// first error is returned; no partial results are produced.
func TranscribeAll(
	ctx context.Context,
	paths []string,
	t Transcriber,
	opts Options,
	maxParallel int,
) ([]Fragment, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	if maxParallel < 1 {
		maxParallel = 1
	}

	results := make([]Fragment, len(paths))
	// Semaphore channel for concurrency control.
	sem := make(chan struct{}, maxParallel)

	g, ctx := errgroup.WithContext(ctx)

	for i, path := range paths {
		g.Go(func() error {
			// Acquire semaphore slot.
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return ctx.Err()
			}
			defer func() { <-sem }()

			frag, err := t.Transcribe(ctx, path, opts)
			if err != nil {
				return fmt.Errorf("segment %d (%s): %w", i, filepath.Base(path), err)
			}
			results[i] = frag
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
