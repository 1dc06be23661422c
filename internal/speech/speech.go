// Package speech renders summary text as spoken audio via OpenAI's
// text-to-speech API. This is an output convenience around the core
// pipeline's Summary, not part of it.
package speech

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/alnah/go-videodigest/internal/apierr"
)

// ErrUnknownVoice indicates an invalid voice name was specified.
var ErrUnknownVoice = errors.New("unknown voice")

// DefaultVoice is used when no voice is configured.
const DefaultVoice = "nova"

// maxInputChars is the TTS API's per-request input limit.
// Longer summaries are truncated at a sentence boundary.
const maxInputChars = 4096

// validVoices maps voice names to the API's voice identifiers.
var validVoices = map[string]openai.SpeechVoice{
	"alloy":   openai.VoiceAlloy,
	"echo":    openai.VoiceEcho,
	"fable":   openai.VoiceFable,
	"onyx":    openai.VoiceOnyx,
	"nova":    openai.VoiceNova,
	"shimmer": openai.VoiceShimmer,
}

// ValidateVoice checks a voice name.
func ValidateVoice(voice string) error {
	if _, ok := validVoices[voice]; !ok {
		return fmt.Errorf("unknown voice %q (use alloy, echo, fable, onyx, nova, or shimmer): %w",
			voice, ErrUnknownVoice)
	}
	return nil
}

// speechCreator is the slice of the OpenAI client this package uses.
type speechCreator interface {
	CreateSpeech(ctx context.Context, req openai.CreateSpeechRequest) (openai.RawResponse, error)
}

// Compile-time interface compliance check.
var _ speechCreator = (*openai.Client)(nil)

// Renderer converts text to a spoken mp3 file.
type Renderer struct {
	client     speechCreator
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithRetryDelays sets the base and max delays for exponential backoff.
func WithRetryDelays(base, max time.Duration) RendererOption {
	return func(r *Renderer) {
		if base > 0 {
			r.baseDelay = base
		}
		if max > 0 {
			r.maxDelay = max
		}
	}
}

// withCreator sets a custom speech client (for testing).
func withCreator(c speechCreator) RendererOption {
	return func(r *Renderer) {
		r.client = c
	}
}

// NewRenderer creates a Renderer.
func NewRenderer(client *openai.Client, opts ...RendererOption) *Renderer {
	r := &Renderer{
		client:     client,
		maxRetries: 2,
		baseDelay:  1 * time.Second,
		maxDelay:   15 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render synthesizes text with the given voice and writes the audio to
// outPath. Transient API errors are retried.
func (r *Renderer) Render(ctx context.Context, text, voice, outPath string) error {
	v, ok := validVoices[voice]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownVoice, voice)
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("nothing to render")
	}

	req := openai.CreateSpeechRequest{
		Model:          openai.TTSModel1,
		Input:          truncateForSpeech(text),
		Voice:          v,
		ResponseFormat: openai.SpeechResponseFormatMp3,
	}

	cfg := apierr.RetryConfig{
		MaxRetries: r.maxRetries,
		BaseDelay:  r.baseDelay,
		MaxDelay:   r.maxDelay,
	}

	audio, err := apierr.RetryWithBackoff(ctx, cfg, func() ([]byte, error) {
		resp, err := r.client.CreateSpeech(ctx, req)
		if err != nil {
			return nil, apierr.Classify(err)
		}
		defer func() { _ = resp.Close() }()
		return io.ReadAll(resp)
	}, apierr.IsRetryable)
	if err != nil {
		return err
	}

	if err := os.WriteFile(outPath, audio, 0644); err != nil { // #nosec G306 -- user output file
		return fmt.Errorf("cannot write audio summary: %w", err)
	}
	return nil
}

// truncateForSpeech trims text to the API input limit, cutting at the last
// sentence end before the limit when one exists.
func truncateForSpeech(text string) string {
	if len(text) <= maxInputChars {
		return text
	}
	cut := text[:maxInputChars]
	if idx := strings.LastIndexAny(cut, ".!?"); idx > maxInputChars/2 {
		return cut[:idx+1]
	}
	return cut
}
