package cli

import (
	"context"
	"io"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/alnah/go-videodigest/internal/chapters"
	"github.com/alnah/go-videodigest/internal/config"
	"github.com/alnah/go-videodigest/internal/ffmpeg"
	"github.com/alnah/go-videodigest/internal/media"
	"github.com/alnah/go-videodigest/internal/pipeline"
	"github.com/alnah/go-videodigest/internal/segment"
	"github.com/alnah/go-videodigest/internal/speech"
	"github.com/alnah/go-videodigest/internal/summarize"
	"github.com/alnah/go-videodigest/internal/transcribe"
)

// Env holds injectable dependencies for CLI commands.
// This is the central injection point for testing CLI commands in isolation.
//
// All fields have production defaults via DefaultEnv(). Tests override
// specific fields with the With* options.
type Env struct {
	// I/O and environment
	Stderr io.Writer
	Getenv func(string) string
	Now    func() time.Time

	// Factories for domain objects
	ToolResolver       ToolResolver
	ConfigLoader       ConfigLoader
	MediaFactory       MediaFactory
	SegmenterFactory   SegmenterFactory
	TranscriberFactory TranscriberFactory
	DetectorFactory    DetectorFactory
	SummarizerFactory  SummarizerFactory
	SpeechFactory      SpeechFactory
}

// ToolResolver locates the external media binaries.
type ToolResolver interface {
	Resolve() (string, error)
	ResolveYtDlp() (string, error)
}

// ConfigLoader loads and provides access to configuration.
type ConfigLoader interface {
	Load() (config.Config, error)
	Save(cfg config.Config) error
}

// MediaHandler resolves inputs to probed audio sources.
type MediaHandler interface {
	Acquire(ctx context.Context, input string) (string, func(), error)
	ExtractAudio(ctx context.Context, mediaPath string) (media.Source, func(), error)
	Probe(ctx context.Context, audioPath string) (media.Source, error)
}

// MediaFactory creates media handlers.
type MediaFactory interface {
	NewHandler(ffmpegPath, ytdlpPath, tempDir string) (MediaHandler, error)
}

// SegmenterFactory creates segment extractors.
type SegmenterFactory interface {
	NewExtractor(ffmpegPath, tempRoot string) (pipeline.Segmenter, error)
}

// TranscriberFactory creates transcribers for audio-to-text conversion.
type TranscriberFactory interface {
	NewTranscriber(apiKey string) transcribe.Transcriber
}

// DetectorFactory creates chapter detectors.
type DetectorFactory interface {
	NewGenerativeDetector(apiKey string) chapters.Detector
	NewHeuristicDetector() chapters.Detector
}

// SummarizerFactory creates summarizers for the chosen provider.
type SummarizerFactory interface {
	NewSummarizer(p Provider, apiKey string, opts ...summarize.Option) summarize.Summarizer
}

// SpeechRenderer converts summary text to a spoken audio file.
type SpeechRenderer interface {
	Render(ctx context.Context, text, voice, outPath string) error
}

// SpeechFactory creates speech renderers.
type SpeechFactory interface {
	NewRenderer(apiKey string) SpeechRenderer
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithStderr sets the stderr writer.
func WithStderr(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stderr = w
	}
}

// WithGetenv sets the environment variable getter.
func WithGetenv(fn func(string) string) EnvOption {
	return func(e *Env) {
		e.Getenv = fn
	}
}

// WithNow sets the time provider.
func WithNow(fn func() time.Time) EnvOption {
	return func(e *Env) {
		e.Now = fn
	}
}

// WithToolResolver sets the external-binary resolver.
func WithToolResolver(r ToolResolver) EnvOption {
	return func(e *Env) {
		e.ToolResolver = r
	}
}

// WithConfigLoader sets the config loader.
func WithConfigLoader(l ConfigLoader) EnvOption {
	return func(e *Env) {
		e.ConfigLoader = l
	}
}

// WithMediaFactory sets the media handler factory.
func WithMediaFactory(f MediaFactory) EnvOption {
	return func(e *Env) {
		e.MediaFactory = f
	}
}

// WithSegmenterFactory sets the segment extractor factory.
func WithSegmenterFactory(f SegmenterFactory) EnvOption {
	return func(e *Env) {
		e.SegmenterFactory = f
	}
}

// WithTranscriberFactory sets the transcriber factory.
func WithTranscriberFactory(f TranscriberFactory) EnvOption {
	return func(e *Env) {
		e.TranscriberFactory = f
	}
}

// WithDetectorFactory sets the chapter detector factory.
func WithDetectorFactory(f DetectorFactory) EnvOption {
	return func(e *Env) {
		e.DetectorFactory = f
	}
}

// WithSummarizerFactory sets the summarizer factory.
func WithSummarizerFactory(f SummarizerFactory) EnvOption {
	return func(e *Env) {
		e.SummarizerFactory = f
	}
}

// WithSpeechFactory sets the speech renderer factory.
func WithSpeechFactory(f SpeechFactory) EnvOption {
	return func(e *Env) {
		e.SpeechFactory = f
	}
}

// DefaultEnv returns an Env with production defaults.
func DefaultEnv() *Env {
	return &Env{
		Stderr:             os.Stderr,
		Getenv:             os.Getenv,
		Now:                time.Now,
		ToolResolver:       &defaultToolResolver{},
		ConfigLoader:       &defaultConfigLoader{},
		MediaFactory:       &defaultMediaFactory{},
		SegmenterFactory:   &defaultSegmenterFactory{},
		TranscriberFactory: &defaultTranscriberFactory{},
		DetectorFactory:    &defaultDetectorFactory{},
		SummarizerFactory:  &defaultSummarizerFactory{},
		SpeechFactory:      &defaultSpeechFactory{},
	}
}

// NewEnv creates an Env with the given options applied to defaults.
func NewEnv(opts ...EnvOption) *Env {
	env := DefaultEnv()
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// ---------------------------------------------------------------------------
// Default implementations - delegate to real packages
// ---------------------------------------------------------------------------

type defaultToolResolver struct{}

func (defaultToolResolver) Resolve() (string, error) {
	return ffmpeg.Resolve()
}

func (defaultToolResolver) ResolveYtDlp() (string, error) {
	return ffmpeg.ResolveYtDlp()
}

type defaultConfigLoader struct{}

func (defaultConfigLoader) Load() (config.Config, error) {
	return config.Load()
}

func (defaultConfigLoader) Save(cfg config.Config) error {
	return config.Save(cfg)
}

type defaultMediaFactory struct{}

func (defaultMediaFactory) NewHandler(ffmpegPath, ytdlpPath, tempDir string) (MediaHandler, error) {
	return media.NewHandler(ffmpegPath, tempDir, media.WithYtDlp(ytdlpPath))
}

type defaultSegmenterFactory struct{}

func (defaultSegmenterFactory) NewExtractor(ffmpegPath, tempRoot string) (pipeline.Segmenter, error) {
	return segment.NewExtractor(ffmpegPath, tempRoot)
}

type defaultTranscriberFactory struct{}

func (defaultTranscriberFactory) NewTranscriber(apiKey string) transcribe.Transcriber {
	client := openai.NewClient(apiKey)
	return transcribe.NewOpenAITranscriber(client)
}

type defaultDetectorFactory struct{}

func (defaultDetectorFactory) NewGenerativeDetector(apiKey string) chapters.Detector {
	client := openai.NewClient(apiKey)
	return chapters.NewGenerativeDetector(client)
}

func (defaultDetectorFactory) NewHeuristicDetector() chapters.Detector {
	return chapters.NewHeuristicDetector(0)
}

type defaultSummarizerFactory struct{}

func (defaultSummarizerFactory) NewSummarizer(p Provider, apiKey string, opts ...summarize.Option) summarize.Summarizer {
	if p.IsDeepSeek() {
		return summarize.NewDeepSeekSummarizer(apiKey, opts...)
	}
	client := openai.NewClient(apiKey)
	return summarize.NewOpenAISummarizer(client, opts...)
}

type defaultSpeechFactory struct{}

func (defaultSpeechFactory) NewRenderer(apiKey string) SpeechRenderer {
	client := openai.NewClient(apiKey)
	return speech.NewRenderer(client)
}

// Compile-time interface verification.
var (
	_ ToolResolver       = (*defaultToolResolver)(nil)
	_ ConfigLoader       = (*defaultConfigLoader)(nil)
	_ MediaFactory       = (*defaultMediaFactory)(nil)
	_ SegmenterFactory   = (*defaultSegmenterFactory)(nil)
	_ TranscriberFactory = (*defaultTranscriberFactory)(nil)
	_ DetectorFactory    = (*defaultDetectorFactory)(nil)
	_ SummarizerFactory  = (*defaultSummarizerFactory)(nil)
	_ SpeechFactory      = (*defaultSpeechFactory)(nil)
	_ MediaHandler       = (*media.Handler)(nil)
	_ SpeechRenderer     = (*speech.Renderer)(nil)
)
