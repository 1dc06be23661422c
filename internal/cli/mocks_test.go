package cli

// Mock implementations of the Env factory interfaces. Each mock provides a
// working default so tests only configure what they assert on.

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/alnah/go-videodigest/internal/chapters"
	"github.com/alnah/go-videodigest/internal/config"
	"github.com/alnah/go-videodigest/internal/media"
	"github.com/alnah/go-videodigest/internal/pipeline"
	"github.com/alnah/go-videodigest/internal/segment"
	"github.com/alnah/go-videodigest/internal/summarize"
	"github.com/alnah/go-videodigest/internal/transcribe"
	"github.com/alnah/go-videodigest/internal/transcript"
)

// ---------------------------------------------------------------------------
// Tool resolver
// ---------------------------------------------------------------------------

type mockToolResolver struct {
	FFmpegErr error
	YtDlpErr  error
}

func (m *mockToolResolver) Resolve() (string, error) {
	if m.FFmpegErr != nil {
		return "", m.FFmpegErr
	}
	return "/usr/bin/ffmpeg", nil
}

func (m *mockToolResolver) ResolveYtDlp() (string, error) {
	if m.YtDlpErr != nil {
		return "", m.YtDlpErr
	}
	return "/usr/bin/yt-dlp", nil
}

// ---------------------------------------------------------------------------
// Config loader
// ---------------------------------------------------------------------------

type mockConfigLoader struct {
	LoadFunc func() (config.Config, error)
	SaveErr  error

	mu    sync.Mutex
	Saved []config.Config
}

func (m *mockConfigLoader) Load() (config.Config, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc()
	}
	cfg := config.Config{}
	cfg.Validate()
	return cfg, nil
}

func (m *mockConfigLoader) Save(cfg config.Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Saved = append(m.Saved, cfg)
	return nil
}

// ---------------------------------------------------------------------------
// Media handler and factory
// ---------------------------------------------------------------------------

type mockMediaHandler struct {
	AcquireFunc      func(ctx context.Context, input string) (string, func(), error)
	ExtractAudioFunc func(ctx context.Context, mediaPath string) (media.Source, func(), error)
}

func (m *mockMediaHandler) Acquire(ctx context.Context, input string) (string, func(), error) {
	if m.AcquireFunc != nil {
		return m.AcquireFunc(ctx, input)
	}
	return input, func() {}, nil
}

func (m *mockMediaHandler) ExtractAudio(ctx context.Context, mediaPath string) (media.Source, func(), error) {
	if m.ExtractAudioFunc != nil {
		return m.ExtractAudioFunc(ctx, mediaPath)
	}
	base := filepath.Base(mediaPath)
	src := media.Source{
		Path:     "/tmp/audio/" + base[:len(base)-len(filepath.Ext(base))] + ".ogg",
		Duration: 5 * time.Minute,
		Size:     5 * 60 * 2000,
	}
	return src, func() {}, nil
}

func (m *mockMediaHandler) Probe(_ context.Context, audioPath string) (media.Source, error) {
	return media.Source{Path: audioPath, Duration: 5 * time.Minute, Size: 600000}, nil
}

type mockMediaFactory struct {
	handler *mockMediaHandler
	err     error

	GotFFmpeg string
	GotYtDlp  string
	GotTemp   string
}

func (m *mockMediaFactory) NewHandler(ffmpegPath, ytdlpPath, tempDir string) (MediaHandler, error) {
	m.GotFFmpeg = ffmpegPath
	m.GotYtDlp = ytdlpPath
	m.GotTemp = tempDir
	if m.err != nil {
		return nil, m.err
	}
	if m.handler == nil {
		m.handler = &mockMediaHandler{}
	}
	return m.handler, nil
}

// ---------------------------------------------------------------------------
// Segmenter
// ---------------------------------------------------------------------------

// mockSegmenter returns one placeholder segment per planned window.
type mockSegmenter struct {
	err error
}

func (m *mockSegmenter) Extract(_ context.Context, _ string, windows []segment.Window) ([]segment.Segment, error) {
	if m.err != nil {
		return nil, m.err
	}
	segs := make([]segment.Segment, len(windows))
	for i, w := range windows {
		segs[i] = segment.Segment{Path: "/tmp/mock-segments/seg.ogg", Window: w}
	}
	return segs, nil
}

type mockSegmenterFactory struct {
	segmenter *mockSegmenter
	err       error
}

func (m *mockSegmenterFactory) NewExtractor(_, _ string) (pipeline.Segmenter, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.segmenter == nil {
		m.segmenter = &mockSegmenter{}
	}
	return m.segmenter, nil
}

// ---------------------------------------------------------------------------
// Transcriber
// ---------------------------------------------------------------------------

type mockTranscriber struct {
	err error
}

func (m *mockTranscriber) Transcribe(_ context.Context, _ string, _ transcribe.Options) (transcribe.Fragment, error) {
	if m.err != nil {
		return transcribe.Fragment{}, m.err
	}
	return transcribe.Fragment{Entries: []transcribe.Entry{
		{Text: "mock transcription text", Start: 0, End: 3 * time.Second},
	}}, nil
}

type mockTranscriberFactory struct {
	transcriber *mockTranscriber

	GotAPIKey string
}

func (m *mockTranscriberFactory) NewTranscriber(apiKey string) transcribe.Transcriber {
	m.GotAPIKey = apiKey
	if m.transcriber == nil {
		m.transcriber = &mockTranscriber{}
	}
	return m.transcriber
}

// ---------------------------------------------------------------------------
// Chapter detector
// ---------------------------------------------------------------------------

type mockDetector struct {
	chs []chapters.Chapter
	err error
}

func (m *mockDetector) Detect(_ context.Context, _ transcript.Transcript) ([]chapters.Chapter, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.chs == nil {
		return []chapters.Chapter{
			{Title: "Intro", Start: 0},
			{Title: "Main", Start: 2 * time.Minute},
		}, nil
	}
	return m.chs, nil
}

type mockDetectorFactory struct {
	detector *mockDetector

	GenerativeCalls int
	HeuristicCalls  int
}

func (m *mockDetectorFactory) NewGenerativeDetector(_ string) chapters.Detector {
	m.GenerativeCalls++
	if m.detector == nil {
		m.detector = &mockDetector{}
	}
	return m.detector
}

func (m *mockDetectorFactory) NewHeuristicDetector() chapters.Detector {
	m.HeuristicCalls++
	if m.detector == nil {
		m.detector = &mockDetector{}
	}
	return m.detector
}

// ---------------------------------------------------------------------------
// Summarizer
// ---------------------------------------------------------------------------

type mockSummarizer struct {
	err error
}

func (m *mockSummarizer) Summarize(_ context.Context, t transcript.Transcript, chs []chapters.Chapter, opts summarize.Options) (summarize.Summary, error) {
	if m.err != nil {
		return summarize.Summary{}, m.err
	}
	return summarize.Summary{
		Style:      opts.Style,
		Paragraphs: []string{"A mock summary of the source."},
		Transcript: t,
		Chapters:   chs,
	}, nil
}

type mockSummarizerFactory struct {
	summarizer *mockSummarizer

	GotProvider Provider
	GotAPIKey   string
}

func (m *mockSummarizerFactory) NewSummarizer(p Provider, apiKey string, _ ...summarize.Option) summarize.Summarizer {
	m.GotProvider = p
	m.GotAPIKey = apiKey
	if m.summarizer == nil {
		m.summarizer = &mockSummarizer{}
	}
	return m.summarizer
}

// ---------------------------------------------------------------------------
// Speech renderer
// ---------------------------------------------------------------------------

type mockSpeechRenderer struct {
	RenderErr error

	mu    sync.Mutex
	Calls []struct {
		Text, Voice, OutPath string
	}
}

func (m *mockSpeechRenderer) Render(_ context.Context, text, voice, outPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, struct{ Text, Voice, OutPath string }{text, voice, outPath})
	return m.RenderErr
}

func (m *mockSpeechRenderer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

type mockSpeechFactory struct {
	renderer *mockSpeechRenderer

	GotAPIKey string
}

func (m *mockSpeechFactory) NewRenderer(apiKey string) SpeechRenderer {
	m.GotAPIKey = apiKey
	if m.renderer == nil {
		m.renderer = &mockSpeechRenderer{}
	}
	return m.renderer
}

// Compile-time interface verification for the mocks.
var (
	_ ToolResolver       = (*mockToolResolver)(nil)
	_ ConfigLoader       = (*mockConfigLoader)(nil)
	_ MediaHandler       = (*mockMediaHandler)(nil)
	_ MediaFactory       = (*mockMediaFactory)(nil)
	_ SegmenterFactory   = (*mockSegmenterFactory)(nil)
	_ pipeline.Segmenter = (*mockSegmenter)(nil)
	_ TranscriberFactory = (*mockTranscriberFactory)(nil)
	_ DetectorFactory    = (*mockDetectorFactory)(nil)
	_ SummarizerFactory  = (*mockSummarizerFactory)(nil)
	_ SpeechFactory      = (*mockSpeechFactory)(nil)
)
