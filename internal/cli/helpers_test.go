package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-videodigest/internal/chapters"
)

// ---------------------------------------------------------------------------
// syncBuffer - thread-safe bytes.Buffer for concurrent test output
// ---------------------------------------------------------------------------

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Compile-time check that syncBuffer implements io.Writer.
var _ io.Writer = (*syncBuffer)(nil)

// ---------------------------------------------------------------------------
// testMocks - convenience struct for grouping all mocks
// ---------------------------------------------------------------------------

type testMocks struct {
	toolResolver *mockToolResolver
	configLoader *mockConfigLoader
	mediaFactory *mockMediaFactory
	segmenter    *mockSegmenterFactory
	transcriber  *mockTranscriberFactory
	detector     *mockDetectorFactory
	summarizer   *mockSummarizerFactory
	speech       *mockSpeechFactory
	stderr       *syncBuffer
}

// testEnv creates an Env with every dependency mocked.
// Returns the Env and the mocks for assertions.
func testEnv() (*Env, *testMocks) {
	m := &testMocks{
		toolResolver: &mockToolResolver{},
		configLoader: &mockConfigLoader{},
		mediaFactory: &mockMediaFactory{},
		segmenter:    &mockSegmenterFactory{},
		transcriber:  &mockTranscriberFactory{},
		detector:     &mockDetectorFactory{},
		summarizer:   &mockSummarizerFactory{},
		speech:       &mockSpeechFactory{},
		stderr:       &syncBuffer{},
	}

	env := &Env{
		Stderr:             m.stderr,
		Getenv:             defaultTestEnv,
		Now:                fixedTime(time.Date(2026, 8, 25, 14, 30, 0, 0, time.UTC)),
		ToolResolver:       m.toolResolver,
		ConfigLoader:       m.configLoader,
		MediaFactory:       m.mediaFactory,
		SegmenterFactory:   m.segmenter,
		TranscriberFactory: m.transcriber,
		DetectorFactory:    m.detector,
		SummarizerFactory:  m.summarizer,
		SpeechFactory:      m.speech,
	}
	return env, m
}

// fixedTime returns a function that always returns the given time.
func fixedTime(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// staticEnv returns a getenv function backed by the given map.
func staticEnv(vars map[string]string) func(string) string {
	return func(key string) string {
		return vars[key]
	}
}

// defaultTestEnv returns API keys for both OpenAI and DeepSeek.
func defaultTestEnv(key string) string {
	switch key {
	case EnvOpenAIAPIKey:
		return "test-openai-key"
	case EnvDeepSeekAPIKey:
		return "test-deepseek-key"
	default:
		return ""
	}
}

// createTestMediaFile creates a media file under a temp dir and returns
// its path.
func createTestMediaFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("fake media content"), 0644); err != nil {
		t.Fatalf("failed to create test media file: %v", err)
	}
	return path
}

// defaultDigestFlags returns the flag values cobra would supply with no
// flags set on the command line.
func defaultDigestFlags() digestFlags {
	return digestFlags{
		provider:        ProviderOpenAI,
		chapterStrategy: chapters.StrategyGenerative,
	}
}
