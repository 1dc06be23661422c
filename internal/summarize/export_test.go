package summarize

// Test-only exports for injecting mocks from the summarize_test package.

// ChatCompleter re-exports the private completer interface for mocks.
type ChatCompleter = chatCompleter

// WithCompleter injects a mock chat completer.
func WithCompleter(c chatCompleter) Option {
	return withCompleter(c)
}

// MaxWindowTokens exposes the windowing threshold so tests can build
// transcripts on either side of it.
const MaxWindowTokens = maxWindowTokens

// CharsPerToken exposes the token estimation ratio.
const CharsPerToken = charsPerToken
