package chapters

// Test-only exports for injecting mocks from the chapters_test package.

// ChatCompleter re-exports the private completer interface for mocks.
type ChatCompleter = chatCompleter

// WithCompleter injects a mock chat completer.
func WithCompleter(c chatCompleter) GenerativeOption {
	return withCompleter(c)
}
