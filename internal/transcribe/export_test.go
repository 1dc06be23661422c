package transcribe

// Test-only exports for injecting mocks from the transcribe_test package.

// AudioTranscriber re-exports the private client interface for mocks.
type AudioTranscriber = audioTranscriber

// WithClient injects a mock transcription client.
func WithClient(c audioTranscriber) TranscriberOption {
	return withClient(c)
}
