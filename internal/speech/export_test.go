package speech

// Test-only exports. The speech client interface stays unexported in the
// public API; tests need it to inject mocks.

// SpeechCreator re-exports the client interface for test doubles.
type SpeechCreator = speechCreator

// WithCreator re-exports the client injection option.
var WithCreator = withCreator

// TruncateForSpeech re-exports the input-limit truncation.
var TruncateForSpeech = truncateForSpeech

// MaxInputChars re-exports the TTS input limit.
const MaxInputChars = maxInputChars
