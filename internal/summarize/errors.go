package summarize

import "errors"

// ErrNoTranscript indicates there is no transcript text to summarize.
var ErrNoTranscript = errors.New("no transcript to summarize")

// ErrEmptyResult indicates the generation service returned no usable text.
var ErrEmptyResult = errors.New("generation service returned empty summary")
