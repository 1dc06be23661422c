package segment

import "errors"

// ErrPlanning indicates invalid planning parameters (fatal, bad input).
var ErrPlanning = errors.New("window planning failed")

// ErrExtraction indicates ffmpeg failed to cut a segment (fatal, source unusable).
var ErrExtraction = errors.New("segment extraction failed")
