package media

import "errors"

// ErrAcquisition indicates the input could not be resolved to a local media file.
var ErrAcquisition = errors.New("media acquisition failed")

// ErrExtraction indicates ffmpeg could not read or convert the source.
var ErrExtraction = errors.New("audio extraction failed")

// ErrFileNotFound indicates the specified input file does not exist.
var ErrFileNotFound = errors.New("file not found")
