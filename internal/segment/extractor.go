package segment

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-videodigest/internal/ffmpeg"
)

// Segment is one materialized window: a temporary encoded audio file.
// The caller owns the files; clean up with Cleanup after transcription.
type Segment struct {
	Path   string // Absolute path to the segment file.
	Window Window // The window this segment covers.
}

// tempDirCreator creates temporary directories; os is the default.
type tempDirCreator interface {
	MkdirTemp(dir, pattern string) (string, error)
}

type osTempDirCreator struct{}

func (osTempDirCreator) MkdirTemp(dir, pattern string) (string, error) {
	return os.MkdirTemp(dir, pattern)
}

// Extractor materializes windows as audio segment files using ffmpeg.
type Extractor struct {
	ffmpegPath string
	tempRoot   string

	cmd     ffmpeg.Runner
	tempDir tempDirCreator
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithRunner sets the command runner (for testing).
func WithRunner(r ffmpeg.Runner) ExtractorOption {
	return func(e *Extractor) {
		e.cmd = r
	}
}

// WithTempDirCreator sets the temp directory creator (for testing).
func WithTempDirCreator(t tempDirCreator) ExtractorOption {
	return func(e *Extractor) {
		e.tempDir = t
	}
}

// NewExtractor creates an Extractor.
// tempRoot is where segment directories are created; empty means the OS
// temp directory.
func NewExtractor(ffmpegPath, tempRoot string, opts ...ExtractorOption) (*Extractor, error) {
	if ffmpegPath == "" {
		return nil, fmt.Errorf("ffmpegPath cannot be empty: %w", ffmpeg.ErrNotFound)
	}

	e := &Extractor{
		ffmpegPath: ffmpegPath,
		tempRoot:   tempRoot,
		cmd:        ffmpeg.Exec{},
		tempDir:    osTempDirCreator{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Extract materializes every window as a segment file under a fresh temp
// directory. On failure the directory is removed and nothing is returned;
// a failed extraction means the source is unusable, so there is no retry.
func (e *Extractor) Extract(ctx context.Context, audioPath string, windows []Window) ([]Segment, error) {
	if len(windows) == 0 {
		return nil, fmt.Errorf("%w: no windows to extract", ErrExtraction)
	}

	dir, err := e.tempDir.MkdirTemp(e.tempRoot, "videodigest-seg-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create segment directory: %w", err)
	}

	segments := make([]Segment, 0, len(windows))
	for _, w := range windows {
		segPath := filepath.Join(dir, fmt.Sprintf("segment_%03d.ogg", w.Index))
		if err := e.extractOne(ctx, audioPath, segPath, w); err != nil {
			_ = os.RemoveAll(dir) // best-effort cleanup; original error takes precedence
			return nil, err
		}
		segments = append(segments, Segment{Path: segPath, Window: w})
	}

	return segments, nil
}

// extractOne cuts a single window out of audioPath.
// Re-encodes to OGG Vorbis so output is valid even from truncated sources.
func (e *Extractor) extractOne(ctx context.Context, audioPath, segPath string, w Window) error {
	args := []string{
		"-y",
		"-i", audioPath,
		"-ss", ffmpegTime(w.Start),
		"-to", ffmpegTime(w.End),
		"-c:a", "libvorbis",
		"-ar", "16000",
		"-ac", "1",
		"-q:a", "2",
		segPath,
	}

	output, err := e.cmd.CombinedOutput(ctx, e.ffmpegPath, args)
	if err != nil {
		return fmt.Errorf("%w: failed to extract %s: %v\nOutput: %s",
			ErrExtraction, w, err, string(output))
	}
	return nil
}

// ffmpegTime formats a duration for ffmpeg -ss/-to arguments.
func ffmpegTime(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := d.Seconds() - float64(h*3600+m*60)
	return fmt.Sprintf("%02d:%02d:%06.3f", h, m, s)
}

// Cleanup removes all segment files and their parent directory.
// Call after the merged transcript is confirmed complete, or on any
// terminal failure.
func Cleanup(segments []Segment) error {
	if len(segments) == 0 {
		return nil
	}

	// All segments live in the same temp directory.
	dir := filepath.Dir(segments[0].Path)

	// Safety check: only remove directories we created.
	if !strings.Contains(dir, "videodigest-seg-") {
		for _, s := range segments {
			_ = os.Remove(s.Path) // best-effort cleanup; files may already be gone
		}
		return nil
	}

	return os.RemoveAll(dir)
}
