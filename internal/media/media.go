// Package media acquires the input (remote URL or local file), extracts its
// audio track, and probes duration and size to build the immutable
// MediaSource the pipeline operates on.
package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/alnah/go-videodigest/internal/ffmpeg"
	"github.com/alnah/go-videodigest/internal/format"
)

// Source is an immutable reference to a local audio file.
// Created once at pipeline entry; never mutated.
type Source struct {
	Path     string        // Absolute path to the audio file.
	Duration time.Duration // Total duration.
	Size     int64         // File size in bytes.
}

// BytesPerSecond returns the average encoding rate, used by the window
// planner to estimate segment sizes.
func (s Source) BytesPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.Size) / s.Duration.Seconds()
}

// String returns a human-readable representation for progress output.
func (s Source) String() string {
	return fmt.Sprintf("%s (%s, %s)",
		filepath.Base(s.Path),
		format.Duration(s.Duration),
		format.Size(s.Size))
}

// remoteURLRe matches the video-platform URLs yt-dlp can resolve.
var remoteURLRe = regexp.MustCompile(`^(https?://)?(www\.)?(youtube|youtu|youtube-nocookie)\.(com|be)/`)

// IsRemoteURL reports whether the input is a URL to download rather than a
// local file path.
func IsRemoteURL(input string) bool {
	return remoteURLRe.MatchString(input)
}

// speech encoding parameters: 16kHz mono OGG Vorbis, optimal for
// transcription and small enough to keep per-second byte rates low.
func audioEncodingArgs() []string {
	return []string{
		"-vn",
		"-c:a", "libvorbis",
		"-ar", "16000",
		"-ac", "1",
		"-q:a", "2",
	}
}

// Handler resolves inputs to audio Sources.
type Handler struct {
	ffmpegPath string
	ytdlpPath  string
	tempDir    string

	cmd ffmpeg.Runner
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithRunner sets the command runner (for testing).
func WithRunner(r ffmpeg.Runner) HandlerOption {
	return func(h *Handler) {
		h.cmd = r
	}
}

// WithYtDlp sets the yt-dlp binary path, enabling remote acquisition.
func WithYtDlp(path string) HandlerOption {
	return func(h *Handler) {
		h.ytdlpPath = path
	}
}

// NewHandler creates a Handler.
// tempDir is where downloaded media and extracted audio are staged;
// empty means the OS temp directory.
func NewHandler(ffmpegPath, tempDir string, opts ...HandlerOption) (*Handler, error) {
	if ffmpegPath == "" {
		return nil, fmt.Errorf("ffmpegPath cannot be empty: %w", ffmpeg.ErrNotFound)
	}

	h := &Handler{
		ffmpegPath: ffmpegPath,
		tempDir:    tempDir,
		cmd:        ffmpeg.Exec{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Acquire resolves the input to a local media file.
// Remote URLs are downloaded with yt-dlp into the temp directory; the
// returned cleanup func removes the download and is a no-op for local
// inputs (never delete the user's own file).
func (h *Handler) Acquire(ctx context.Context, input string) (string, func(), error) {
	if !IsRemoteURL(input) {
		if _, err := os.Stat(input); err != nil {
			return "", nil, fmt.Errorf("%w: %s", ErrFileNotFound, input)
		}
		return input, func() {}, nil
	}

	if h.ytdlpPath == "" {
		return "", nil, fmt.Errorf("remote input %q: %w", input, ffmpeg.ErrYtDlpNotFound)
	}

	dir, err := os.MkdirTemp(h.tempDir, "videodigest-dl-*")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create download directory: %w", err)
	}
	cleanup := func() { _ = os.RemoveAll(dir) }

	outTmpl := filepath.Join(dir, "%(title)s.%(ext)s")
	args := []string{
		"-f", "best[ext=mp4]/best",
		"--no-playlist",
		"-o", outTmpl,
		input,
	}
	if output, err := h.cmd.CombinedOutput(ctx, h.ytdlpPath, args); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("%w: yt-dlp failed: %v\nOutput: %s",
			ErrAcquisition, err, string(output))
	}

	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) == 0 {
		cleanup()
		return "", nil, fmt.Errorf("%w: download produced no file", ErrAcquisition)
	}

	return filepath.Join(dir, entries[0].Name()), cleanup, nil
}

// ExtractAudio extracts the audio track from a media file into the temp
// directory and probes it into a Source. The caller owns the returned
// cleanup func.
func (h *Handler) ExtractAudio(ctx context.Context, mediaPath string) (Source, func(), error) {
	dir, err := os.MkdirTemp(h.tempDir, "videodigest-audio-*")
	if err != nil {
		return Source{}, nil, fmt.Errorf("failed to create audio directory: %w", err)
	}
	cleanup := func() { _ = os.RemoveAll(dir) }

	base := strings.TrimSuffix(filepath.Base(mediaPath), filepath.Ext(mediaPath))
	audioPath := filepath.Join(dir, base+".ogg")

	args := []string{"-y", "-i", mediaPath}
	args = append(args, audioEncodingArgs()...)
	args = append(args, audioPath)

	if output, err := h.cmd.CombinedOutput(ctx, h.ffmpegPath, args); err != nil {
		cleanup()
		return Source{}, nil, fmt.Errorf("%w: failed to extract audio from %s: %v\nOutput: %s",
			ErrExtraction, filepath.Base(mediaPath), err, string(output))
	}

	src, err := h.Probe(ctx, audioPath)
	if err != nil {
		cleanup()
		return Source{}, nil, err
	}
	return src, cleanup, nil
}

// Probe builds a Source from an existing audio file, reading duration from
// ffmpeg output and size from the filesystem.
func (h *Handler) Probe(ctx context.Context, audioPath string) (Source, error) {
	info, err := os.Stat(audioPath)
	if err != nil {
		return Source{}, fmt.Errorf("%w: %s", ErrFileNotFound, audioPath)
	}

	// ffmpeg with a null output prints file info including duration.
	// It exits non-zero in this mode, so parse the output regardless.
	args := []string{"-i", audioPath, "-f", "null", "-"}
	output, err := h.cmd.CombinedOutput(ctx, h.ffmpegPath, args)
	if err != nil && len(output) == 0 {
		return Source{}, fmt.Errorf("%w: cannot probe %s: %v", ErrExtraction, audioPath, err)
	}

	duration, err := ParseDuration(string(output))
	if err != nil {
		return Source{}, fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	return Source{Path: audioPath, Duration: duration, Size: info.Size()}, nil
}
