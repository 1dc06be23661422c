// Package ffmpeg locates the external media binaries (ffmpeg, yt-dlp) and
// provides the command-execution abstraction the media and segment packages
// inject for testing.
package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// Environment variables for custom binary paths.
const (
	EnvFFmpegPath = "FFMPEG_PATH"
	EnvYtDlpPath  = "YTDLP_PATH"
)

// Resolve returns the path to the ffmpeg binary.
// Precedence: FFMPEG_PATH environment variable, then PATH lookup.
func Resolve() (string, error) {
	if p := os.Getenv(EnvFFmpegPath); p != "" {
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("%s points to %q: %v: %w", EnvFFmpegPath, p, err, ErrNotFound)
		}
		return p, nil
	}

	p, err := exec.LookPath("ffmpeg")
	if err != nil {
		return "", fmt.Errorf("install ffmpeg or set %s: %w", EnvFFmpegPath, ErrNotFound)
	}
	return p, nil
}

// ResolveYtDlp returns the path to the yt-dlp binary.
// Precedence: YTDLP_PATH environment variable, then PATH lookup.
func ResolveYtDlp() (string, error) {
	if p := os.Getenv(EnvYtDlpPath); p != "" {
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("%s points to %q: %v: %w", EnvYtDlpPath, p, err, ErrYtDlpNotFound)
		}
		return p, nil
	}

	p, err := exec.LookPath("yt-dlp")
	if err != nil {
		return "", fmt.Errorf("install yt-dlp or set %s: %w", EnvYtDlpPath, ErrYtDlpNotFound)
	}
	return p, nil
}

// Runner executes external commands and returns their combined output.
// The OS implementation is Exec; tests inject fakes.
type Runner interface {
	CombinedOutput(ctx context.Context, name string, args []string) ([]byte, error)
}

// Exec implements Runner using exec.CommandContext.
type Exec struct{}

// CombinedOutput runs the command and returns stdout and stderr together.
func (Exec) CombinedOutput(ctx context.Context, name string, args []string) ([]byte, error) {
	// #nosec G204 -- name and args are built by the pipeline, not user input
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}
