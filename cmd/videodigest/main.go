package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/alnah/go-videodigest/internal/apierr"
	"github.com/alnah/go-videodigest/internal/cli"
	"github.com/alnah/go-videodigest/internal/ffmpeg"
	"github.com/alnah/go-videodigest/internal/lang"
	"github.com/alnah/go-videodigest/internal/media"
	"github.com/alnah/go-videodigest/internal/report"
	"github.com/alnah/go-videodigest/internal/segment"
	"github.com/alnah/go-videodigest/internal/speech"
	"github.com/alnah/go-videodigest/internal/summarize"
	"github.com/alnah/go-videodigest/internal/transcript"
)

// Injected at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

// Exit codes.
const (
	ExitOK            = 0
	ExitGeneral       = 1
	ExitUsage         = 2
	ExitSetup         = 3
	ExitValidation    = 4
	ExitAcquisition   = 5
	ExitTranscription = 6
	ExitSummarization = 7
	ExitInterrupt     = 130
)

func main() {
	// Load .env file if present (ignore error if missing).
	_ = godotenv.Load()

	// Context with signal cancellation.
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Create the CLI environment with production defaults.
	env := cli.DefaultEnv()

	// Root command.
	rootCmd := &cobra.Command{
		Use:     "videodigest",
		Short:   "Transcribe and summarize video and audio sources",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),
		// Silence Cobra's default error/usage printing; we handle it ourselves.
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	// Subcommands.
	rootCmd.AddCommand(cli.DigestCmd(env))
	rootCmd.AddCommand(cli.WatchCmd(env))
	rootCmd.AddCommand(cli.ConfigCmd(env))

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps errors to exit codes.
func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	// Interrupt.
	if errors.Is(err, context.Canceled) {
		return ExitInterrupt
	}

	// Usage errors (ExitUsage = 2): Cobra flag/arg parsing errors.
	if isCobraUsageError(err) {
		return ExitUsage
	}

	// Setup errors (ExitSetup = 3).
	if errors.Is(err, ffmpeg.ErrNotFound) || errors.Is(err, ffmpeg.ErrYtDlpNotFound) ||
		errors.Is(err, cli.ErrAPIKeyMissing) || errors.Is(err, cli.ErrDeepSeekKeyMissing) {
		return ExitSetup
	}

	// Validation errors (ExitValidation = 4).
	if errors.Is(err, cli.ErrFileNotFound) || errors.Is(err, cli.ErrUnsupportedFormat) ||
		errors.Is(err, cli.ErrInvalidProvider) || errors.Is(err, cli.ErrUnknownStrategy) ||
		errors.Is(err, summarize.ErrUnknownStyle) || errors.Is(err, speech.ErrUnknownVoice) ||
		errors.Is(err, lang.ErrInvalid) || errors.Is(err, report.ErrFileExists) {
		return ExitValidation
	}

	// Acquisition/extraction errors (ExitAcquisition = 5).
	if errors.Is(err, media.ErrAcquisition) || errors.Is(err, media.ErrExtraction) ||
		errors.Is(err, media.ErrFileNotFound) || errors.Is(err, segment.ErrPlanning) ||
		errors.Is(err, segment.ErrExtraction) {
		return ExitAcquisition
	}

	// Transcription errors (ExitTranscription = 6).
	if errors.Is(err, apierr.ErrRateLimit) || errors.Is(err, apierr.ErrQuotaExceeded) ||
		errors.Is(err, apierr.ErrTimeout) || errors.Is(err, apierr.ErrAuthFailed) ||
		errors.Is(err, transcript.ErrMissingFragment) {
		return ExitTranscription
	}

	// Summarization errors (ExitSummarization = 7).
	if errors.Is(err, summarize.ErrNoTranscript) || errors.Is(err, summarize.ErrEmptyResult) ||
		errors.Is(err, apierr.ErrContextTooLong) {
		return ExitSummarization
	}

	return ExitGeneral
}

// cobraUsageErrorPatterns contains error message substrings that indicate
// Cobra usage errors. Cobra doesn't expose typed errors, so string matching
// is the only reliable approach; these patterns are stable across v1.8+.
var cobraUsageErrorPatterns = []string{
	"required flag",
	"unknown flag",
	"unknown shorthand",
	"flag needs an argument",
	"invalid argument",
	"if any flags in the group",
	"accepts ",
	"requires at least",
	"requires at most",
}

// isCobraUsageError checks if an error is a Cobra usage/parsing error.
func isCobraUsageError(err error) bool {
	if err == nil {
		return false
	}
	errMsg := err.Error()
	for _, pattern := range cobraUsageErrorPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}
	return false
}
