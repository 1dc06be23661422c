package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alnah/go-videodigest/internal/chapters"
	"github.com/alnah/go-videodigest/internal/summarize"
	"github.com/alnah/go-videodigest/internal/watch"
)

// WatchCmd creates the watch command.
// The env parameter provides injectable dependencies for testing.
func WatchCmd(env *Env) *cobra.Command {
	var flags digestFlags
	var maxParallel int

	cmd := &cobra.Command{
		Use:   "watch <directory>",
		Short: "Watch a directory and digest new media files",
		Long: `Watch a directory and run the digest pipeline on every media file
that appears in it. Files are processed after they finish writing;
failures are reported and the watcher keeps running.

Reports are written next to the configured output directory, one per
source, using the same options as the digest command.`,
		Example: `  videodigest watch ~/Videos/inbox
  videodigest watch ./drop -s bullet --no-audio
  videodigest watch ./drop --max-parallel 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), env, args[0], flags, maxParallel)
		},
	}

	cmd.Flags().StringVarP(&flags.style, "style", "s", "", "Summary style: brief, detailed, bullet (default: detailed)")
	cmd.Flags().StringVarP(&flags.language, "language", "l", "", "Audio language (ISO 639-1 code)")
	cmd.Flags().StringVar(&flags.outputLang, "output-lang", "", "Summary language (default: English)")
	cmd.Flags().StringVar(&flags.provider, "provider", ProviderOpenAI, "Summarization provider: openai, deepseek")
	cmd.Flags().StringVar(&flags.chapterStrategy, "chapters", chapters.StrategyGenerative, "Chapter detection: generative, heuristic")
	cmd.Flags().StringVar(&flags.voice, "voice", "", "Voice for audio summaries (default: nova)")
	cmd.Flags().IntVarP(&flags.parallel, "parallel", "p", 0, "Max concurrent transcription requests (1-10)")
	cmd.Flags().BoolVar(&flags.includeTranscript, "include-transcript", false, "Append transcripts to the reports")
	cmd.Flags().BoolVar(&flags.noAudio, "no-audio", false, "Skip spoken audio summaries")
	cmd.Flags().IntVar(&maxParallel, "max-parallel", 1, "Files digested at the same time")

	return cmd
}

// runWatch validates the shared flags once up front, then hands the
// directory to the watcher. Per-file failures are reported by the watcher
// and do not end the run; only cancellation does.
func runWatch(ctx context.Context, env *Env, dir string, flags digestFlags, maxParallel int) error {
	// Fail fast on option errors before the first file ever arrives.
	if flags.style != "" {
		if _, err := summarize.ParseStyle(flags.style); err != nil {
			return err
		}
	}
	if _, err := ParseProvider(flags.provider); err != nil {
		return err
	}
	if flags.chapterStrategy != chapters.StrategyGenerative &&
		flags.chapterStrategy != chapters.StrategyHeuristic {
		return fmt.Errorf("unknown strategy %q (use 'generative' or 'heuristic'): %w",
			flags.chapterStrategy, ErrUnknownStrategy)
	}
	if env.Getenv(EnvOpenAIAPIKey) == "" {
		return fmt.Errorf("%w (set it with: export %s=sk-...)", ErrAPIKeyMissing, EnvOpenAIAPIKey)
	}

	w, err := watch.NewWatcher(dir,
		func(ctx context.Context, path string) error {
			return runDigest(ctx, env, path, flags)
		},
		watch.WithMaxParallel(maxParallel),
		watch.WithEventFunc(func(msg string) {
			fmt.Fprintln(env.Stderr, msg)
		}),
	)
	if err != nil {
		return err
	}

	err = w.Run(ctx)
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(env.Stderr, "Watch stopped")
		return nil
	}
	return err
}
