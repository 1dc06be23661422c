package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alnah/go-videodigest/internal/chapters"
	"github.com/alnah/go-videodigest/internal/config"
	"github.com/alnah/go-videodigest/internal/lang"
	"github.com/alnah/go-videodigest/internal/media"
	"github.com/alnah/go-videodigest/internal/pipeline"
	"github.com/alnah/go-videodigest/internal/report"
	"github.com/alnah/go-videodigest/internal/speech"
	"github.com/alnah/go-videodigest/internal/summarize"
	"github.com/alnah/go-videodigest/internal/transcribe"
)

// supportedFormats lists local media types ffmpeg reliably demuxes.
var supportedFormats = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".webm": true,
	".mov":  true,
	".avi":  true,
	".mp3":  true,
	".m4a":  true,
	".ogg":  true,
	".wav":  true,
	".flac": true,
}

// supportedFormatsList returns a sorted, comma-separated list for error messages.
func supportedFormatsList() string {
	formats := make([]string, 0, len(supportedFormats))
	for ext := range supportedFormats {
		formats = append(formats, strings.TrimPrefix(ext, "."))
	}
	slices.Sort(formats)
	return strings.Join(formats, ", ")
}

// clampParallel constrains parallel request count to [1, MaxRecommendedParallel].
func clampParallel(n int) int {
	if n < 1 {
		return 1
	}
	if n > transcribe.MaxRecommendedParallel {
		return transcribe.MaxRecommendedParallel
	}
	return n
}

// digestFlags carries the digest command's flag values.
type digestFlags struct {
	output            string
	style             string
	language          string
	outputLang        string
	provider          string
	chapterStrategy   string
	voice             string
	parallel          int
	includeTranscript bool
	noAudio           bool
}

// DigestCmd creates the digest command, the main entry point.
// The env parameter provides injectable dependencies for testing.
func DigestCmd(env *Env) *cobra.Command {
	var flags digestFlags

	cmd := &cobra.Command{
		Use:   "digest <file-or-url>",
		Short: "Transcribe and summarize a video or audio source",
		Long: `Transcribe a video or audio source and produce a chapter-aware
markdown digest.

The source may be a local media file or a YouTube URL (downloaded with
yt-dlp). The audio is split into size-bounded segments, transcribed in
parallel with OpenAI, merged into one timestamped transcript, organized
into chapters, and summarized.

Summarization uses OpenAI by default, or DeepSeek with --provider deepseek.
Transcription always uses OpenAI.

Supported formats: ` + supportedFormatsList(),
		Example: `  videodigest digest lecture.mp4
  videodigest digest https://www.youtube.com/watch?v=xxxx -s brief
  videodigest digest meeting.mp3 -l fr --output-lang en
  videodigest digest talk.mkv --chapters heuristic --include-transcript
  videodigest digest talk.mkv --provider deepseek --no-audio`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDigest(cmd.Context(), env, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file path (default: <source>_<date>.md)")
	cmd.Flags().StringVarP(&flags.style, "style", "s", "", "Summary style: brief, detailed, bullet (default: detailed)")
	cmd.Flags().StringVarP(&flags.language, "language", "l", "", "Audio language (ISO 639-1 code, e.g., en, fr, pt-BR)")
	cmd.Flags().StringVar(&flags.outputLang, "output-lang", "", "Summary language (default: English)")
	cmd.Flags().StringVar(&flags.provider, "provider", ProviderOpenAI, "Summarization provider: openai, deepseek")
	cmd.Flags().StringVar(&flags.chapterStrategy, "chapters", chapters.StrategyGenerative, "Chapter detection: generative, heuristic")
	cmd.Flags().StringVar(&flags.voice, "voice", "", "Voice for the audio summary (default: nova)")
	cmd.Flags().IntVarP(&flags.parallel, "parallel", "p", 0, "Max concurrent transcription requests (1-10)")
	cmd.Flags().BoolVar(&flags.includeTranscript, "include-transcript", false, "Append the full timestamped transcript to the report")
	cmd.Flags().BoolVar(&flags.noAudio, "no-audio", false, "Skip the spoken audio summary")

	return cmd
}

// runDigest executes the digest pipeline for one input.
// Validation order: input -> config -> style -> languages -> provider ->
// strategy -> voice -> parallel -> API keys -> binaries.
func runDigest(ctx context.Context, env *Env, input string, flags digestFlags) error {
	// === VALIDATION (fail-fast) ===

	remote := media.IsRemoteURL(input)
	if !remote {
		if _, err := os.Stat(input); err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("%w: %s", ErrFileNotFound, input)
			}
			return fmt.Errorf("cannot access input file: %w", err)
		}
		ext := strings.ToLower(filepath.Ext(input))
		if !supportedFormats[ext] {
			return fmt.Errorf("unsupported format %q (supported: %s): %w",
				ext, supportedFormatsList(), ErrUnsupportedFormat)
		}
	}

	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		fmt.Fprintf(env.Stderr, "Warning: failed to load config: %v\n", err)
		cfg.Validate()
	}

	styleName := flags.style
	if styleName == "" {
		styleName = cfg.Style
	}
	style, err := summarize.ParseStyle(styleName)
	if err != nil {
		return err
	}

	if err := lang.Validate(flags.language); err != nil {
		return err
	}
	if err := lang.Validate(flags.outputLang); err != nil {
		return err
	}

	provider, err := ParseProvider(flags.provider)
	if err != nil {
		return err
	}

	strategy := flags.chapterStrategy
	if strategy != chapters.StrategyGenerative && strategy != chapters.StrategyHeuristic {
		return fmt.Errorf("unknown strategy %q (use 'generative' or 'heuristic'): %w",
			strategy, ErrUnknownStrategy)
	}

	voice := flags.voice
	if voice == "" {
		voice = cfg.Voice
	}
	if !flags.noAudio {
		if err := speech.ValidateVoice(voice); err != nil {
			return err
		}
	}

	parallel := flags.parallel
	if parallel == 0 {
		parallel = cfg.Parallel
	}
	parallel = clampParallel(parallel)

	openaiKey := env.Getenv(EnvOpenAIAPIKey)
	if openaiKey == "" {
		return fmt.Errorf("%w (set it with: export %s=sk-...)", ErrAPIKeyMissing, EnvOpenAIAPIKey)
	}

	summaryKey := openaiKey
	if provider.IsDeepSeek() {
		summaryKey = env.Getenv(EnvDeepSeekAPIKey)
		if summaryKey == "" {
			return fmt.Errorf("%w (set it with: export %s=sk-...)", ErrDeepSeekKeyMissing, EnvDeepSeekAPIKey)
		}
	}

	// === SETUP ===

	ffmpegPath, err := env.ToolResolver.Resolve()
	if err != nil {
		return err
	}

	var ytdlpPath string
	if remote {
		ytdlpPath, err = env.ToolResolver.ResolveYtDlp()
		if err != nil {
			return err
		}
	}

	tempDir := config.ExpandPath(cfg.TempDir)
	handler, err := env.MediaFactory.NewHandler(ffmpegPath, ytdlpPath, tempDir)
	if err != nil {
		return err
	}

	// === ACQUISITION ===

	if remote {
		fmt.Fprintln(env.Stderr, "Downloading...")
	}
	mediaPath, dlCleanup, err := handler.Acquire(ctx, input)
	if err != nil {
		return err
	}
	defer dlCleanup()

	fmt.Fprintln(env.Stderr, "Extracting audio...")
	src, audioCleanup, err := handler.ExtractAudio(ctx, mediaPath)
	if err != nil {
		return err
	}
	defer audioCleanup()

	// === PIPELINE ===

	extractor, err := env.SegmenterFactory.NewExtractor(ffmpegPath, tempDir)
	if err != nil {
		return err
	}

	var detector chapters.Detector
	if strategy == chapters.StrategyGenerative {
		detector = env.DetectorFactory.NewGenerativeDetector(openaiKey)
	} else {
		detector = env.DetectorFactory.NewHeuristicDetector()
	}

	summarizer := env.SummarizerFactory.NewSummarizer(provider, summaryKey,
		summarize.WithProgress(func(phase string, current, total int) {
			if phase == "map" {
				fmt.Fprintf(env.Stderr, "  Summarizing part %d/%d...\n", current, total)
			} else {
				fmt.Fprintln(env.Stderr, "  Merging parts...")
			}
		}),
	)

	orch := pipeline.New(
		extractor,
		env.TranscriberFactory.NewTranscriber(openaiKey),
		detector,
		summarizer,
		pipeline.WithStageFunc(func(s pipeline.Stage) {
			switch s {
			case pipeline.StageTranscribing:
				fmt.Fprintln(env.Stderr, "Transcribing...")
			case pipeline.StageChaptering:
				fmt.Fprintln(env.Stderr, "Detecting chapters...")
			case pipeline.StageSummarizing:
				fmt.Fprintln(env.Stderr, "Summarizing...")
			}
		}),
		pipeline.WithProgressFunc(func(msg string) {
			fmt.Fprintln(env.Stderr, msg)
		}),
	)

	result, err := orch.Run(ctx, src, pipeline.Options{
		Language:       lang.BaseCode(flags.language),
		Style:          style,
		OutputLanguage: flags.outputLang,
		Parallel:       parallel,
	})
	if err != nil {
		return err
	}

	// === OUTPUT ===

	now := env.Now()
	defaultName := report.DefaultFileName(src, now)
	outputPath := config.ResolveOutputPath(flags.output, config.ExpandPath(cfg.OutputDir), defaultName)

	rep := report.Report{
		Title:             strings.TrimSuffix(filepath.Base(mediaPath), filepath.Ext(mediaPath)),
		Source:            src,
		Summary:           result.Summary,
		IncludeTranscript: flags.includeTranscript,
		GeneratedAt:       now,
	}
	if err := report.Write(rep, outputPath); err != nil {
		return err
	}
	fmt.Fprintf(env.Stderr, "Report: %s\n", outputPath)

	if !flags.noAudio {
		audioPath := strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + ".mp3"
		fmt.Fprintln(env.Stderr, "Rendering audio summary...")
		renderer := env.SpeechFactory.NewRenderer(openaiKey)
		if err := renderer.Render(ctx, result.Summary.Text(), voice, audioPath); err != nil {
			// The report already exists; a TTS failure should not discard it.
			fmt.Fprintf(env.Stderr, "Warning: audio summary failed: %v\n", err)
		} else {
			fmt.Fprintf(env.Stderr, "Audio: %s\n", audioPath)
		}
	}

	return nil
}
