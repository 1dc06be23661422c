// Package pipeline orchestrates the full digest flow: plan windows, extract
// segments, transcribe them in parallel, merge the fragments, detect
// chapters, and summarize. Segment temporaries are released on every path
// out, success or failure.
package pipeline

import (
	"context"
	"fmt"

	"github.com/alnah/go-videodigest/internal/chapters"
	"github.com/alnah/go-videodigest/internal/media"
	"github.com/alnah/go-videodigest/internal/segment"
	"github.com/alnah/go-videodigest/internal/summarize"
	"github.com/alnah/go-videodigest/internal/transcribe"
	"github.com/alnah/go-videodigest/internal/transcript"
)

// Stage identifies where the pipeline currently is. Stages advance strictly
// forward; Failed is terminal and reachable from any stage.
type Stage string

// Pipeline stages in execution order.
const (
	StagePlanning     Stage = "planning"
	StageSegmenting   Stage = "segmenting"
	StageTranscribing Stage = "transcribing"
	StageMerging      Stage = "merging"
	StageChaptering   Stage = "chaptering"
	StageSummarizing  Stage = "summarizing"
	StageDone         Stage = "done"
	StageFailed       Stage = "failed"
)

// Segmenter materializes planned windows as segment files.
// *segment.Extractor implements it; tests inject fakes.
type Segmenter interface {
	Extract(ctx context.Context, audioPath string, windows []segment.Window) ([]segment.Segment, error)
}

// Compile-time interface compliance check.
var _ Segmenter = (*segment.Extractor)(nil)

// Options configures one pipeline run.
type Options struct {
	// Language is the expected audio language (ISO 639-1 base code).
	// Empty means auto-detect.
	Language string

	// Prompt gives the transcription service domain context.
	Prompt string

	// Style shapes the summary. Zero means detailed.
	Style summarize.Style

	// OutputLanguage is the summary's language. Empty keeps English.
	OutputLanguage string

	// Parallel bounds concurrent transcription requests. Values below 1
	// run sequentially.
	Parallel int

	// MaxSegmentBytes caps planned segment sizes. Zero uses the default.
	MaxSegmentBytes int64
}

// Result is the complete output of a successful run.
type Result struct {
	Transcript transcript.Transcript
	Chapters   []chapters.Chapter
	Summary    summarize.Summary

	// ChaptersDetected is false when chapter detection failed and the run
	// degraded to a single whole-source chapter.
	ChaptersDetected bool
}

// Orchestrator wires the pipeline's collaborators together.
type Orchestrator struct {
	segmenter   Segmenter
	transcriber transcribe.Transcriber
	detector    chapters.Detector
	summarizer  summarize.Summarizer

	onStage    func(Stage)
	onProgress func(msg string)
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithStageFunc sets a callback invoked on every stage transition.
func WithStageFunc(fn func(Stage)) Option {
	return func(o *Orchestrator) {
		o.onStage = fn
	}
}

// WithProgressFunc sets a callback for human-readable progress lines.
func WithProgressFunc(fn func(msg string)) Option {
	return func(o *Orchestrator) {
		o.onProgress = fn
	}
}

// New creates an Orchestrator from its collaborators.
func New(
	segmenter Segmenter,
	transcriber transcribe.Transcriber,
	detector chapters.Detector,
	summarizer summarize.Summarizer,
	opts ...Option,
) *Orchestrator {
	o := &Orchestrator{
		segmenter:   segmenter,
		transcriber: transcriber,
		detector:    detector,
		summarizer:  summarizer,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) stage(s Stage) {
	if o.onStage != nil {
		o.onStage(s)
	}
}

func (o *Orchestrator) progress(format string, args ...any) {
	if o.onProgress != nil {
		o.onProgress(fmt.Sprintf(format, args...))
	}
}

// fail marks the run failed and wraps the error with its stage.
func (o *Orchestrator) fail(s Stage, err error) error {
	o.stage(StageFailed)
	return fmt.Errorf("%s: %w", s, err)
}

// Run executes the pipeline over an already-probed audio source.
// A fatal error at any stage cancels outstanding work, releases all segment
// temporaries, and returns with no partial result. Chapter detection is the
// one non-fatal step: on failure the run continues with a single
// whole-source chapter and Result.ChaptersDetected reports it.
func (o *Orchestrator) Run(ctx context.Context, src media.Source, opts Options) (Result, error) {
	o.stage(StagePlanning)
	windows, err := segment.Plan(src.Duration, opts.MaxSegmentBytes, src.BytesPerSecond())
	if err != nil {
		return Result{}, o.fail(StagePlanning, err)
	}
	o.progress("Planned %d segment(s) for %s", len(windows), src)

	o.stage(StageSegmenting)
	segments, err := o.segmenter.Extract(ctx, src.Path, windows)
	if err != nil {
		return Result{}, o.fail(StageSegmenting, err)
	}
	// Segments are temporary whatever happens from here on.
	defer func() { _ = segment.Cleanup(segments) }()

	o.stage(StageTranscribing)
	paths := make([]string, len(segments))
	for i, s := range segments {
		paths[i] = s.Path
	}
	fragments, err := transcribe.TranscribeAll(ctx, paths, o.transcriber, transcribe.Options{
		Language: opts.Language,
		Prompt:   opts.Prompt,
	}, opts.Parallel)
	if err != nil {
		return Result{}, o.fail(StageTranscribing, err)
	}

	o.stage(StageMerging)
	merged, err := transcript.Merge(windows, fragments, src.Duration, opts.Language)
	if err != nil {
		return Result{}, o.fail(StageMerging, err)
	}
	o.progress("Transcribed %d words", merged.WordCount())

	o.stage(StageChaptering)
	chs, detected := chapters.DetectWithFallback(ctx, o.detector, merged)
	if !detected {
		o.progress("Chapter detection unavailable; summarizing as a single section")
	} else {
		o.progress("Detected %d chapter(s)", len(chs))
	}

	o.stage(StageSummarizing)
	sum, err := o.summarizer.Summarize(ctx, merged, chs, summarize.Options{
		Style:    opts.Style,
		Language: opts.OutputLanguage,
	})
	if err != nil {
		return Result{}, o.fail(StageSummarizing, err)
	}

	o.stage(StageDone)
	return Result{
		Transcript:       merged,
		Chapters:         chs,
		Summary:          sum,
		ChaptersDetected: detected,
	}, nil
}
