package transcript_test

// Notes:
// - Black-box testing via package transcript_test.
// - The merge invariants under test: global offsetting, monotonic
//   timestamps, clamping to [0, duration), seam deduplication, and
//   idempotency (Merge is pure).

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/alnah/go-videodigest/internal/segment"
	"github.com/alnah/go-videodigest/internal/transcribe"
	"github.com/alnah/go-videodigest/internal/transcript"
)

func windows2(boundary, duration time.Duration) []segment.Window {
	return []segment.Window{
		{Index: 0, Start: 0, End: boundary},
		{Index: 1, Start: boundary, End: duration},
	}
}

func TestMerge_OffsetsFragmentTimestamps(t *testing.T) {
	t.Parallel()

	duration := 20 * time.Minute
	windows := windows2(10*time.Minute, duration)
	fragments := []transcribe.Fragment{
		{Entries: []transcribe.Entry{
			{Text: "first phrase", Start: 0, End: 4 * time.Second},
		}},
		{Entries: []transcribe.Entry{
			{Text: "second phrase", Start: 2 * time.Second, End: 6 * time.Second},
		}},
	}

	got, err := transcript.Merge(windows, fragments, duration, "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got.Entries) != 2 {
		t.Fatalf("merged %d entries, want 2", len(got.Entries))
	}
	if got.Entries[1].Start != 10*time.Minute+2*time.Second {
		t.Errorf("second entry starts at %v, want 10m2s", got.Entries[1].Start)
	}
	if got.Duration != duration || got.Language != "en" {
		t.Errorf("transcript metadata = (%v, %q), want (%v, \"en\")",
			got.Duration, got.Language, duration)
	}
}

func TestMerge_SeamDuplicateEmittedOnce(t *testing.T) {
	t.Parallel()

	// The phrase straddling the cut is re-emitted at the start of the next
	// segment; only the earlier copy survives.
	boundary := 10 * time.Minute
	duration := 20 * time.Minute
	windows := windows2(boundary, duration)
	fragments := []transcribe.Fragment{
		{Entries: []transcribe.Entry{
			{Text: "and so", Start: 9*time.Minute + 58*time.Second, End: boundary},
		}},
		{Entries: []transcribe.Entry{
			{Text: "And so", Start: 500 * time.Millisecond, End: 2 * time.Second},
			{Text: "we continue", Start: 2 * time.Second, End: 5 * time.Second},
		}},
	}

	got, err := transcript.Merge(windows, fragments, duration, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got.Entries) != 2 {
		t.Fatalf("merged %d entries, want 2 (duplicate dropped): %+v", len(got.Entries), got.Entries)
	}
	if got.Entries[0].Text != "and so" {
		t.Errorf("kept %q, want the earlier copy", got.Entries[0].Text)
	}
	if got.Entries[1].Text != "we continue" {
		t.Errorf("second entry = %q, want \"we continue\"", got.Entries[1].Text)
	}
}

func TestMerge_SameTextFarFromSeamIsKept(t *testing.T) {
	t.Parallel()

	// Genuine repetition well past the boundary is not a seam artifact.
	boundary := 10 * time.Minute
	duration := 20 * time.Minute
	windows := windows2(boundary, duration)
	fragments := []transcribe.Fragment{
		{Entries: []transcribe.Entry{
			{Text: "thank you", Start: 9 * time.Minute, End: 9*time.Minute + 2*time.Second},
		}},
		{Entries: []transcribe.Entry{
			{Text: "thank you", Start: 3 * time.Minute, End: 3*time.Minute + 2*time.Second},
		}},
	}

	got, err := transcript.Merge(windows, fragments, duration, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Entries) != 2 {
		t.Errorf("merged %d entries, want 2", len(got.Entries))
	}
}

func TestMerge_MonotonicAcrossSeams(t *testing.T) {
	t.Parallel()

	// A fragment whose first timestamp drifts backwards across the seam is
	// clamped forward, never reordered.
	boundary := 10 * time.Minute
	duration := 20 * time.Minute
	windows := windows2(boundary, duration)
	fragments := []transcribe.Fragment{
		{Entries: []transcribe.Entry{
			{Text: "tail of first", Start: 9*time.Minute + 59*time.Second, End: boundary + time.Second},
		}},
		{Entries: []transcribe.Entry{
			// Starts "before" the previous entry once offset.
			{Text: "head of second", Start: -2 * time.Second, End: time.Second},
		}},
	}

	got, err := transcript.Merge(windows, fragments, duration, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 1; i < len(got.Entries); i++ {
		if got.Entries[i].Start < got.Entries[i-1].Start {
			t.Errorf("entry %d starts at %v, before previous %v",
				i, got.Entries[i].Start, got.Entries[i-1].Start)
		}
	}
}

func TestMerge_ClampsToDuration(t *testing.T) {
	t.Parallel()

	duration := 10 * time.Minute
	windows := []segment.Window{{Index: 0, Start: 0, End: duration}}
	fragments := []transcribe.Fragment{
		{Entries: []transcribe.Entry{
			{Text: "runs long", Start: 9*time.Minute + 55*time.Second, End: 10*time.Minute + 30*time.Second},
		}},
	}

	got, err := transcript.Merge(windows, fragments, duration, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Entries[0].End != duration {
		t.Errorf("entry end = %v, want clamped to %v", got.Entries[0].End, duration)
	}
}

func TestMerge_SkipsEmptyText(t *testing.T) {
	t.Parallel()

	duration := time.Minute
	windows := []segment.Window{{Index: 0, Start: 0, End: duration}}
	fragments := []transcribe.Fragment{
		{Entries: []transcribe.Entry{
			{Text: "   ", Start: 0, End: time.Second},
			{Text: "real text", Start: time.Second, End: 2 * time.Second},
		}},
	}

	got, err := transcript.Merge(windows, fragments, duration, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Entries) != 1 || got.Entries[0].Text != "real text" {
		t.Errorf("entries = %+v, want only \"real text\"", got.Entries)
	}
}

func TestMerge_MissingFragment(t *testing.T) {
	t.Parallel()

	windows := windows2(time.Minute, 2*time.Minute)
	fragments := []transcribe.Fragment{{}}

	_, err := transcript.Merge(windows, fragments, 2*time.Minute, "")
	if !errors.Is(err, transcript.ErrMissingFragment) {
		t.Errorf("error = %v, want ErrMissingFragment", err)
	}
}

func TestMerge_Idempotent(t *testing.T) {
	t.Parallel()

	boundary := 5 * time.Minute
	duration := 10 * time.Minute
	windows := windows2(boundary, duration)
	fragments := []transcribe.Fragment{
		{Entries: []transcribe.Entry{
			{Text: "alpha", Start: 0, End: 3 * time.Second},
			{Text: "bridge", Start: 4*time.Minute + 59*time.Second, End: boundary},
		}},
		{Entries: []transcribe.Entry{
			{Text: "bridge", Start: 200 * time.Millisecond, End: time.Second},
			{Text: "omega", Start: time.Second, End: 4 * time.Second},
		}},
	}

	first, err := transcript.Merge(windows, fragments, duration, "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := transcript.Merge(windows, fragments, duration, "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Merge is not deterministic:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestTranscript_TextAndRender(t *testing.T) {
	t.Parallel()

	tr := transcript.Transcript{
		Entries: []transcript.Entry{
			{Text: " hello ", Start: 0, End: 2 * time.Second},
			{Text: "world", Start: 2 * time.Second, End: 4 * time.Second},
		},
		Duration: time.Minute,
	}

	if got := tr.Text(); got != "hello world" {
		t.Errorf("Text() = %q", got)
	}

	want := "[00:00:00 - 00:00:02] hello\n[00:00:02 - 00:00:04] world"
	if got := tr.Render(); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}

	if tr.Empty() {
		t.Error("Empty() = true for non-empty transcript")
	}
	if got := tr.WordCount(); got != 2 {
		t.Errorf("WordCount() = %d, want 2", got)
	}
}
