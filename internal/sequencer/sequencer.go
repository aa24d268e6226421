// Package sequencer drives the per-page capture protocol against the target
// reader application.
//
// The protocol manipulates a single shared UI surface, so pages run strictly
// one at a time: overlapping clicks or keys would corrupt the reader's state
// non-deterministically. The only suspension points are explicit timed waits,
// injectable so tests substitute an instantaneous clock.
package sequencer

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/pagegrab/pagegrab/internal/input"
	"github.com/pagegrab/pagegrab/internal/model"
	pgotel "github.com/pagegrab/pagegrab/internal/otel"
)

var tracer = otel.Tracer("pagegrab")

// Step names reported in failures and metrics.
const (
	StepClickCapture = "click_capture"
	StepClickConfirm = "click_confirm"
	StepAdvancePage  = "advance_page"
)

// Session is the immutable configuration for one full capture run.
// Built once by the command layer, validated once, consumed entirely by Run.
type Session struct {
	// PageCount is the number of pages to capture. Must be at least 1.
	PageCount int

	// CaptureButton is the in-app capture button location.
	CaptureButton model.Point

	// ConfirmButton, when set, is clicked after each capture to dismiss the
	// reader's warning dialog.
	ConfirmButton *model.Point

	// SettleDelay is the wait after clicking capture, letting the reader
	// finish writing its artifact before the confirm click.
	SettleDelay time.Duration

	// PageDelay is the wait after advancing, letting the next page render.
	PageDelay time.Duration

	// StartupDelay is observed once before the first page so the operator
	// can move focus to the reader window.
	StartupDelay time.Duration

	// AdvanceKey is the key synthesized to turn the page. Defaults to
	// input.KeyRight when empty.
	AdvanceKey string

	// OutputDir is where the reader writes its captures. The sequencer never
	// touches it; it is recorded on the run span and echoed back to the
	// operator so the follow-up compile command points at the right place.
	OutputDir string
}

// Validate checks the session invariants.
func (s Session) Validate() error {
	if s.PageCount < 1 {
		return fmt.Errorf("page count must be at least 1, got %d", s.PageCount)
	}
	if s.SettleDelay < 0 || s.PageDelay < 0 || s.StartupDelay < 0 {
		return fmt.Errorf("delays must not be negative")
	}
	return nil
}

// advanceKey resolves the configured advance key or its default.
func (s Session) advanceKey() string {
	if s.AdvanceKey == "" {
		return input.KeyRight
	}
	return s.AdvanceKey
}

// StepError reports the first failed step of a run. The page index is enough
// for the operator to resume manually; nothing is retried.
type StepError struct {
	Page int
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("page %d: step %s: %v", e.Page, e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Result reports how far a run got. Err is nil when all requested pages
// completed; otherwise it carries the failure and PagesCompleted tells the
// operator where to resume.
type Result struct {
	PagesCompleted int
	TotalRequested int
	Err            error
}

// Completed reports whether every requested page finished.
func (r Result) Completed() bool {
	return r.Err == nil && r.PagesCompleted == r.TotalRequested
}

// Sequencer executes capture sessions against an input port.
type Sequencer struct {
	Input input.Input

	// Sleep is the wait primitive. Defaults to time.Sleep. It is invoked for
	// every configured wait, including zero durations.
	Sleep func(time.Duration)

	// Progress, when set, is called after each completed page.
	Progress func(page, total int)

	// Metrics are OTEL counters; nil-safe.
	Metrics *pgotel.Metrics
}

// Run executes the full per-page protocol for the session:
//
//	click capture -> wait(settle) -> click confirm -> advance -> wait(page)
//
// strictly in order, one page at a time. The first failing step aborts the
// remaining pages; artifacts already on disk are left untouched. Cancellation
// is honored only at page boundaries so the reader is never left mid-dialog.
func (q *Sequencer) Run(ctx context.Context, s Session) Result {
	result := Result{TotalRequested: s.PageCount}

	if err := s.Validate(); err != nil {
		result.Err = err
		return result
	}

	ctx, span := tracer.Start(ctx, "sequence",
		trace.WithAttributes(
			attribute.Int("sequence.pages_requested", s.PageCount),
			attribute.Bool("sequence.has_confirm", s.ConfirmButton != nil),
			attribute.String("sequence.output_dir", s.OutputDir),
		))
	defer span.End()

	sleep := q.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	sleep(s.StartupDelay)

	for page := 1; page <= s.PageCount; page++ {
		// Page boundary: the only point where an interrupt is honored.
		if err := ctx.Err(); err != nil {
			result.Err = fmt.Errorf("interrupted before page %d: %w", page, err)
			span.SetAttributes(attribute.Int("sequence.pages_completed", result.PagesCompleted))
			return result
		}

		if err := q.capturePage(ctx, s, page, sleep); err != nil {
			result.Err = err
			if se, ok := err.(*StepError); ok {
				q.Metrics.RecordSequenceFailure(ctx, se.Step)
			}
			span.SetAttributes(attribute.Int("sequence.pages_completed", result.PagesCompleted))
			return result
		}

		result.PagesCompleted = page
		q.Metrics.RecordPageCaptured(ctx)
		if q.Progress != nil {
			q.Progress(page, s.PageCount)
		}
	}

	span.SetAttributes(attribute.Int("sequence.pages_completed", result.PagesCompleted))
	return result
}

// capturePage runs the four-step protocol for one page.
func (q *Sequencer) capturePage(ctx context.Context, s Session, page int, sleep func(time.Duration)) error {
	if err := q.Input.Click(s.CaptureButton); err != nil {
		return &StepError{Page: page, Step: StepClickCapture, Err: err}
	}
	q.Metrics.RecordInputEvent(ctx, "click")

	sleep(s.SettleDelay)

	if s.ConfirmButton != nil {
		if err := q.Input.Click(*s.ConfirmButton); err != nil {
			return &StepError{Page: page, Step: StepClickConfirm, Err: err}
		}
		q.Metrics.RecordInputEvent(ctx, "click")
	}

	if err := q.Input.PressKey(s.advanceKey()); err != nil {
		return &StepError{Page: page, Step: StepAdvancePage, Err: err}
	}
	q.Metrics.RecordInputEvent(ctx, "key")

	sleep(s.PageDelay)
	return nil
}
