package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "pagegrab"

// Metrics holds all OTEL metric instruments for pagegrab.
// All counters are cumulative (monotonic). Methods are nil-safe so callers
// never need to guard for disabled telemetry.
type Metrics struct {
	// Sequencer counters
	PagesCaptured    metric.Int64Counter
	SequenceFailures metric.Int64Counter

	// Input event counter (partitioned by kind: click, key)
	InputEvents metric.Int64Counter

	// Assembler counters
	AssembledPages     metric.Int64Counter
	AssemblyFailures   metric.Int64Counter
	AssemblyDurationMs metric.Int64Histogram
}

// NewMetrics creates all metric instruments. Returns no-op instruments
// when no MeterProvider is registered (safe to call unconditionally).
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.PagesCaptured, err = meter.Int64Counter("sequence.pages_captured",
		metric.WithDescription("Pages whose full capture protocol completed"),
		metric.WithUnit("{page}"))
	if err != nil {
		return nil, err
	}

	m.SequenceFailures, err = meter.Int64Counter("sequence.failures",
		metric.WithDescription("Sequencer runs aborted by a failed step (partitioned by step)"))
	if err != nil {
		return nil, err
	}

	m.InputEvents, err = meter.Int64Counter("input.events",
		metric.WithDescription("Synthesized input events (partitioned by kind: click, key)"))
	if err != nil {
		return nil, err
	}

	m.AssembledPages, err = meter.Int64Counter("assembly.pages",
		metric.WithDescription("Pages embedded into output documents"),
		metric.WithUnit("{page}"))
	if err != nil {
		return nil, err
	}

	m.AssemblyFailures, err = meter.Int64Counter("assembly.failures",
		metric.WithDescription("Assembly runs that failed without producing output"))
	if err != nil {
		return nil, err
	}

	m.AssemblyDurationMs, err = meter.Int64Histogram("assembly.duration",
		metric.WithDescription("Wall-clock time to assemble one document"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordPageCaptured records one completed page protocol.
func (m *Metrics) RecordPageCaptured(ctx context.Context) {
	if m == nil {
		return
	}
	m.PagesCaptured.Add(ctx, 1)
}

// RecordSequenceFailure records an aborted run with the step that failed.
func (m *Metrics) RecordSequenceFailure(ctx context.Context, step string) {
	if m == nil {
		return
	}
	m.SequenceFailures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("sequence.step", step),
	))
}

// RecordInputEvent records one synthesized event of the given kind.
func (m *Metrics) RecordInputEvent(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.InputEvents.Add(ctx, 1, metric.WithAttributes(
		attribute.String("input.kind", kind),
	))
}

// RecordAssembly records a finished assembly with its page count and duration.
func (m *Metrics) RecordAssembly(ctx context.Context, pages int, durationMs int64) {
	if m == nil {
		return
	}
	m.AssembledPages.Add(ctx, int64(pages))
	m.AssemblyDurationMs.Record(ctx, durationMs)
}

// RecordAssemblyFailure records an assembly that produced no output.
func (m *Metrics) RecordAssemblyFailure(ctx context.Context) {
	if m == nil {
		return
	}
	m.AssemblyFailures.Add(ctx, 1)
}
