// Package otel wires pagegrab's telemetry. When an OTLP endpoint is
// configured, traces and metrics are exported over OTLP HTTP; without one,
// every tracer and instrument stays a no-op and callers never notice.
package otel

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "pagegrab"

// metricInterval is how often the periodic reader pushes metrics.
const metricInterval = 15 * time.Second

// Version is stamped by the command layer from the linker-injected build
// version; "dev" until then.
var Version = "dev"

// OTELConfig is the exporter configuration resolved by the config package.
type OTELConfig struct {
	// Endpoint is the OTLP base URL ("http://localhost:4318"). Empty
	// disables export.
	Endpoint string

	// Headers is the OTEL_EXPORTER_OTLP_HEADERS form: comma-separated
	// key=value pairs.
	Headers string
}

// Telemetry bundles the providers with the tracer and instruments the rest
// of the program uses. The zero providers mean nothing is exported.
type Telemetry struct {
	tp *sdktrace.TracerProvider
	mp *sdkmetric.MeterProvider

	Tracer  trace.Tracer
	Metrics *Metrics
}

// Init builds the telemetry stack. Exporters are only created when
// cfg.Endpoint is set; the returned Tracer and Metrics are always usable.
func Init(ctx context.Context, cfg OTELConfig) (*Telemetry, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(Version),
		),
		resource.WithHost(),
	)
	if err != nil {
		return nil, fmt.Errorf("otel resource: %w", err)
	}

	t := &Telemetry{}
	if cfg.Endpoint != "" {
		if err := t.connect(ctx, cfg, res); err != nil {
			return nil, err
		}
	}

	// Resolved through the global providers, so these work whether or not
	// exporters were installed above.
	t.Tracer = otel.Tracer(serviceName)
	t.Metrics, err = NewMetrics()
	if err != nil {
		return nil, fmt.Errorf("otel metrics: %w", err)
	}
	return t, nil
}

// connect installs OTLP HTTP exporters for both signals and registers the
// resulting providers globally.
func (t *Telemetry) connect(ctx context.Context, cfg OTELConfig, res *resource.Resource) error {
	host, basePath, insecure, err := splitEndpoint(cfg.Endpoint)
	if err != nil {
		return err
	}

	// WithEndpoint takes host:port and WithURLPath the rest, so the SDK's
	// per-signal suffixes land under whatever base path was configured.
	traceOpts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(host),
		otlptracehttp.WithURLPath(basePath + "/v1/traces"),
	}
	metricOpts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(host),
		otlpmetrichttp.WithURLPath(basePath + "/v1/metrics"),
	}
	if insecure {
		traceOpts = append(traceOpts, otlptracehttp.WithInsecure())
		metricOpts = append(metricOpts, otlpmetrichttp.WithInsecure())
	}
	if headers := parseHeaders(cfg.Headers); len(headers) > 0 {
		traceOpts = append(traceOpts, otlptracehttp.WithHeaders(headers))
		metricOpts = append(metricOpts, otlpmetrichttp.WithHeaders(headers))
	}

	traceExp, err := otlptracehttp.New(ctx, traceOpts...)
	if err != nil {
		return fmt.Errorf("otel trace exporter: %w", err)
	}
	t.tp = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExp),
		sdktrace.WithResource(res),
	)

	metricExp, err := otlpmetrichttp.New(ctx, metricOpts...)
	if err != nil {
		return fmt.Errorf("otel metric exporter: %w", err)
	}
	t.mp = sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExp,
			sdkmetric.WithInterval(metricInterval))),
		sdkmetric.WithResource(res),
	)

	otel.SetTracerProvider(t.tp)
	otel.SetMeterProvider(t.mp)
	return nil
}

// splitEndpoint breaks an OTLP base URL into the host:port and path the
// exporter options want, and reports whether the scheme calls for plain HTTP.
func splitEndpoint(raw string) (host, basePath string, insecure bool, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", false, fmt.Errorf("otel: invalid endpoint URL %q: %w", raw, err)
	}
	if u.Host == "" {
		return "", "", false, fmt.Errorf("otel: endpoint URL %q has no host", raw)
	}
	return u.Host, strings.TrimRight(u.Path, "/"), u.Scheme == "http", nil
}

// parseHeaders splits "key=value,key2=value2" into a map. Malformed pairs
// are skipped rather than rejected.
func parseHeaders(raw string) map[string]string {
	headers := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		idx := strings.IndexByte(pair, '=')
		if idx <= 0 {
			continue
		}
		key := strings.TrimSpace(pair[:idx])
		if key == "" {
			continue
		}
		headers[key] = strings.TrimSpace(pair[idx+1:])
	}
	return headers
}

// Shutdown flushes whatever was exported. Safe on a nil receiver so callers
// can defer it unconditionally.
func (t *Telemetry) Shutdown(ctx context.Context) {
	if t == nil {
		return
	}
	if t.tp != nil {
		_ = t.tp.Shutdown(ctx)
	}
	if t.mp != nil {
		_ = t.mp.Shutdown(ctx)
	}
}
