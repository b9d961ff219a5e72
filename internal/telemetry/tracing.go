package telemetry

import (
	"context"
	"fmt"
	"net/url"

	"github.com/goto/salt/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/goto/jobtrail/config"
	"github.com/goto/jobtrail/internal/utils"
)

const (
	tracerName         = "github.com/goto/jobtrail"
	defaultServiceName = "jobtrail"
)

// Init sets up the global tracer provider when an OTLP endpoint is configured,
// the returned func flushes and stops it
func Init(l log.Logger, conf config.TelemetryConfig) (func(), error) {
	if conf.OTLPEndpoint == "" {
		return func() {}, nil
	}

	ctx := context.Background()
	exporter, err := newTraceExporter(ctx, conf.OTLPEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(utils.GetFirstNonEmpty(conf.ServiceName, defaultServiceName)),
			semconv.ServiceVersion(config.BuildVersion),
		)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	l.Info("tracing enabled", "endpoint", conf.OTLPEndpoint)

	return func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			l.Error("failed to shutdown tracer provider", "error", err)
		}
	}, nil
}

func newTraceExporter(ctx context.Context, endpoint string) (*otlptrace.Exporter, error) {
	var opts []otlptracehttp.Option

	parsed, err := url.Parse(endpoint)
	if err == nil && parsed.Scheme != "" {
		if parsed.Host == "" {
			return nil, fmt.Errorf("invalid OTLP endpoint: %s", endpoint)
		}
		opts = append(opts, otlptracehttp.WithEndpoint(parsed.Host))
		if parsed.Path != "" && parsed.Path != "/" {
			opts = append(opts, otlptracehttp.WithURLPath(parsed.Path))
		}
		if parsed.Scheme == "http" {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
	} else {
		opts = append(opts, otlptracehttp.WithEndpoint(endpoint), otlptracehttp.WithInsecure())
	}

	return otlptracehttp.New(ctx, opts...)
}

// StartSpan starts a span on the global tracer, it is a no-op span while tracing is disabled
func StartSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, name)
}
