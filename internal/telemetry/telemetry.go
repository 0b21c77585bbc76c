// Package telemetry installs the OpenTelemetry tracer provider for the server.
// Spans come from otelhttp (one per request) and drivetree (one per ingestion).
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Exporters accepted in Config.Exporter
const (
	ExporterOTLP   = "otlp"
	ExporterStdout = "stdout"
	ExporterNone   = "none"
)

var ErrUnknownExporter = errors.New("unknown trace exporter")

type Config struct {
	ServiceName  string
	Environment  string
	Exporter     string // otlp, stdout or none
	OTLPEndpoint string // host:port or URL of the OTLP gRPC receiver
	OTLPInsecure bool
	Writer       io.Writer // stdout exporter target; nil means os.Stdout
}

// Shutdown flushes buffered spans and stops the exporter
type Shutdown func(context.Context) error

// Init installs a global tracer provider and W3C trace-context propagation.
// With ExporterNone nothing is installed and the returned Shutdown is a no-op.
func Init(ctx context.Context, cfg Config, logger *slog.Logger) (Shutdown, error) {
	if cfg.Exporter == "" || cfg.Exporter == ExporterNone {
		logger.Debug("tracing disabled")
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := newExporter(ctx, cfg)
	if err != nil {
		return nil, err
	}

	res := resource.NewWithAttributes("",
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("deployment.environment", cfg.Environment),
	)
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Info("tracing enabled", "exporter", cfg.Exporter, "endpoint", cfg.OTLPEndpoint)
	return tp.Shutdown, nil
}

func newExporter(ctx context.Context, cfg Config) (sdktrace.SpanExporter, error) {
	switch cfg.Exporter {
	case ExporterOTLP:
		if cfg.OTLPEndpoint == "" {
			return nil, errors.New("otlp exporter needs an endpoint")
		}
		var opts []otlptracegrpc.Option
		if strings.Contains(cfg.OTLPEndpoint, "://") {
			opts = append(opts, otlptracegrpc.WithEndpointURL(cfg.OTLPEndpoint))
		} else {
			opts = append(opts, otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint))
		}
		if cfg.OTLPInsecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		exp, err := otlptracegrpc.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("create otlp exporter: %w", err)
		}
		return exp, nil
	case ExporterStdout:
		w := cfg.Writer
		if w == nil {
			w = os.Stdout
		}
		exp, err := stdouttrace.New(stdouttrace.WithWriter(w))
		if err != nil {
			return nil, fmt.Errorf("create stdout exporter: %w", err)
		}
		return exp, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownExporter, cfg.Exporter)
	}
}
