// Package telemetry wires optional OpenTelemetry tracing. Tracing is off unless
// OTEL_ENABLED is true and an OTLP endpoint is configured.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/amp-labs/propsort/envutil"
	"github.com/amp-labs/propsort/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultTimeout = 5 * time.Second

	// InstrumentationName names the tracer used when none is carried by the context.
	InstrumentationName = "github.com/amp-labs/propsort"
)

// ShutdownFunc flushes and stops the tracer provider.
type ShutdownFunc func(ctx context.Context) error

// Config holds the OpenTelemetry configuration.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
	Timeout        time.Duration
}

// LoadConfigFromEnv loads OpenTelemetry configuration from environment variables.
// The service name defaults to the logger subsystem of ctx.
func LoadConfigFromEnv(ctx context.Context, version string) (*Config, error) {
	enabled, err := envutil.Bool(ctx, "OTEL_ENABLED", envutil.Default(false)).Value()
	if err != nil {
		return nil, err
	}

	svcName, err := envutil.String(ctx, "OTEL_SERVICE_NAME",
		envutil.Default(logger.GetSubsystem(ctx))).Value()
	if err != nil {
		return nil, err
	}

	svcVersion, err := envutil.String(ctx, "OTEL_SERVICE_VERSION", envutil.Default(version)).Value()
	if err != nil {
		return nil, err
	}

	endpoint, err := envutil.String(ctx, "OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", envutil.Default("")).Value()
	if err != nil {
		return nil, err
	}

	timeout, err := envutil.Duration(ctx, "OTEL_EXPORTER_OTLP_TRACES_TIMEOUT",
		envutil.Default(defaultTimeout)).
		Value()
	if err != nil {
		return nil, err
	}

	return &Config{
		ServiceName:    svcName,
		ServiceVersion: svcVersion,
		Endpoint:       endpoint,
		Enabled:        enabled,
		Timeout:        timeout,
	}, nil
}

func noopShutdown(context.Context) error { return nil }

// Initialize sets up OpenTelemetry tracing with the given configuration and
// installs the provider globally. The returned function must be called before
// exit so buffered spans are exported.
func Initialize(ctx context.Context, config *Config) (ShutdownFunc, error) {
	if !config.Enabled {
		logger.Get(ctx).Debug("OpenTelemetry tracing is disabled")

		return noopShutdown, nil
	}

	if config.Endpoint == "" {
		logger.Get(ctx).Warn("OpenTelemetry endpoint not configured, tracing will be disabled")

		return noopShutdown, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(config.ServiceName),
			semconv.ServiceVersionKey.String(config.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(config.Endpoint),
		otlptracehttp.WithTimeout(config.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Get(ctx).Info("OpenTelemetry tracing initialized",
		"service", config.ServiceName,
		"version", config.ServiceVersion,
		"endpoint", config.Endpoint,
	)

	return provider.Shutdown, nil
}

type contextKey string

const tracerKey contextKey = "tracer"

// WithTracer returns a context carrying tracer. Tracer prefers it over the
// global provider, which lets tests capture spans without global state.
func WithTracer(ctx context.Context, tracer trace.Tracer) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, tracerKey, tracer)
}

// Tracer returns the tracer carried by ctx, or the global one.
func Tracer(ctx context.Context) trace.Tracer { //nolint:ireturn
	if ctx != nil {
		if tracer, ok := ctx.Value(tracerKey).(trace.Tracer); ok && tracer != nil {
			return tracer
		}
	}

	return otel.Tracer(InstrumentationName)
}
