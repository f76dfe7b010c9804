package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/mrops-br/product-explorer/internal/infrastructure/config"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

const serviceVersion = "1.0.0"

// Telemetry holds all OpenTelemetry components
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *metric.MeterProvider
	Registry       *prometheus.Registry
	Logger         *slog.Logger
}

// NewTelemetry initializes logging, tracing and metrics
func NewTelemetry(cfg *config.Config) (*Telemetry, error) {
	logger := NewLogger(os.Stdout, cfg.Log.Level, &cfg.OTLP)

	logger.Info("Initializing OpenTelemetry",
		slog.Bool("export_enabled", cfg.OTLP.Enabled),
		slog.String("endpoint", cfg.OTLP.Endpoint),
		slog.String("service_name", cfg.OTLP.ServiceName),
	)

	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(cfg.OTLP.ServiceName),
			semconv.ServiceVersion(serviceVersion),
			semconv.DeploymentEnvironment(cfg.OTLP.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp, err := initTracerProvider(&cfg.OTLP, res)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracer provider: %w", err)
	}
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	registry := newRegistry()
	mp, err := initMeterProvider(&cfg.OTLP, res, registry)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize meter provider: %w", err)
	}
	otel.SetMeterProvider(mp)

	logger.Info("Telemetry initialized")

	return &Telemetry{
		TracerProvider: tp,
		MeterProvider:  mp,
		Registry:       registry,
		Logger:         logger,
	}, nil
}

// Shutdown flushes and stops the providers
func (t *Telemetry) Shutdown(ctx context.Context) error {
	t.Logger.Info("Shutting down OpenTelemetry")

	if err := t.TracerProvider.Shutdown(ctx); err != nil {
		t.Logger.Error("Failed to shutdown tracer provider", slog.String("error", err.Error()))
		return err
	}

	if err := t.MeterProvider.Shutdown(ctx); err != nil {
		t.Logger.Error("Failed to shutdown meter provider", slog.String("error", err.Error()))
		return err
	}

	t.Logger.Info("OpenTelemetry shutdown successfully")
	return nil
}
