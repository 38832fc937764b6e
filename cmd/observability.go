package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"fulfillment/internal/telemetry"

	"go.opentelemetry.io/otel"
)

// Version is reported as service.version on traces and metrics.
var Version = "dev"

// Observability holds the process-wide telemetry handles.
type Observability struct {
	Logger      *slog.Logger
	Metrics     http.Handler
	Instruments *telemetry.Instruments
	shutdown    []func(context.Context) error
}

// NewLogger returns the JSON logger every binary uses, tagged with the
// service name.
func NewLogger(serviceName string) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	return logger.With("service", serviceName)
}

// SetupObservability installs the global tracer and meter providers.
func SetupObservability(ctx context.Context, cfg Config) (*Observability, error) {
	shutdownTracer, err := telemetry.InitTracerProvider(ctx, cfg.OtelServiceName, Version, cfg.OtelEndpoint)
	if err != nil {
		return nil, err
	}

	metrics, shutdownMeter, err := telemetry.InitMeterProvider(cfg.OtelServiceName, Version)
	if err != nil {
		_ = shutdownTracer(ctx)
		return nil, err
	}

	instruments, err := telemetry.NewInstruments(otel.Meter(telemetry.MeterName))
	if err != nil {
		_ = shutdownMeter(ctx)
		_ = shutdownTracer(ctx)
		return nil, err
	}

	logger := NewLogger(cfg.OtelServiceName)
	slog.SetDefault(logger)

	return &Observability{
		Logger:      logger,
		Metrics:     metrics,
		Instruments: instruments,
		shutdown:    []func(context.Context) error{shutdownMeter, shutdownTracer},
	}, nil
}

// Shutdown flushes pending spans and metrics.
func (o *Observability) Shutdown(ctx context.Context) error {
	var errs []error
	for _, fn := range o.shutdown {
		errs = append(errs, fn(ctx))
	}
	return errors.Join(errs...)
}
