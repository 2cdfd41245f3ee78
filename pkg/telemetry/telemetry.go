package telemetry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"sehatnama/pkg/logger"
)

// Options struct
type Options struct {
	Enabled        bool
	ServiceName    string
	ServiceVersion string
	TraceFile      string
	MetricFile     string
	MetricInterval time.Duration
}

// Init installs global tracer and meter providers exporting to rotated files.
// When disabled the global no-op providers stay in place.
// The returned shutdown flushes and closes everything; it is never nil.
func Init(ctx context.Context, opts Options) (func(), error) {
	if !opts.Enabled {
		return func() {}, nil
	}
	if opts.ServiceName == "" {
		opts.ServiceName = "sehatnama"
	}
	if opts.MetricInterval <= 0 {
		opts.MetricInterval = 30 * time.Second
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(opts.ServiceName),
			semconv.ServiceVersion(opts.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	for _, f := range []string{opts.TraceFile, opts.MetricFile} {
		if err := os.MkdirAll(filepath.Dir(f), 0755); err != nil {
			return nil, fmt.Errorf("failed to create telemetry directory: %w", err)
		}
	}

	traceFile := logger.NewRotatingFile(opts.TraceFile, 0, 0, 0, true)
	traceExporter, err := stdouttrace.New(stdouttrace.WithWriter(traceFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	metricFile := logger.NewRotatingFile(opts.MetricFile, 0, 0, 0, true)
	metricExporter, err := stdoutmetric.New(stdoutmetric.WithWriter(metricFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create metric exporter: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(metricExporter, sdkmetric.WithInterval(opts.MetricInterval)),
		),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logrus.Infof("Telemetry enabled: traces=%s metrics=%s", opts.TraceFile, opts.MetricFile)

	shutdown := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logrus.Errorf("failed to shutdown tracer provider: %v", err)
		}
		if err := mp.Shutdown(ctx); err != nil {
			logrus.Errorf("failed to shutdown meter provider: %v", err)
		}
		if err := traceFile.Close(); err != nil {
			logrus.Errorf("failed to close trace file: %v", err)
		}
		if err := metricFile.Close(); err != nil {
			logrus.Errorf("failed to close metric file: %v", err)
		}
	}
	return shutdown, nil
}
