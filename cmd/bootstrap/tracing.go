package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"autoservice-workflow/internal/pkg/config"
	"autoservice-workflow/internal/pkg/errs"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.uber.org/fx"
)

var TracingModule = fx.Module("tracing",
	fx.Invoke(InitTracer),
)

// InitTracer installs the global tracer provider. Without an endpoint the global no-op
// provider stays in place.
func InitTracer(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) error {
	if cfg.Tracing.Endpoint == "" {
		logger.Info("tracing disabled: no OTLP endpoint configured")
		return nil
	}
	logger.Info("initializing tracer", "endpoint", cfg.Tracing.Endpoint)

	exporter, err := otlptracehttp.New(context.Background(),
		otlptracehttp.WithEndpointURL(cfg.Tracing.Endpoint),
	)
	if err != nil {
		return errs.Wrap(err, "failed to create OTLP exporter")
	}

	resources := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(cfg.Tracing.ServiceName),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sdktrace.NewBatchSpanProcessor(exporter, sdktrace.WithExportTimeout(5*time.Second))),
		sdktrace.WithResource(resources),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if err := tp.Shutdown(ctx); err != nil {
				logger.Error("failed to shut down tracer provider", "error", err)
			}
			return nil
		},
	})
	return nil
}
