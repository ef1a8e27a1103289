package tracing

import (
	"context"
	"fmt"

	"storefront/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/zap"
)

// newJaegerExporter создает экспортер, который отправляет трейсы в Jaeger.
func newJaegerExporter(url string) (sdktrace.SpanExporter, error) {
	return jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(url)))
}

// InitTracerProvider настраивает и регистрирует OpenTelemetry-провайдер.
// Возвращает функцию остановки, которая сбрасывает накопленные спаны.
// При выключенной трассировке глобальный провайдер остается no-op.
func InitTracerProvider(cfg config.TracingConfig, logger *zap.Logger) (func(context.Context), error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	if !cfg.Enabled {
		logger.Info("трассировка отключена")
		return func(context.Context) {}, nil
	}

	exporter, err := newJaegerExporter(cfg.JaegerURL)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания Jaeger-экспортера: %w", err)
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
	)
	otel.SetTracerProvider(tp)

	logger.Info("OpenTelemetry (Jaeger) инициализирован", zap.String("endpoint", cfg.JaegerURL))

	return func(ctx context.Context) {
		if err := tp.Shutdown(ctx); err != nil {
			logger.Error("ошибка остановки TracerProvider", zap.Error(err))
		}
	}, nil
}
