// Package observability - приемник ошибок и аудит событий приема заказов.
package observability

import (
	"context"

	"storefront/internal/metrics"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Reporter принимает ошибки, которые не должны доходить до клиента.
type Reporter interface {
	Report(ctx context.Context, operation string, err error, fields ...zap.Field)
}

type zapReporter struct {
	logger *zap.Logger
}

// NewReporter пишет ошибку в лог, в текущий спан и в метрику.
func NewReporter(logger *zap.Logger) Reporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &zapReporter{logger: logger.Named("reporter")}
}

func (r *zapReporter) Report(ctx context.Context, operation string, err error, fields ...zap.Field) {
	if err == nil {
		return
	}

	span := trace.SpanFromContext(ctx)
	span.RecordError(err, trace.WithAttributes(attribute.String("operation", operation)))
	span.SetStatus(codes.Error, operation)

	all := make([]zap.Field, 0, len(fields)+3)
	all = append(all, zap.String("operation", operation), zap.Error(err))
	if sc := span.SpanContext(); sc.HasTraceID() {
		all = append(all, zap.String("trace_id", sc.TraceID().String()))
	}
	all = append(all, fields...)

	r.logger.Error("ошибка операции", all...)
	metrics.ReportedErrors.WithLabelValues(operation).Inc()
}
