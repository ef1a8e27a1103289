package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"storefront/internal/config"
	"storefront/internal/metrics"
	"storefront/internal/orders"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// HeaderEventType - заголовок с типом события заказа.
const HeaderEventType = "X-Event-Type"

// Publisher пишет события заказов в топик событий. Ключ сообщения - id заказа,
// поэтому события одного заказа попадают в одну партицию.
type Publisher struct {
	writer messageWriter
	tracer trace.Tracer
}

// NewPublisher создает писателя в cfg.EventsTopic.
func NewPublisher(cfg config.KafkaConfig) *Publisher {
	return newPublisher(&kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers...),
		Topic:    cfg.EventsTopic,
		Balancer: &kafka.Hash{},
	})
}

func newPublisher(writer messageWriter) *Publisher {
	return &Publisher{writer: writer, tracer: otel.Tracer("kafka-publisher")}
}

// PublishOrderEvent реализует orders.EventPublisher.
func (p *Publisher) PublishOrderEvent(ctx context.Context, event orders.OrderEvent) error {
	ctx, span := p.tracer.Start(ctx, "Publisher.PublishOrderEvent", trace.WithAttributes(
		attribute.String("event.type", event.Type),
		attribute.String("order.id", event.OrderID),
	))
	defer span.End()

	payload, err := json.Marshal(event)
	if err != nil {
		metrics.KafkaEventsPublished.WithLabelValues("failed").Inc()
		return fmt.Errorf("сериализация события %s: %w", event.Type, err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(event.OrderID),
		Value:   payload,
		Headers: []kafka.Header{{Key: HeaderEventType, Value: []byte(event.Type)}},
	})
	if err != nil {
		span.RecordError(err)
		metrics.KafkaEventsPublished.WithLabelValues("failed").Inc()
		return fmt.Errorf("публикация события %s заказа %s: %w", event.Type, event.OrderID, err)
	}

	metrics.KafkaEventsPublished.WithLabelValues("published").Inc()
	return nil
}

// Close закрывает writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
