package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"storefront/internal/apperr"
	"storefront/internal/config"
	"storefront/internal/metrics"
	"storefront/internal/orders"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Заголовки сообщений в DLQ.
const (
	HeaderOriginalTopic = "X-Original-Topic"
	HeaderErrorReason   = "X-Error-Reason"
	HeaderErrorCode     = "X-Error-Code"
	HeaderErrorDetails  = "X-Error-Details"
)

// Причины отправки в DLQ.
const (
	reasonInvalidEnvelope = "invalid_envelope"
	reasonValidation      = "validation_error"
	reasonRejected        = "rejected"
	reasonInternal        = "internal_error"
)

// IntakeMessage - сообщение с заказом из топика приема. Order имеет тот же
// формат, что и тело POST /api/stores/{slug}/orders.
type IntakeMessage struct {
	StoreSlug string          `json:"storeSlug"`
	Order     json.RawMessage `json:"order"`
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer читает заказы из Kafka и прогоняет их через тот же конвейер, что и HTTP.
type Consumer struct {
	reader    messageReader
	dlqWriter messageWriter // Продюсер для отправки "битых" сообщений в DLQ
	service   orders.Service
	logger    *zap.Logger
	tracer    trace.Tracer
}

// NewConsumer создает новый экземпляр Consumer.
func NewConsumer(cfg config.KafkaConfig, service orders.Service, logger *zap.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.GroupID,
		Topic:    cfg.Topic,
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
		// Коммиты выполняются вручную после обработки.
	})

	dlqWriter := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers...),
		Topic:    cfg.DLQTopic,
		Balancer: &kafka.LeastBytes{},
	}

	return newConsumer(reader, dlqWriter, service, logger)
}

func newConsumer(reader messageReader, dlqWriter messageWriter, service orders.Service, logger *zap.Logger) *Consumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Consumer{
		reader:    reader,
		dlqWriter: dlqWriter,
		service:   service,
		logger:    logger.Named("kafka-consumer"),
		tracer:    otel.Tracer("kafka-consumer"),
	}
}

// Run запускает цикл чтения сообщений и блокируется до отмены контекста.
func (c *Consumer) Run(ctx context.Context) {
	c.logger.Info("Kafka-консюмер запущен")
	defer func() {
		if err := c.reader.Close(); err != nil {
			c.logger.Error("ошибка закрытия Kafka-ридера", zap.Error(err))
		}
		if err := c.dlqWriter.Close(); err != nil {
			c.logger.Error("ошибка закрытия Kafka (DLQ) writer", zap.Error(err))
		}
	}()

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("Kafka-консюмер останавливается")
				return
			}
			c.logger.Error("ошибка чтения сообщения из Kafka", zap.Error(err))
			continue
		}

		if err := c.processMessage(ctx, msg); err != nil {
			// Сообщение не удалось ни обработать, ни переложить в DLQ.
			// Не коммитим, Kafka доставит его повторно.
			c.logger.Error("сообщение не обработано, ждем повторной доставки",
				zap.String("key", string(msg.Key)), zap.Int64("offset", msg.Offset), zap.Error(err))
			continue
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Error("ошибка коммита сообщения", zap.Int64("offset", msg.Offset), zap.Error(err))
		}
	}
}

// processMessage создает заказ из сообщения. Отклоненные сообщения уходят в DLQ
// без повторов. Ошибка возвращается только если сообщение некуда деть.
func (c *Consumer) processMessage(ctx context.Context, msg kafka.Message) error {
	ctx, span := c.tracer.Start(ctx, "Consumer.processMessage",
		trace.WithAttributes(attribute.Int64("kafka.offset", msg.Offset)))
	defer span.End()

	var envelope IntakeMessage
	if err := json.Unmarshal(msg.Value, &envelope); err != nil {
		return c.reject(ctx, msg, reasonInvalidEnvelope, apperr.Validation("malformed message: %v", err), "dlq_invalid_json")
	}
	envelope.StoreSlug = strings.TrimSpace(envelope.StoreSlug)
	if envelope.StoreSlug == "" || len(envelope.Order) == 0 {
		return c.reject(ctx, msg, reasonInvalidEnvelope, apperr.Validation("storeSlug and order are required"), "dlq_invalid_json")
	}
	span.SetAttributes(attribute.String("store.slug", envelope.StoreSlug))

	req, err := orders.DecodeCreateOrderBytes(envelope.Order)
	if err != nil {
		return c.reject(ctx, msg, reasonValidation, err, "dlq_validation")
	}

	resp, err := c.createOrder(ctx, envelope.StoreSlug, req)
	if err != nil {
		if apperr.IsClientError(err) {
			return c.reject(ctx, msg, reasonRejected, err, "dlq_rejected")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return c.reject(ctx, msg, reasonInternal, err, "dlq_internal")
	}

	c.logger.Info("заказ из Kafka создан",
		zap.String("store", envelope.StoreSlug),
		zap.String("order_id", resp.OrderID),
		zap.String("order_number", resp.OrderNumber),
	)
	metrics.KafkaMessagesProcessed.WithLabelValues("success").Inc()
	return nil
}

// createOrder превращает панику конвейера во внутреннюю ошибку, чтобы одно
// сообщение не остановило консюмер и не зациклило повторную доставку.
func (c *Consumer) createOrder(ctx context.Context, slug string, req *orders.CreateOrderRequest) (resp *orders.CreateOrderResponse, err error) {
	defer func() {
		if p := recover(); p != nil {
			c.logger.Error("паника при создании заказа из Kafka",
				zap.String("store", slug), zap.Any("panic", p), zap.Stack("stack"))
			resp, err = nil, fmt.Errorf("паника при создании заказа: %v", p)
		}
	}()
	return c.service.CreateOrder(ctx, slug, req)
}

// reject перекладывает сообщение в DLQ. Если DLQ недоступна, возвращает ошибку,
// чтобы сообщение не было закоммичено.
func (c *Consumer) reject(ctx context.Context, msg kafka.Message, reason string, procErr error, status string) error {
	code := apperr.From(procErr).ErrorCode()
	c.logger.Warn("сообщение отклонено, отправка в DLQ",
		zap.String("key", string(msg.Key)),
		zap.String("reason", reason),
		zap.String("code", code),
		zap.Error(procErr),
	)

	if err := c.sendToDLQ(ctx, msg, reason, code, procErr); err != nil {
		metrics.KafkaMessagesProcessed.WithLabelValues("dlq_failed_write").Inc()
		return fmt.Errorf("отправка в DLQ: %w", err)
	}
	metrics.KafkaMessagesProcessed.WithLabelValues(status).Inc()
	return nil
}

// sendToDLQ отправляет исходное сообщение в DLQ с заголовками об ошибке.
func (c *Consumer) sendToDLQ(ctx context.Context, originalMsg kafka.Message, reason, code string, procErr error) error {
	ctx, span := c.tracer.Start(ctx, "Consumer.sendToDLQ")
	defer span.End()

	err := c.dlqWriter.WriteMessages(ctx, kafka.Message{
		Key:   originalMsg.Key,
		Value: originalMsg.Value,
		Headers: []kafka.Header{
			{Key: HeaderOriginalTopic, Value: []byte(originalMsg.Topic)},
			{Key: HeaderErrorReason, Value: []byte(reason)},
			{Key: HeaderErrorCode, Value: []byte(code)},
			{Key: HeaderErrorDetails, Value: []byte(procErr.Error())},
		},
	})
	if err != nil {
		span.RecordError(err)
		c.logger.Error("КРИТИЧНО: не удалось отправить сообщение в DLQ",
			zap.String("key", string(originalMsg.Key)), zap.Error(err))
		return err
	}
	return nil
}
