package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"storefront/internal/config"
	"storefront/internal/generator"
	intake "storefront/internal/kafka"
	"storefront/internal/logger"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Producer генерирует заказы и отправляет их в топик приема.
type Producer struct {
	writer    *kafka.Writer
	generator *generator.Generator
	storeSlug string
	logger    *zap.Logger
}

// NewProducer создает и настраивает новый экземпляр продюсера.
func NewProducer(cfg config.KafkaConfig, storeSlug string, gen *generator.Generator, logger *zap.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers...),
		Topic:    cfg.Topic,
		Balancer: &kafka.LeastBytes{},
	}
	return &Producer{writer: writer, generator: gen, storeSlug: storeSlug, logger: logger}
}

// send отправляет один сгенерированный заказ.
func (p *Producer) send(ctx context.Context) error {
	order, err := json.Marshal(p.generator.NewOrder())
	if err != nil {
		return fmt.Errorf("ошибка сериализации заказа: %w", err)
	}
	value, err := json.Marshal(intake.IntakeMessage{StoreSlug: p.storeSlug, Order: order})
	if err != nil {
		return fmt.Errorf("ошибка сериализации сообщения: %w", err)
	}

	key := uuid.New().String()
	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: value}); err != nil {
		return fmt.Errorf("ошибка отправки сообщения: %w", err)
	}
	p.logger.Info("отправлен заказ", zap.String("key", key), zap.String("store", p.storeSlug))
	return nil
}

// Run отправляет заказы с заданным интервалом до отмены контекста или исчерпания count.
func (p *Producer) Run(ctx context.Context, interval time.Duration, count int) {
	p.logger.Info("продюсер запущен, CTRL+C для остановки")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for sent := 0; count <= 0 || sent < count; {
		select {
		case <-ctx.Done():
			p.logger.Info("продюсер останавливается")
			return
		case <-ticker.C:
			if err := p.send(ctx); err != nil {
				p.logger.Error("заказ не отправлен", zap.Error(err))
				continue
			}
			sent++
		}
	}
}

func (p *Producer) Close() {
	if err := p.writer.Close(); err != nil {
		p.logger.Error("ошибка закрытия Kafka writer", zap.Error(err))
	}
}

func main() {
	var (
		storeSlug  = flag.String("store", "demo", "slug магазина")
		productIDs = flag.String("products", "", "id товаров через запятую")
		interval   = flag.Duration("interval", 2*time.Second, "интервал между заказами")
		count      = flag.Int("count", 0, "количество заказов (0 - без ограничения)")
		seed       = flag.Int64("seed", 0, "зерно генератора (0 - случайное)")
		storeLat   = flag.Float64("lat", 0, "широта магазина для заказов с доставкой")
		storeLng   = flag.Float64("lng", 0, "долгота магазина для заказов с доставкой")
		radius     = flag.Float64("radius", 5, "радиус доставки, км")
		fee        = flag.String("fee", "", "стоимость доставки; пусто - без заказов с доставкой")
	)
	flag.Parse()

	cfg := config.Get()
	log, err := logger.New(cfg.Log.Level, cfg.Log.Pretty)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Не удалось создать логгер: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	opts := generator.Options{ProductIDs: splitIDs(*productIDs)}
	if *fee != "" {
		deliveryFee, err := decimal.NewFromString(*fee)
		if err != nil {
			log.Fatal("некорректная стоимость доставки", zap.String("fee", *fee), zap.Error(err))
		}
		opts.Delivery = &generator.Delivery{StoreLat: *storeLat, StoreLng: *storeLng, RadiusKm: *radius, Fee: deliveryFee}
	}

	gen, err := generator.New(*seed, opts)
	if err != nil {
		log.Fatal("не удалось создать генератор", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	producer := NewProducer(cfg.Kafka, *storeSlug, gen, log)
	defer producer.Close()

	producer.Run(ctx, *interval, *count)
}

func splitIDs(raw string) []string {
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
