package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/api"
	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/customer"
	"storefront/internal/database"
	"storefront/internal/inventory"
	"storefront/internal/kafka"
	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/notify"
	"storefront/internal/observability"
	"storefront/internal/orders"
	"storefront/internal/postcommit"
	"storefront/internal/pricing"
	"storefront/internal/tracing"

	"go.uber.org/zap"
)

// warmUpLimit - сколько последних заказов загружается в кэш при старте.
const warmUpLimit = 100

func main() {
	cfg := config.Get()

	log, err := logger.New(cfg.Log.Level, cfg.Log.Pretty)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Не удалось создать логгер: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	metrics.Init(log)

	shutdownTracer, err := tracing.InitTracerProvider(cfg.Tracing, log)
	if err != nil {
		log.Fatal("ошибка инициализации трассировки", zap.Error(err))
	}

	// Инициализация хранилища
	storage, err := database.New(cfg.Postgres.URL, cfg.Postgres.MigrationsPath, log)
	if err != nil {
		log.Fatal("ошибка инициализации хранилища", zap.Error(err))
	}
	defer func() {
		if err := storage.Close(); err != nil {
			log.Error("ошибка закрытия хранилища", zap.Error(err))
		}
	}()

	// Инициализация кэша
	orderCache := cache.NewLRUCache(cfg.Cache.Size)
	if err := cache.WarmUp(context.Background(), storage, orderCache, warmUpLimit, log); err != nil {
		log.Warn("ошибка при прогреве кэша", zap.Error(err))
	}

	reporter := observability.NewReporter(log)
	auditor := observability.NewAuditor(log.Named("audit"))

	// Каналы уведомлений
	fcm, err := notify.NewFCMSender(context.Background(), cfg.FCM)
	if err != nil {
		log.Warn("push-уведомления отключены", zap.Error(err))
		fcm = &notify.FCMSender{}
	}
	formatter := notify.NewFormatter(notify.DefaultPhrasebook(), cfg.Storefront.BaseURL)
	dispatcher := notify.NewDispatcher(
		notify.NewSMTPSender(cfg.SMTP),
		notify.NewWhatsAppSender(cfg.WhatsApp),
		fcm,
		formatter,
		reporter,
		log,
	)

	scheduler := postcommit.NewAsyncScheduler(reporter, cfg.PostCommit.Timeout)

	deps := orders.Deps{
		Store:      storage,
		Pricing:    pricing.NewResolver(storage),
		Customers:  customer.NewResolver(storage, log),
		Ledger:     inventory.NewLedger(storage, log),
		Formatter:  formatter,
		Dispatcher: dispatcher,
		Scheduler:  scheduler,
		Cache:      orderCache,
		Numbers:    orders.NewNumberGenerator(),
		Logger:     log,
	}

	var publisher *kafka.Publisher
	if cfg.Kafka.EventsEnabled {
		publisher = kafka.NewPublisher(cfg.Kafka)
		deps.Events = publisher
	}

	pipeline := orders.NewPipeline(deps)

	// Запуск Kafka Consumer
	ctx, cancel := context.WithCancel(context.Background())
	consumerDone := make(chan struct{})
	if cfg.Kafka.IntakeEnabled {
		consumer := kafka.NewConsumer(cfg.Kafka, pipeline, log)
		go func() {
			defer close(consumerDone)
			consumer.Run(ctx)
		}()
	} else {
		close(consumerDone)
	}

	// Запуск HTTP-сервера
	server := api.NewServer(api.ServerConfig{
		Port:         cfg.HTTP.Port,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}, api.NewOrderHandler(pipeline, reporter, auditor), log)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Run()
	}()

	// Ожидание сигнала для корректного завершения работы
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-shutdown:
	case err := <-serverErr:
		if err != nil {
			log.Error("ошибка HTTP-сервера", zap.Error(err))
		}
	}

	log.Info("сервис останавливается")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("ошибка остановки HTTP-сервера", zap.Error(err))
	}
	cancel()
	<-consumerDone

	if err := scheduler.Wait(shutdownCtx); err != nil {
		log.Warn("не все фоновые задачи завершились", zap.Error(err))
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			log.Error("ошибка закрытия Kafka publisher", zap.Error(err))
		}
	}
	shutdownTracer(shutdownCtx)

	log.Info("сервис успешно остановлен")
}
