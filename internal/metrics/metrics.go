package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var (
	// HttpRequestsTotal - Счетчик HTTP-запросов
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Количество HTTP запросов",
		},
		[]string{"handler", "status"},
	)

	// HttpRequestDuration - Гистограмма длительности HTTP-запросов
	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "Длительность HTTP запросов",
		},
		[]string{"handler"},
	)

	// OrdersCreated - успешно созданные заказы
	OrdersCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_orders_created_total",
			Help: "Количество созданных заказов",
		},
		[]string{"business_type", "fulfillment"},
	)

	// OrdersRejected - заказы, отклоненные с бизнес-ошибкой
	OrdersRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_orders_rejected_total",
			Help: "Количество отклоненных заказов по коду ошибки",
		},
		[]string{"code"},
	)

	// FeeQuotes - расчеты стоимости доставки
	FeeQuotes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_delivery_fee_quotes_total",
			Help: "Количество расчетов стоимости доставки",
		},
		[]string{"strategy", "status"},
	)

	// InventoryActivities - записи журнала склада
	InventoryActivities = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storefront_inventory_activities_total",
			Help: "Количество записей журнала складских движений",
		},
	)

	// InventoryOversold - списания, при которых заказано больше остатка
	InventoryOversold = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storefront_inventory_oversold_total",
			Help: "Количество перепроданных позиций",
		},
	)

	// NotificationResults - результаты отправки уведомлений по каналам
	NotificationResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_notifications_total",
			Help: "Количество отправленных уведомлений",
		},
		[]string{"channel", "status"}, // status: "sent", "failed", "skipped"
	)

	// PostCommitFailures - упавшие фоновые задачи после сохранения заказа
	PostCommitFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_post_commit_failures_total",
			Help: "Количество ошибок фоновых задач после создания заказа",
		},
		[]string{"task"},
	)

	// ReportedErrors - ошибки, переданные в observability-приемник
	ReportedErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_reported_errors_total",
			Help: "Количество ошибок, зарегистрированных приемником",
		},
		[]string{"operation"},
	)

	// CacheHits - Счетчик попаданий в кэш
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Количество попаданий в кэш",
		},
	)

	// CacheMisses - Счетчик промахов кэша
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Количество промахов кэша",
		},
	)

	// KafkaMessagesProcessed - Счетчик обработанных Kafka-сообщений
	KafkaMessagesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_processed_total",
			Help: "Количество обработанных сообщений Kafka",
		},
		[]string{"status"}, // "success", "dlq_invalid_json", "dlq_rejected", "dlq_internal", "dlq_failed_write"
	)

	// KafkaEventsPublished - события о заказах, отправленные в Kafka
	KafkaEventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_events_published_total",
			Help: "Количество опубликованных событий",
		},
		[]string{"status"},
	)

	// DBErrors - Счетчик ошибок базы данных
	DBErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_errors_total",
			Help: "Количество ошибок при работе с БД",
		},
		[]string{"operation"},
	)

	// CacheSize - Датчик (Gauge) текущего размера кэша
	CacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_size_items",
			Help: "Текущий размер кэша в элементах",
		},
	)

	// CacheEvictions - Счетчик вытеснений из кэша (LRU)
	CacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Количество вытесненных из кэша элементов",
		},
	)
)

// Init используется для регистрации метрик.
// promauto регистрирует их автоматически при создании.
func Init(logger *zap.Logger) {
	logger.Info("Prometheus метрики инициализированы")
}
