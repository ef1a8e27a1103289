package notify

import (
	"context"
	"strings"
	"sync"

	"storefront/internal/metrics"
	"storefront/internal/model"
	"storefront/internal/observability"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Каналы уведомлений.
const (
	ChannelCustomerEmail = "email_customer"
	ChannelBusinessEmail = "email_business"
	ChannelWhatsApp      = "whatsapp"
	ChannelPush          = "push"
)

// Статусы отправки по каналу.
const (
	StatusSent    = "sent"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Message - готовый к отправке заказ.
type Message struct {
	Business      *model.Business
	Order         *model.Order
	CustomerEmail string
	// Text - сводка заказа от Formatter.
	Text string
}

// Results - статус отправки по каждому каналу.
type Results map[string]string

// Dispatcher рассылает уведомления о заказе по независимым каналам.
type Dispatcher struct {
	email     EmailSender
	chat      ChatSender
	push      PushSender
	formatter *Formatter
	reporter  observability.Reporter
	logger    *zap.Logger
	tracer    trace.Tracer
}

func NewDispatcher(email EmailSender, chat ChatSender, push PushSender, formatter *Formatter, reporter observability.Reporter, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		email:     email,
		chat:      chat,
		push:      push,
		formatter: formatter,
		reporter:  reporter,
		logger:    logger.Named("notify"),
		tracer:    otel.Tracer("notify-dispatcher"),
	}
}

// DirectAvailable сообщает, будет ли заказ отправлен бизнесу напрямую в мессенджер.
// Решение принимается до отправки: поздняя ошибка канала только логируется.
func (d *Dispatcher) DirectAvailable(b *model.Business) bool {
	return b.DirectNotifications && b.WhatsAppNumber != "" && d.chat != nil && d.chat.Configured()
}

// Confirmation - текст подтверждения для клиента при прямой отправке.
func (d *Dispatcher) Confirmation(b *model.Business) string {
	return d.formatter.Phrases(b).Format("directConfirmation", map[string]string{"business": b.Name})
}

// Dispatch отправляет уведомления параллельно. Ошибка канала передается в reporter
// и не отменяет остальные каналы.
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message) Results {
	ctx, span := d.tracer.Start(ctx, "Notify.Dispatch")
	defer span.End()

	b, o := msg.Business, msg.Order
	p := d.formatter.Phrases(b)
	vars := map[string]string{"number": o.OrderNumber, "business": b.Name}

	results := make(Results, 4)
	var mu sync.Mutex
	record := func(channel, status string) {
		mu.Lock()
		results[channel] = status
		mu.Unlock()
		metrics.NotificationResults.WithLabelValues(channel, status).Inc()
	}

	// errgroup без WithContext: отмена одного канала не должна затрагивать другие.
	var g errgroup.Group
	send := func(channel string, enabled bool, fn func() error) {
		if !enabled {
			record(channel, StatusSkipped)
			return
		}
		g.Go(func() error {
			if err := fn(); err != nil {
				record(channel, StatusFailed)
				d.reporter.Report(ctx, "notify."+channel, err,
					zap.String("order_id", o.ID),
					zap.String("business_id", b.ID),
				)
				return nil
			}
			record(channel, StatusSent)
			return nil
		})
	}

	emailReady := d.email != nil && d.email.Configured()

	customerEmail := strings.TrimSpace(msg.CustomerEmail)
	send(ChannelCustomerEmail, emailReady && customerEmail != "", func() error {
		body := p.Get("customerIntro") + "\n\n" + msg.Text
		return d.email.Send(ctx, customerEmail, p.Format("customerSubject", vars), body)
	})

	send(ChannelBusinessEmail, emailReady && b.EmailNotificationsEnabled && b.NotificationEmail != "", func() error {
		return d.email.Send(ctx, b.NotificationEmail, p.Format("businessSubject", vars), msg.Text)
	})

	send(ChannelWhatsApp, d.DirectAvailable(b), func() error {
		return d.chat.SendText(ctx, b.WhatsAppNumber, msg.Text)
	})

	send(ChannelPush, b.PushNotificationsEnabled && d.push != nil && d.push.Configured(), func() error {
		data := map[string]string{
			"orderId":     o.ID,
			"orderNumber": o.OrderNumber,
			"type":        string(o.Type),
			"total":       o.Total.StringFixed(2),
		}
		body := FormatMoney(b.Currency, o.Total) + " - " + fulfillmentLabel(p, o.Type)
		return d.push.SendToTopic(ctx, StoreTopic(b.Slug), p.Format("pushTitle", vars), body, data)
	})

	_ = g.Wait()

	d.logger.Debug("уведомления разосланы", zap.String("order_id", o.ID), zap.Any("results", results))
	return results
}
