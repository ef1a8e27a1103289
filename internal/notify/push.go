package notify

import (
	"context"
	"fmt"

	"storefront/internal/config"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// messagingClient - часть клиента FCM, нужная для отправки.
type messagingClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// FCMSender отправляет push-уведомления сотрудникам магазина через Firebase Cloud Messaging.
type FCMSender struct {
	client messagingClient
}

// NewFCMSender создает отправителя. Без файла учетных данных канал остается выключенным.
func NewFCMSender(ctx context.Context, cfg config.FCMConfig) (*FCMSender, error) {
	if cfg.CredentialsFile == "" {
		return &FCMSender{}, nil
	}

	var fbCfg *firebase.Config
	if cfg.ProjectID != "" {
		fbCfg = &firebase.Config{ProjectID: cfg.ProjectID}
	}

	app, err := firebase.NewApp(ctx, fbCfg, option.WithCredentialsFile(cfg.CredentialsFile))
	if err != nil {
		return nil, fmt.Errorf("не удалось инициализировать Firebase: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("не удалось получить клиент FCM: %w", err)
	}

	return &FCMSender{client: client}, nil
}

func (s *FCMSender) Configured() bool {
	return s.client != nil
}

func (s *FCMSender) SendToTopic(ctx context.Context, topic, title, body string, data map[string]string) error {
	if !s.Configured() {
		return fmt.Errorf("FCM не настроен")
	}

	_, err := s.client.Send(ctx, &messaging.Message{
		Topic: topic,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	})
	if err != nil {
		return fmt.Errorf("ошибка отправки push на топик %s: %w", topic, err)
	}
	return nil
}

// StoreTopic - топик FCM, на который подписаны устройства сотрудников магазина.
func StoreTopic(slug string) string {
	return "store-" + slug
}
