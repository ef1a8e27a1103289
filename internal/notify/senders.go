package notify

import "context"

//go:generate mockgen -source=senders.go -destination=./mocks/senders_mock.go -package=mocks EmailSender ChatSender PushSender

// EmailSender отправляет письма с текстом заказа.
type EmailSender interface {
	Configured() bool
	Send(ctx context.Context, to, subject, body string) error
}

// ChatSender отправляет сообщение в мессенджер бизнеса.
type ChatSender interface {
	Configured() bool
	SendText(ctx context.Context, to, body string) error
}

// PushSender отправляет push-уведомление на топик устройств магазина.
type PushSender interface {
	Configured() bool
	SendToTopic(ctx context.Context, topic, title, body string, data map[string]string) error
}
