package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"storefront/internal/config"
	"storefront/internal/phone"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// WhatsAppSender отправляет текстовые сообщения через WhatsApp Cloud API.
type WhatsAppSender struct {
	baseURL       string
	token         string
	phoneNumberID string
	client        *http.Client
}

func NewWhatsAppSender(cfg config.WhatsAppConfig) *WhatsAppSender {
	return &WhatsAppSender{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		token:         cfg.Token,
		phoneNumberID: cfg.PhoneNumberID,
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (s *WhatsAppSender) Configured() bool {
	return s.token != "" && s.phoneNumberID != ""
}

type whatsAppText struct {
	Body string `json:"body"`
}

type whatsAppMessage struct {
	MessagingProduct string       `json:"messaging_product"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Text             whatsAppText `json:"text"`
}

func (s *WhatsAppSender) SendText(ctx context.Context, to, body string) error {
	if !s.Configured() {
		return fmt.Errorf("WhatsApp не настроен")
	}

	payload, err := json.Marshal(whatsAppMessage{
		MessagingProduct: "whatsapp",
		To:               phone.Normalize(to),
		Type:             "text",
		Text:             whatsAppText{Body: body},
	})
	if err != nil {
		return fmt.Errorf("ошибка сериализации сообщения: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", s.baseURL, s.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("ошибка запроса к WhatsApp API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("WhatsApp API вернул статус %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	return nil
}
