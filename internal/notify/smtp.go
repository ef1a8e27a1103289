package notify

import (
	"context"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"storefront/internal/config"
)

type sendMailFunc func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error

// SMTPSender отправляет письма через SMTP-сервер.
type SMTPSender struct {
	cfg      config.SMTPConfig
	sendMail sendMailFunc
	now      func() time.Time
}

func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg, sendMail: smtp.SendMail, now: time.Now}
}

func (s *SMTPSender) Configured() bool {
	return s.cfg.Host != ""
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	if !s.Configured() {
		return fmt.Errorf("SMTP не настроен")
	}
	// net/smtp не принимает контекст, поэтому проверяем отмену до отправки.
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	if err := s.sendMail(addr, auth, s.cfg.From, []string{to}, s.buildMessage(to, subject, body)); err != nil {
		return fmt.Errorf("ошибка отправки письма на %s: %w", to, err)
	}
	return nil
}

func (s *SMTPSender) buildMessage(to, subject, body string) []byte {
	var sb strings.Builder
	sb.WriteString("From: " + s.cfg.From + "\r\n")
	sb.WriteString("To: " + to + "\r\n")
	sb.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	sb.WriteString("Date: " + s.now().Format(time.RFC1123Z) + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	sb.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return []byte(sb.String())
}
