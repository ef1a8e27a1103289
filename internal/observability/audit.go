package observability

import (
	"net/http"

	"go.uber.org/zap"
)

// RequestMeta - метаданные запроса для аудита.
type RequestMeta struct {
	IP        string
	UserAgent string
	Referrer  string
	URL       string
}

// MetaFromRequest собирает метаданные; RealIP middleware уже подставил адрес клиента.
func MetaFromRequest(r *http.Request) RequestMeta {
	return RequestMeta{
		IP:        r.RemoteAddr,
		UserAgent: r.UserAgent(),
		Referrer:  r.Referer(),
		URL:       r.URL.String(),
	}
}

func (m RequestMeta) fields() []zap.Field {
	return []zap.Field{
		zap.String("ip", m.IP),
		zap.String("user_agent", m.UserAgent),
		zap.String("referrer", m.Referrer),
		zap.String("url", m.URL),
	}
}

// Auditor пишет события приема заказов в отдельный логгер "audit".
type Auditor struct {
	logger *zap.Logger
}

func NewAuditor(logger *zap.Logger) *Auditor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Auditor{logger: logger}
}

func (a *Auditor) OrderCreated(meta RequestMeta, storeSlug, orderID, orderNumber string) {
	a.logger.Info("order.created", append(meta.fields(),
		zap.String("store", storeSlug),
		zap.String("order_id", orderID),
		zap.String("order_number", orderNumber),
	)...)
}

func (a *Auditor) OrderRejected(meta RequestMeta, storeSlug, code, message string) {
	a.logger.Warn("order.rejected", append(meta.fields(),
		zap.String("store", storeSlug),
		zap.String("code", code),
		zap.String("reason", message),
	)...)
}

func (a *Auditor) FeeQuoted(meta RequestMeta, storeSlug, outcome string) {
	a.logger.Info("delivery_fee.quoted", append(meta.fields(),
		zap.String("store", storeSlug),
		zap.String("outcome", outcome),
	)...)
}
