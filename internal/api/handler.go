package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"storefront/internal/apperr"
	"storefront/internal/metrics"
	"storefront/internal/observability"
	"storefront/internal/orders"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// maxBodyBytes ограничивает размер тела запроса с витрины.
const maxBodyBytes = 1 << 20

// OrderHandler обрабатывает HTTP-запросы витрины к заказам.
type OrderHandler struct {
	service  orders.Service
	reporter observability.Reporter
	auditor  *observability.Auditor
}

// NewOrderHandler создает новый экземпляр OrderHandler.
func NewOrderHandler(service orders.Service, reporter observability.Reporter, auditor *observability.Auditor) *OrderHandler {
	return &OrderHandler{service: service, reporter: reporter, auditor: auditor}
}

// errorBody - формат ответа с ошибкой.
type errorBody struct {
	Error   string         `json:"error"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

// CreateOrder принимает заказ с витрины магазина.
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	handlerName := "CreateOrder"
	timer := prometheus.NewTimer(metrics.HttpRequestDuration.WithLabelValues(handlerName))
	defer timer.ObserveDuration()

	slug := chi.URLParam(r, "slug")
	meta := observability.MetaFromRequest(r)

	req, err := orders.DecodeCreateOrder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	var resp *orders.CreateOrderResponse
	if err == nil {
		resp, err = h.service.CreateOrder(r.Context(), slug, req)
	}
	if err != nil {
		appErr := h.fail(w, r, handlerName, "orders.create", err)
		h.auditor.OrderRejected(meta, slug, appErr.ErrorCode(), appErr.Message())
		return
	}

	h.auditor.OrderCreated(meta, slug, resp.OrderID, resp.OrderNumber)
	respondWithJSON(w, handlerName, http.StatusOK, resp)
}

// QuoteDeliveryFee считает стоимость доставки для чекаута.
func (h *OrderHandler) QuoteDeliveryFee(w http.ResponseWriter, r *http.Request) {
	handlerName := "QuoteDeliveryFee"
	timer := prometheus.NewTimer(metrics.HttpRequestDuration.WithLabelValues(handlerName))
	defer timer.ObserveDuration()

	slug := chi.URLParam(r, "slug")
	meta := observability.MetaFromRequest(r)

	req, err := orders.DecodeQuote(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	var resp *orders.QuoteResponse
	if err == nil {
		resp, err = h.service.QuoteDeliveryFee(r.Context(), slug, req)
	}
	if err != nil {
		appErr := h.fail(w, r, handlerName, "orders.quote", err)
		h.auditor.FeeQuoted(meta, slug, appErr.ErrorCode())
		return
	}

	h.auditor.FeeQuoted(meta, slug, "ok")
	respondWithJSON(w, handlerName, http.StatusOK, resp)
}

// GetOrder отдает заказ по номеру (кэш, затем БД).
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	handlerName := "GetOrder"
	timer := prometheus.NewTimer(metrics.HttpRequestDuration.WithLabelValues(handlerName))
	defer timer.ObserveDuration()

	slug := chi.URLParam(r, "slug")
	number := chi.URLParam(r, "orderNumber")
	if number == "" {
		h.fail(w, r, handlerName, "orders.get", apperr.Validation("order number is required"))
		return
	}

	order, err := h.service.GetOrder(r.Context(), slug, number)
	if err != nil {
		h.fail(w, r, handlerName, "orders.get", err)
		return
	}
	respondWithJSON(w, handlerName, http.StatusOK, order)
}

// fail отвечает клиенту ошибкой из таксономии. Детали внутренних ошибок уходят
// только в reporter.
func (h *OrderHandler) fail(w http.ResponseWriter, r *http.Request, handlerName, operation string, err error) apperr.AppError {
	appErr := apperr.From(err)
	if appErr.HTTPCode() >= http.StatusInternalServerError {
		h.reporter.Report(r.Context(), operation, err,
			zap.String("store", chi.URLParam(r, "slug")),
			zap.String("path", r.URL.Path),
		)
	}

	respondWithJSON(w, handlerName, appErr.HTTPCode(), errorBody{
		Error:   appErr.Message(),
		Code:    appErr.ErrorCode(),
		Details: appErr.Details(),
	})
	return appErr
}

// respondWithJSON вспомогательная функция для отправки JSON-ответов.
func respondWithJSON(w http.ResponseWriter, handlerName string, code int, payload interface{}) {
	metrics.HttpRequestsTotal.WithLabelValues(handlerName, strconv.Itoa(code)).Inc()

	response, err := json.Marshal(payload)
	if err != nil {
		code = http.StatusInternalServerError
		response = []byte(`{"error":"internal server error","code":"INTERNAL_ERROR"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}
