// Package orders принимает заказы с витрины: проверяет бизнес и товары, считает
// доставку, находит клиента, сохраняет заказ и запускает фоновые побочные эффекты.
package orders

import (
	"context"

	"storefront/internal/model"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=./mocks/service_mock.go -package=mocks Service

// Service - точка входа для HTTP и Kafka.
type Service interface {
	CreateOrder(ctx context.Context, storeSlug string, req *CreateOrderRequest) (*CreateOrderResponse, error)
	QuoteDeliveryFee(ctx context.Context, storeSlug string, req *QuoteRequest) (*QuoteResponse, error)
	GetOrder(ctx context.Context, storeSlug, orderNumber string) (*model.Order, error)
}

// CreateOrderResponse возвращается после сохранения заказа, даже если фоновые задачи
// позже завершатся ошибкой.
type CreateOrderResponse struct {
	Success               bool            `json:"success"`
	OrderID               string          `json:"orderId"`
	OrderNumber           string          `json:"orderNumber"`
	CalculatedDeliveryFee decimal.Decimal `json:"calculatedDeliveryFee"`
	DeliveryZone          string          `json:"deliveryZone"`
	DeliveryDistance      float64         `json:"deliveryDistance"`
	DirectNotification    bool            `json:"directNotification"`
	Message               string          `json:"message,omitempty"`
	WhatsAppURL           string          `json:"whatsappUrl,omitempty"`
}

type QuoteResponse struct {
	Success     bool            `json:"success"`
	DeliveryFee decimal.Decimal `json:"deliveryFee"`
	Zone        string          `json:"zone"`
	Distance    float64         `json:"distance"`
}
