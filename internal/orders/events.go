package orders

import (
	"context"
	"time"

	"storefront/internal/model"

	"github.com/shopspring/decimal"
)

// EventOrderCreated - тип события о созданном заказе.
const EventOrderCreated = "order.created"

// OrderEvent публикуется в шину после сохранения заказа.
type OrderEvent struct {
	Type        string                `json:"type"`
	OrderID     string                `json:"orderId"`
	OrderNumber string                `json:"orderNumber"`
	BusinessID  string                `json:"businessId"`
	StoreSlug   string                `json:"storeSlug"`
	CustomerID  string                `json:"customerId"`
	Fulfillment model.FulfillmentType `json:"fulfillment"`
	Currency    string                `json:"currency"`
	Subtotal    decimal.Decimal       `json:"subtotal"`
	DeliveryFee decimal.Decimal       `json:"deliveryFee"`
	Total       decimal.Decimal       `json:"total"`
	ItemCount   int                   `json:"itemCount"`
	CreatedAt   time.Time             `json:"createdAt"`
}

// EventPublisher отправляет события заказов во внешнюю шину.
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event OrderEvent) error
}

// NewOrderCreatedEvent собирает событие из сохраненного заказа.
func NewOrderCreatedEvent(business *model.Business, order *model.Order) OrderEvent {
	count := 0
	for _, item := range order.Items {
		count += item.Quantity
	}
	return OrderEvent{
		Type:        EventOrderCreated,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		BusinessID:  business.ID,
		StoreSlug:   business.Slug,
		CustomerID:  order.CustomerID,
		Fulfillment: order.Type,
		Currency:    business.Currency,
		Subtotal:    order.Subtotal,
		DeliveryFee: order.DeliveryFee,
		Total:       order.Total,
		ItemCount:   count,
		CreatedAt:   order.CreatedAt,
	}
}
