package model

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// FulfillmentType - способ получения заказа.
type FulfillmentType string

const (
	FulfillmentDelivery FulfillmentType = "DELIVERY"
	FulfillmentPickup   FulfillmentType = "PICKUP"
	FulfillmentDineIn   FulfillmentType = "DINE_IN"
)

const (
	OrderStatusPending   = "PENDING"
	PaymentStatusPending = "PENDING"
)

type Order struct {
	ID                  string          `json:"id" db:"id"`
	BusinessID          string          `json:"businessId" db:"business_id"`
	CustomerID          string          `json:"customerId" db:"customer_id"`
	OrderNumber         string          `json:"orderNumber" db:"order_number"`
	Status              string          `json:"status" db:"status"`
	Type                FulfillmentType `json:"type" db:"type"`
	Subtotal            decimal.Decimal `json:"subtotal" db:"subtotal"`
	DeliveryFee         decimal.Decimal `json:"deliveryFee" db:"delivery_fee"`
	Tax                 decimal.Decimal `json:"tax" db:"tax"`
	Discount            decimal.Decimal `json:"discount" db:"discount"`
	Total               decimal.Decimal `json:"total" db:"total"`
	PaymentMethod       string          `json:"paymentMethod" db:"payment_method"`
	PaymentStatus       string          `json:"paymentStatus" db:"payment_status"`
	DeliveryAddress     *string         `json:"deliveryAddress,omitempty" db:"delivery_address"`
	DeliveryTime        *time.Time      `json:"deliveryTime,omitempty" db:"delivery_time"`
	DeliveryLatitude    *float64        `json:"deliveryLatitude,omitempty" db:"delivery_latitude"`
	DeliveryLongitude   *float64        `json:"deliveryLongitude,omitempty" db:"delivery_longitude"`
	PostalPricingID     *string         `json:"postalPricingId,omitempty" db:"postal_pricing_id"`
	SpecialInstructions *string         `json:"specialInstructions,omitempty" db:"special_instructions"`
	CreatedAt           time.Time       `json:"createdAt" db:"created_at"`
	Items               []OrderItem     `json:"items" db:"-"`
}

type OrderItem struct {
	ID            string              `json:"id" db:"id"`
	OrderID       string              `json:"-" db:"order_id"`
	ProductID     string              `json:"productId" db:"product_id"`
	VariantID     *string             `json:"variantId,omitempty" db:"variant_id"`
	Quantity      int                 `json:"quantity" db:"quantity"`
	Price         decimal.Decimal     `json:"price" db:"price"`
	OriginalPrice decimal.NullDecimal `json:"originalPrice" db:"original_price"`
	Modifiers     pq.StringArray      `json:"modifiers" db:"modifiers"`
}
