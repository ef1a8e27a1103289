package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BusinessType определяет тип бизнеса (влияет на стратегию доставки и тексты уведомлений).
type BusinessType string

const (
	BusinessRestaurant   BusinessType = "RESTAURANT"
	BusinessCafe         BusinessType = "CAFE"
	BusinessRetail       BusinessType = "RETAIL"
	BusinessGrocery      BusinessType = "GROCERY"
	BusinessJewelry      BusinessType = "JEWELRY"
	BusinessFlorist      BusinessType = "FLORIST"
	BusinessHealthBeauty BusinessType = "HEALTH_BEAUTY"
	BusinessOther        BusinessType = "OTHER"
	BusinessSalon        BusinessType = "SALON"
	BusinessServices     BusinessType = "SERVICES"
)

// Business - магазин (тенант) со своими настройками доставки и уведомлений.
type Business struct {
	ID       string       `json:"id" db:"id"`
	Slug     string       `json:"slug" db:"slug"`
	Name     string       `json:"name" db:"name"`
	Type     BusinessType `json:"businessType" db:"business_type"`
	Currency string       `json:"currency" db:"currency"`
	Language string       `json:"language" db:"language"`
	Website  string       `json:"website" db:"website"`
	Phone    string       `json:"phone" db:"phone"`

	WhatsAppNumber    string `json:"whatsappNumber" db:"whatsapp_number"`
	OrderNumberFormat string `json:"orderNumberFormat" db:"order_number_format"`

	DeliveryEnabled bool `json:"deliveryEnabled" db:"delivery_enabled"`
	PickupEnabled   bool `json:"pickupEnabled" db:"pickup_enabled"`
	DineInEnabled   bool `json:"dineInEnabled" db:"dine_in_enabled"`

	IsTemporarilyClosed bool   `json:"isTemporarilyClosed" db:"is_temporarily_closed"`
	ClosureReason       string `json:"closureReason" db:"closure_reason"`
	ClosureMessage      string `json:"closureMessage" db:"closure_message"`

	DeliveryFee         decimal.NullDecimal `json:"deliveryFee" db:"delivery_fee"`
	DeliveryRadius      *float64            `json:"deliveryRadius" db:"delivery_radius"`
	Address             string              `json:"address" db:"address"`
	Latitude            *float64            `json:"storeLatitude" db:"store_latitude"`
	Longitude           *float64            `json:"storeLongitude" db:"store_longitude"`
	EstimatedPickupTime string              `json:"estimatedPickupTime" db:"estimated_pickup_time"`

	DirectNotifications       bool   `json:"directNotifications" db:"direct_notifications"`
	EmailNotificationsEnabled bool   `json:"emailNotificationsEnabled" db:"email_notifications_enabled"`
	NotificationEmail         string `json:"notificationEmail" db:"notification_email"`
	PushNotificationsEnabled  bool   `json:"pushNotificationsEnabled" db:"push_notifications_enabled"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// Zones - активные зоны доставки по возрастанию maxDistance (заполняется хранилищем).
	Zones []DeliveryZone `json:"deliveryZones" db:"-"`
}

// IsRetail сообщает, использует ли бизнес почтовые тарифы вместо зон.
func (b *Business) IsRetail() bool {
	return b.Type == BusinessRetail
}

// HasCoordinates сообщает, заданы ли координаты магазина.
func (b *Business) HasCoordinates() bool {
	return b.Latitude != nil && b.Longitude != nil
}

// SupportsFulfillment проверяет, включен ли на бизнесе данный способ получения заказа.
func (b *Business) SupportsFulfillment(t FulfillmentType) bool {
	switch t {
	case FulfillmentDelivery:
		return b.DeliveryEnabled
	case FulfillmentPickup:
		return b.PickupEnabled
	case FulfillmentDineIn:
		return b.DineInEnabled
	default:
		return false
	}
}

// DeliveryZone - дистанционная зона доставки с фиксированной ценой.
type DeliveryZone struct {
	ID          string          `json:"id" db:"id"`
	BusinessID  string          `json:"-" db:"business_id"`
	Name        string          `json:"name" db:"name"`
	MaxDistance float64         `json:"maxDistance" db:"max_distance"`
	Fee         decimal.Decimal `json:"fee" db:"fee"`
	IsActive    bool            `json:"isActive" db:"is_active"`
}

// Postal - почтовый перевозчик.
type Postal struct {
	ID    string        `json:"id" db:"id"`
	Name  string        `json:"name" db:"name"`
	Names LocalizedText `json:"names" db:"names"`
}

// DisplayName возвращает название перевозчика на языке бизнеса.
func (p Postal) DisplayName(language string) string {
	if name := p.Names.Get(language); name != "" {
		return name
	}
	return p.Name
}

// PostalPricing - тариф почтовой доставки RETAIL-бизнеса.
type PostalPricing struct {
	ID           string          `json:"id" db:"id"`
	BusinessID   string          `json:"businessId" db:"business_id"`
	PostalID     string          `json:"postalId" db:"postal_id"`
	Price        decimal.Decimal `json:"price" db:"price"`
	DeliveryTime LocalizedText   `json:"deliveryTime" db:"delivery_time"`
	DeletedAt    *time.Time      `json:"-" db:"deleted_at"`
	Postal       Postal          `json:"postal" db:"postal"`
}
