package orders

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"storefront/internal/apperr"
	"storefront/internal/model"
	"storefront/internal/validator"

	"github.com/shopspring/decimal"
)

// Значения deliveryType в запросе.
const (
	DeliveryTypeDelivery = "delivery"
	DeliveryTypePickup   = "pickup"
	DeliveryTypeDineIn   = "dineIn"
)

// CreateOrderRequest - тело запроса на создание заказа с витрины.
type CreateOrderRequest struct {
	CustomerName        string     `json:"customerName" validate:"notblank"`
	CustomerPhone       string     `json:"customerPhone" validate:"notblank"`
	CustomerEmail       string     `json:"customerEmail,omitempty" validate:"omitempty,email"`
	DeliveryAddress     string     `json:"deliveryAddress,omitempty"`
	DeliveryType        string     `json:"deliveryType" validate:"required,oneof=delivery pickup dineIn"`
	DeliveryTime        *time.Time `json:"deliveryTime,omitempty"`
	PaymentMethod       string     `json:"paymentMethod" validate:"notblank"`
	SpecialInstructions string     `json:"specialInstructions,omitempty"`
	Latitude            *float64   `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude           *float64   `json:"longitude,omitempty" validate:"omitempty,longitude"`
	PostalPricingID     string     `json:"postalPricingId,omitempty"`
	CountryCode         string     `json:"countryCode,omitempty"`
	City                string     `json:"city,omitempty"`
	PostalCode          string     `json:"postalCode,omitempty"`

	Items []ItemRequest `json:"items" validate:"required,min=1,dive"`

	Subtotal    decimal.Decimal `json:"subtotal" validate:"gte=0"`
	DeliveryFee decimal.Decimal `json:"deliveryFee" validate:"gte=0"`
	Tax         decimal.Decimal `json:"tax" validate:"gte=0"`
	Discount    decimal.Decimal `json:"discount" validate:"gte=0"`
	Total       decimal.Decimal `json:"total" validate:"gte=0"`
}

// ItemRequest - строка заказа.
type ItemRequest struct {
	ProductID     string              `json:"productId" validate:"notblank"`
	VariantID     string              `json:"variantId,omitempty"`
	Quantity      int                 `json:"quantity" validate:"gt=0"`
	Price         decimal.Decimal     `json:"price" validate:"gte=0"`
	OriginalPrice decimal.NullDecimal `json:"originalPrice"`
	Modifiers     Modifiers           `json:"modifiers,omitempty"`
}

// Modifiers - идентификаторы модификаторов. Витрина присылает либо строки,
// либо объекты с полем id.
type Modifiers []string

func (m *Modifiers) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("modifiers must be an array: %w", err)
	}

	ids := make([]string, 0, len(raw))
	for i, item := range raw {
		var id string
		if err := json.Unmarshal(item, &id); err == nil {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
			continue
		}

		var obj struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(item, &obj); err != nil || strings.TrimSpace(obj.ID) == "" {
			return fmt.Errorf("modifiers[%d] must be an id or an object with id", i)
		}
		ids = append(ids, strings.TrimSpace(obj.ID))
	}

	*m = ids
	return nil
}

// Fulfillment переводит deliveryType запроса в тип получения заказа.
func (r *CreateOrderRequest) Fulfillment() model.FulfillmentType {
	switch r.DeliveryType {
	case DeliveryTypeDelivery:
		return model.FulfillmentDelivery
	case DeliveryTypePickup:
		return model.FulfillmentPickup
	case DeliveryTypeDineIn:
		return model.FulfillmentDineIn
	default:
		return model.FulfillmentType(strings.ToUpper(r.DeliveryType))
	}
}

// QuoteRequest - запрос расчета стоимости доставки без создания заказа.
type QuoteRequest struct {
	CustomerLat     *float64 `json:"customerLat,omitempty" validate:"omitempty,latitude"`
	CustomerLng     *float64 `json:"customerLng,omitempty" validate:"omitempty,longitude"`
	PostalPricingID string   `json:"postalPricingId,omitempty"`
}

// DecodeCreateOrder читает тело запроса. Неизвестные поля и лишние данные после
// объекта считаются ошибкой запроса.
func DecodeCreateOrder(body io.Reader) (*CreateOrderRequest, error) {
	var req CreateOrderRequest
	if err := decodeStrict(body, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// DecodeQuote читает тело запроса расчета доставки.
func DecodeQuote(body io.Reader) (*QuoteRequest, error) {
	var req QuoteRequest
	if err := decodeStrict(body, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func decodeStrict(body io.Reader, dst interface{}) error {
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Validation("request body is empty")
		}
		return apperr.Validation("invalid request body: %s", describeJSONError(err))
	}
	if dec.More() {
		return apperr.Validation("invalid request body: unexpected data after JSON object")
	}
	return nil
}

// DecodeCreateOrderBytes - вариант DecodeCreateOrder для уже прочитанного сообщения.
func DecodeCreateOrderBytes(data []byte) (*CreateOrderRequest, error) {
	return DecodeCreateOrder(bytes.NewReader(data))
}

func describeJSONError(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return fmt.Sprintf("field %s has wrong type", typeErr.Field)
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset)
	}
	return err.Error()
}

// validateShape проверяет теги структуры и превращает ошибку валидатора в ответ 400.
func validateShape(s interface{}) error {
	if err := validator.ValidateStruct(s); err != nil {
		msg, details := validator.Describe(err)
		return apperr.Validation("%s", msg).WithDetails(details)
	}
	return nil
}
