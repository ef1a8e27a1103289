// Package pricing рассчитывает стоимость доставки заказа.
//
// Для каждого бизнеса выбирается ровно одна стратегия: почтовые тарифы для
// RETAIL, зоны по расстоянию для всех остальных. Фиксированная цена бизнеса
// используется, когда зоны не настроены.
package pricing

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/apperr"
	"storefront/internal/database"
	"storefront/internal/model"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	LabelStandardDelivery = "Standard Delivery"
	LabelFreeDelivery     = "Free Delivery"
)

// FeeTolerance - допустимое расхождение между ценой клиента и сервера.
var FeeTolerance = decimal.RequireFromString("0.01")

// Quote - результат расчета: цена, название зоны (или перевозчика) и расстояние в км.
type Quote struct {
	Fee        decimal.Decimal `json:"fee"`
	Zone       string          `json:"zone"`
	DistanceKm float64         `json:"distance"`
}

// Request - данные клиента для расчета: координаты или выбранный почтовый тариф.
type Request struct {
	CustomerLat     *float64
	CustomerLng     *float64
	PostalPricingID string
}

// Strategy рассчитывает цену доставки для уже проверенного бизнеса.
type Strategy interface {
	Name() string
	Quote(ctx context.Context, business *model.Business, req Request) (Quote, error)
}

// PostalPricingStore - часть хранилища, нужная почтовой стратегии.
type PostalPricingStore interface {
	GetPostalPricing(ctx context.Context, id string) (*model.PostalPricing, error)
}

// Resolver проверяет состояние бизнеса и делегирует расчет стратегии.
type Resolver struct {
	zones  Strategy
	postal Strategy
	tracer trace.Tracer
}

// NewResolver создает Resolver с двумя стратегиями.
func NewResolver(store PostalPricingStore) *Resolver {
	return &Resolver{
		zones:  ZoneDistanceStrategy{},
		postal: PostalTableStrategy{store: store},
		tracer: otel.Tracer("pricing-resolver"),
	}
}

// StrategyFor выбирает стратегию один раз для бизнеса.
func (r *Resolver) StrategyFor(business *model.Business) Strategy {
	if business.IsRetail() {
		return r.postal
	}
	return r.zones
}

// Resolve возвращает авторитетную стоимость доставки.
func (r *Resolver) Resolve(ctx context.Context, business *model.Business, req Request) (Quote, error) {
	ctx, span := r.tracer.Start(ctx, "Pricing.Resolve")
	defer span.End()

	if business == nil {
		return Quote{}, apperr.NotFound("business not found")
	}
	if business.IsTemporarilyClosed {
		return Quote{}, apperr.BusinessClosed(business.ClosureReason, business.ClosureMessage)
	}
	if !business.DeliveryEnabled {
		return Quote{}, apperr.DeliveryDisabled()
	}

	strategy := r.StrategyFor(business)
	span.SetAttributes(attribute.String("pricing.strategy", strategy.Name()))

	quote, err := strategy.Quote(ctx, business, req)
	if err != nil {
		span.RecordError(err)
		return Quote{}, err
	}

	span.SetAttributes(
		attribute.String("pricing.fee", quote.Fee.StringFixed(2)),
		attribute.Float64("pricing.distance_km", quote.DistanceKm),
	)
	return quote, nil
}

// CheckFee сверяет цену клиента с серверной: разница до 0.01 включительно допустима.
func CheckFee(expected, submitted decimal.Decimal) error {
	if expected.Sub(submitted).Abs().GreaterThan(FeeTolerance) {
		return apperr.FeeMismatch(expected.StringFixed(2), submitted.StringFixed(2))
	}
	return nil
}

// PostalTableStrategy берет цену выбранного клиентом почтового тарифа (только RETAIL).
type PostalTableStrategy struct {
	store PostalPricingStore
}

func (PostalTableStrategy) Name() string { return "postal" }

func (s PostalTableStrategy) Quote(ctx context.Context, business *model.Business, req Request) (Quote, error) {
	if req.PostalPricingID == "" {
		return Quote{}, apperr.Validation("postalPricingId is required for delivery")
	}

	pricing, err := s.store.GetPostalPricing(ctx, req.PostalPricingID)
	if errors.Is(err, database.ErrNotFound) {
		return Quote{}, apperr.ResourceNotFound("postal pricing %s not found", req.PostalPricingID)
	}
	if err != nil {
		return Quote{}, fmt.Errorf("не удалось загрузить почтовый тариф: %w", err)
	}
	if pricing.DeletedAt != nil || pricing.BusinessID != business.ID {
		return Quote{}, apperr.ResourceNotFound("postal pricing %s not found", req.PostalPricingID)
	}
	if pricing.Price.IsNegative() {
		return Quote{}, apperr.ConfigMissing("postal pricing has an invalid price")
	}

	return Quote{
		Fee:  pricing.Price,
		Zone: pricing.Postal.DisplayName(business.Language),
	}, nil
}
