package pricing

import (
	"context"
	"sort"

	"storefront/internal/apperr"
	"storefront/internal/geo"
	"storefront/internal/model"

	"github.com/shopspring/decimal"
)

// ZoneDistanceStrategy считает расстояние магазин-клиент и подбирает зону.
type ZoneDistanceStrategy struct{}

func (ZoneDistanceStrategy) Name() string { return "zone_distance" }

func (ZoneDistanceStrategy) Quote(_ context.Context, business *model.Business, req Request) (Quote, error) {
	if business.DeliveryRadius == nil || *business.DeliveryRadius <= 0 {
		return Quote{}, apperr.ConfigMissing("delivery radius is not configured")
	}

	// Без адреса магазина расстояние не считается, работает только фиксированная цена.
	if business.Address == "" {
		if !business.DeliveryFee.Valid {
			return Quote{}, apperr.ConfigMissing("delivery fee is not configured")
		}
		return flatQuote(business.DeliveryFee.Decimal, 0)
	}

	if !business.HasCoordinates() {
		return Quote{}, apperr.ConfigMissing("store coordinates are not configured")
	}
	if req.CustomerLat == nil || req.CustomerLng == nil {
		return Quote{}, apperr.Validation("customer coordinates are required for delivery")
	}

	distance := geo.DistanceKm(
		geo.Point(*business.Latitude, *business.Longitude),
		geo.Point(*req.CustomerLat, *req.CustomerLng),
	)
	if distance > *business.DeliveryRadius {
		return Quote{}, apperr.OutOfRange("address is %.2f km away, delivery radius is %.2f km",
			geo.Round2(distance), *business.DeliveryRadius)
	}

	if len(business.Zones) == 0 {
		if !business.DeliveryFee.Valid {
			return Quote{}, apperr.ConfigMissing("delivery fee is not configured")
		}
		return flatQuote(business.DeliveryFee.Decimal, distance)
	}

	zone, err := SelectZone(business.Zones, distance)
	if err != nil {
		return Quote{}, err
	}
	if zone.Fee.IsNegative() {
		return Quote{}, apperr.ConfigMissing("delivery zone %q has an invalid fee", zone.Name)
	}

	return Quote{Fee: zone.Fee, Zone: zone.Name, DistanceKm: geo.Round2(distance)}, nil
}

// SelectZone возвращает первую зону (по возрастанию maxDistance), граница которой
// не меньше расстояния. Если таких нет, берется самая дальняя и заказ отклоняется.
func SelectZone(zones []model.DeliveryZone, distance float64) (model.DeliveryZone, error) {
	sorted := make([]model.DeliveryZone, 0, len(zones))
	for _, z := range zones {
		if z.IsActive {
			sorted = append(sorted, z)
		}
	}
	if len(sorted) == 0 {
		return model.DeliveryZone{}, apperr.ConfigMissing("no active delivery zones")
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MaxDistance < sorted[j].MaxDistance
	})

	for _, z := range sorted {
		if z.MaxDistance >= distance {
			return z, nil
		}
	}

	farthest := sorted[len(sorted)-1]
	return model.DeliveryZone{}, apperr.OutOfRange("address is %.2f km away, farthest zone covers %.2f km",
		geo.Round2(distance), farthest.MaxDistance)
}

func flatQuote(fee decimal.Decimal, distance float64) (Quote, error) {
	if fee.IsNegative() {
		return Quote{}, apperr.ConfigMissing("delivery fee is not configured")
	}
	label := LabelStandardDelivery
	if fee.IsZero() {
		label = LabelFreeDelivery
	}
	return Quote{Fee: fee, Zone: label, DistanceKm: geo.Round2(distance)}, nil
}
