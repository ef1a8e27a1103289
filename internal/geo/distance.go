// Package geo считает расстояния между точками на поверхности Земли.
package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// EarthRadiusKm - средний радиус Земли, используемый в расчетах зон доставки.
const EarthRadiusKm = 6371.0

// Point строит orb.Point из широты и долготы (orb хранит [lng, lat]).
func Point(lat, lng float64) orb.Point {
	return orb.Point{lng, lat}
}

// DistanceKm возвращает расстояние по большому кругу (формула гаверсинусов) в километрах.
func DistanceKm(a, b orb.Point) float64 {
	lat1 := a.Lat() * math.Pi / 180
	lat2 := b.Lat() * math.Pi / 180
	dLat := (b.Lat() - a.Lat()) * math.Pi / 180
	dLng := (b.Lon() - a.Lon()) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Round2 округляет расстояние до сотых для отображения.
func Round2(km float64) float64 {
	return math.Round(km*100) / 100
}
