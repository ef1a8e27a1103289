// Package generator создает правдоподобные заказы витрины для нагрузочного продюсера и тестов.
package generator

import (
	"fmt"
	"time"

	"storefront/internal/geo"
	"storefront/internal/orders"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
)

// Delivery - параметры магазина для заказов с доставкой. Fee должен совпадать
// с тем, что насчитает сервер, иначе заказ будет отклонен.
type Delivery struct {
	StoreLat float64
	StoreLng float64
	RadiusKm float64
	Fee      decimal.Decimal
}

// Options описывает магазин, под который генерируются заказы.
type Options struct {
	ProductIDs []string
	// Delivery == nil - только самовывоз и заказы в зале.
	Delivery *Delivery
}

// Generator - источник случайных заказов. Не потокобезопасен.
type Generator struct {
	faker *gofakeit.Faker
	opts  Options
}

// New создает генератор. seed == 0 выбирает случайное зерно.
func New(seed int64, opts Options) (*Generator, error) {
	if len(opts.ProductIDs) == 0 {
		return nil, fmt.Errorf("не задан ни один товар")
	}
	return &Generator{faker: gofakeit.New(seed), opts: opts}, nil
}

// NewOrder создает и возвращает один случайный запрос на создание заказа.
func (g *Generator) NewOrder() *orders.CreateOrderRequest {
	f := g.faker

	req := &orders.CreateOrderRequest{
		CustomerName:  f.Name(),
		CustomerPhone: "+355 69 " + f.Numerify("### ####"),
		PaymentMethod: f.RandomString([]string{"CASH", "CARD"}),
	}
	if f.Bool() {
		req.CustomerEmail = f.Email()
	}
	if f.Number(1, 4) == 1 {
		req.SpecialInstructions = f.Sentence(6)
	}

	// 1. Состав заказа
	subtotal := decimal.Zero
	itemCount := f.Number(1, 4)
	for i := 0; i < itemCount; i++ {
		price := decimal.NewFromInt(int64(f.Number(150, 2500))).Shift(-2)
		quantity := f.Number(1, 3)
		req.Items = append(req.Items, orders.ItemRequest{
			ProductID: f.RandomString(g.opts.ProductIDs),
			Quantity:  quantity,
			Price:     price,
		})
		subtotal = subtotal.Add(price.Mul(decimal.NewFromInt(int64(quantity))))
	}
	req.Subtotal = subtotal

	// 2. Способ получения
	types := []string{orders.DeliveryTypePickup, orders.DeliveryTypeDineIn}
	if g.opts.Delivery != nil {
		types = append(types, orders.DeliveryTypeDelivery, orders.DeliveryTypeDelivery)
	}
	req.DeliveryType = f.RandomString(types)

	switch req.DeliveryType {
	case orders.DeliveryTypeDelivery:
		g.fillDelivery(req)
	case orders.DeliveryTypePickup:
		at := time.Now().Add(time.Duration(f.Number(15, 120)) * time.Minute).UTC().Truncate(time.Minute)
		req.DeliveryTime = &at
	}

	req.Total = req.Subtotal.Add(req.DeliveryFee)
	return req
}

// fillDelivery выбирает адрес в пределах радиуса доставки магазина.
func (g *Generator) fillDelivery(req *orders.CreateOrderRequest) {
	f := g.faker
	d := g.opts.Delivery

	addr := f.Address()
	req.DeliveryAddress = fmt.Sprintf("%s, %s, %s", addr.Street, addr.City, addr.Zip)
	req.City = addr.City
	req.PostalCode = addr.Zip

	// Градус широты ~111 км; берем точку внутри половины радиуса, чтобы не упереться в границу.
	maxDeg := d.RadiusKm / 2 / 111
	lat := d.StoreLat + f.Float64Range(-maxDeg, maxDeg)
	lng := d.StoreLng + f.Float64Range(-maxDeg, maxDeg)
	if geo.DistanceKm(geo.Point(d.StoreLat, d.StoreLng), geo.Point(lat, lng)) > d.RadiusKm {
		lat, lng = d.StoreLat, d.StoreLng
	}
	req.Latitude = &lat
	req.Longitude = &lng
	req.DeliveryFee = d.Fee
}
