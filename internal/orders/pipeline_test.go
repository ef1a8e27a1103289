package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"storefront/internal/apperr"
	"storefront/internal/cache"
	"storefront/internal/customer"
	"storefront/internal/database"
	dbmocks "storefront/internal/database/mocks"
	"storefront/internal/inventory"
	"storefront/internal/model"
	"storefront/internal/notify"
	notifymocks "storefront/internal/notify/mocks"
	"storefront/internal/postcommit"
	"storefront/internal/pricing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type fakeReporter struct {
	mu         sync.Mutex
	operations []string
}

func (r *fakeReporter) Report(_ context.Context, operation string, _ error, _ ...zap.Field) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.operations = append(r.operations, operation)
}

type fakePublisher struct {
	events []OrderEvent
	err    error
}

func (f *fakePublisher) PublishOrderEvent(_ context.Context, e OrderEvent) error {
	f.events = append(f.events, e)
	return f.err
}

type fixture struct {
	store    *dbmocks.MockStorage
	chat     *notifymocks.MockChatSender
	reporter *fakeReporter
	events   *fakePublisher
	cache    cache.OrderCache
	pipeline *Pipeline
}

var fixedNow = time.UnixMilli(1760000123456)

// newFixture собирает конвейер на моках хранилища и отправителей с синхронными фоновыми задачами.
func newFixture(t *testing.T, chatConfigured bool) *fixture {
	ctrl := gomock.NewController(t)
	store := dbmocks.NewMockStorage(ctrl)

	email := notifymocks.NewMockEmailSender(ctrl)
	chat := notifymocks.NewMockChatSender(ctrl)
	push := notifymocks.NewMockPushSender(ctrl)
	email.EXPECT().Configured().Return(false).AnyTimes()
	chat.EXPECT().Configured().Return(chatConfigured).AnyTimes()
	push.EXPECT().Configured().Return(false).AnyTimes()

	reporter := &fakeReporter{}
	events := &fakePublisher{}
	orderCache := cache.NewLRUCache(10)
	formatter := notify.NewFormatter(notify.DefaultPhrasebook(), "https://shop.example.com")

	p := NewPipeline(Deps{
		Store:      store,
		Pricing:    pricing.NewResolver(store),
		Customers:  customer.NewResolver(store, nil),
		Ledger:     inventory.NewLedger(store, nil),
		Formatter:  formatter,
		Dispatcher: notify.NewDispatcher(email, chat, push, formatter, reporter, nil),
		Scheduler:  postcommit.NewSyncScheduler(reporter),
		Cache:      orderCache,
		Events:     events,
		Numbers:    &NumberGenerator{now: func() time.Time { return fixedNow }, random: func(int) int { return 7 }},
	})
	p.newID = func() string { return "order-1" }
	p.now = func() time.Time { return fixedNow }

	return &fixture{store: store, chat: chat, reporter: reporter, events: events, cache: orderCache, pipeline: p}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
func ptrF(f float64) *float64 { return &f }

func helperRestaurant() *model.Business {
	radius := 10.0
	return &model.Business{
		ID: "biz-rest", Slug: "pizza-roma", Name: "Pizza Roma", Type: model.BusinessRestaurant,
		Currency: "EUR", Language: "en", OrderNumberFormat: "ORD-{number}",
		WhatsAppNumber:  "+355 69 000 0000",
		DeliveryEnabled: true, PickupEnabled: true,
		DeliveryRadius: &radius,
		Address:        "Rruga e Kavajes 1, Tirana",
		Latitude:       ptrF(41.33), Longitude: ptrF(19.82),
		Zones: []model.DeliveryZone{
			{ID: "z1", Name: "Zone 1", MaxDistance: 2, Fee: dec("2"), IsActive: true},
			{ID: "z2", Name: "Zone 2", MaxDistance: 5, Fee: dec("4"), IsActive: true},
		},
	}
}

func helperRetail() *model.Business {
	return &model.Business{
		ID: "biz-shop", Slug: "boutique", Name: "Boutique", Type: model.BusinessRetail,
		Currency: "EUR", Language: "en", OrderNumberFormat: "ORD-{number}",
		WhatsAppNumber:  "+355 69 000 0000",
		DeliveryEnabled: true,
	}
}

func helperProduct(businessID string) *model.Product {
	return &model.Product{ID: "p-1", BusinessID: businessID, Name: "Margherita", Price: dec("10"), Stock: 5, TrackInventory: true}
}

func helperDeliveryRequest() *CreateOrderRequest {
	return &CreateOrderRequest{
		CustomerName:    "Arta Hoxha",
		CustomerPhone:   "+355 69 123 4567",
		CustomerEmail:   "arta@example.com",
		DeliveryAddress: "Rruga Myslym Shyri 12, Tirana, AL",
		DeliveryType:    DeliveryTypeDelivery,
		PaymentMethod:   "CASH",
		Latitude:        ptrF(41.35),
		Longitude:       ptrF(19.80),
		Items: []ItemRequest{
			{ProductID: "p-1", Quantity: 2, Price: dec("10"), Modifiers: Modifiers{"extra-cheese"}},
		},
		Subtotal:    dec("20"),
		DeliveryFee: dec("4"),
		Total:       dec("24"),
	}
}

func TestCreateOrder_RetailPostalPricing(t *testing.T) {
	f := newFixture(t, false)
	business := helperRetail()

	req := helperDeliveryRequest()
	req.Latitude, req.Longitude = nil, nil
	req.PostalPricingID = "pp-1"
	req.DeliveryFee = dec("4.50")
	req.Total = dec("24.50")

	var saved *model.Order
	f.store.EXPECT().GetBusinessBySlug(gomock.Any(), "boutique").Return(business, nil)
	f.store.EXPECT().GetProduct(gomock.Any(), "p-1").Return(helperProduct(business.ID), nil).Times(2)
	f.store.EXPECT().GetPostalPricing(gomock.Any(), "pp-1").Return(&model.PostalPricing{
		ID: "pp-1", BusinessID: business.ID, Price: dec("4.50"),
		Postal: model.Postal{ID: "post-1", Name: "Posta Shqiptare"},
	}, nil)
	f.store.EXPECT().ListCustomers(gomock.Any(), business.ID).Return(nil, nil)
	f.store.EXPECT().CreateCustomer(gomock.Any(), gomock.Any()).Return(nil)
	f.store.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, o *model.Order) error {
		saved = o
		return nil
	})
	f.store.EXPECT().DecrementProductStock(gomock.Any(), "p-1", 2).Return(model.StockChange{OldStock: 5, NewStock: 3}, nil)
	f.store.EXPECT().CreateInventoryActivity(gomock.Any(), gomock.Any()).Return(nil)

	resp, err := f.pipeline.CreateOrder(context.Background(), "boutique", req)
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, "order-1", resp.OrderID)
	assert.Equal(t, "ORD-123456007", resp.OrderNumber)
	assert.True(t, resp.CalculatedDeliveryFee.Equal(dec("4.50")))
	assert.Equal(t, "Posta Shqiptare", resp.DeliveryZone)
	assert.Equal(t, 0.0, resp.DeliveryDistance)
	assert.False(t, resp.DirectNotification)
	assert.True(t, strings.HasPrefix(resp.WhatsAppURL, "https://wa.me/355690000000?text="))
	assert.Contains(t, resp.WhatsAppURL, "Posta%20Shqiptare")

	require.NotNil(t, saved)
	assert.Equal(t, model.OrderStatusPending, saved.Status)
	assert.Equal(t, model.PaymentStatusPending, saved.PaymentStatus)
	assert.Equal(t, model.FulfillmentDelivery, saved.Type)
	require.NotNil(t, saved.PostalPricingID)
	assert.Equal(t, "pp-1", *saved.PostalPricingID)
	assert.Nil(t, saved.DeliveryLatitude)
	require.Len(t, saved.Items, 1)
	assert.Equal(t, []string{"extra-cheese"}, []string(saved.Items[0].Modifiers))

	cached, ok := f.cache.Get(context.Background(), cache.Key(business.ID, "ORD-123456007"))
	require.True(t, ok)
	assert.Equal(t, "order-1", cached.ID)

	require.Len(t, f.events.events, 1)
	assert.Equal(t, EventOrderCreated, f.events.events[0].Type)
	assert.Equal(t, 2, f.events.events[0].ItemCount)
	assert.Empty(t, f.reporter.operations)
}

func TestCreateOrder_RestaurantFeeMismatch(t *testing.T) {
	f := newFixture(t, false)
	business := helperRestaurant()

	req := helperDeliveryRequest()
	req.DeliveryFee = dec("2.00")

	f.store.EXPECT().GetBusinessBySlug(gomock.Any(), "pizza-roma").Return(business, nil)
	f.store.EXPECT().GetProduct(gomock.Any(), "p-1").Return(helperProduct(business.ID), nil)

	resp, err := f.pipeline.CreateOrder(context.Background(), "pizza-roma", req)
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, apperr.ErrFeeMismatch)

	appErr := apperr.From(err)
	assert.Equal(t, 400, appErr.HTTPCode())
	assert.Equal(t, "4.00", appErr.Details()["expected"])
	assert.Equal(t, "2.00", appErr.Details()["submitted"])
	assert.Empty(t, f.events.events)
}

func TestCreateOrder_RestaurantDirectNotification(t *testing.T) {
	f := newFixture(t, true)
	business := helperRestaurant()
	business.DirectNotifications = true

	existing := model.Customer{ID: "cust-1", BusinessID: business.ID, Name: "Arta", Phone: "0691234567"}
	updated := existing
	updated.Name = "Arta Hoxha"

	f.store.EXPECT().GetBusinessBySlug(gomock.Any(), "pizza-roma").Return(business, nil)
	f.store.EXPECT().GetProduct(gomock.Any(), "p-1").Return(helperProduct(business.ID), nil).Times(2)
	f.store.EXPECT().ListCustomers(gomock.Any(), business.ID).Return([]model.Customer{existing}, nil)
	f.store.EXPECT().UpdateCustomer(gomock.Any(), "cust-1", gomock.Any()).Return(nil)
	f.store.EXPECT().GetCustomer(gomock.Any(), "cust-1").Return(&updated, nil)
	f.store.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, o *model.Order) error {
		assert.Equal(t, "cust-1", o.CustomerID)
		assert.True(t, o.DeliveryFee.Equal(dec("4")))
		return nil
	})
	f.store.EXPECT().DecrementProductStock(gomock.Any(), "p-1", 2).Return(model.StockChange{OldStock: 5, NewStock: 3}, nil)
	f.store.EXPECT().CreateInventoryActivity(gomock.Any(), gomock.Any()).Return(nil)
	f.chat.EXPECT().SendText(gomock.Any(), "+355 69 000 0000", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, body string) error {
			assert.Contains(t, body, "Delivery (Zone 2): €4.00")
			assert.Contains(t, body, "Map: https://www.google.com/maps?q=41.350000,19.800000")
			return nil
		})

	resp, err := f.pipeline.CreateOrder(context.Background(), "pizza-roma", helperDeliveryRequest())
	require.NoError(t, err)

	assert.True(t, resp.DirectNotification)
	assert.Equal(t, "Your order has been sent to Pizza Roma.", resp.Message)
	assert.Empty(t, resp.WhatsAppURL)
	assert.Equal(t, "Zone 2", resp.DeliveryZone)
	assert.InDelta(t, 2.78, resp.DeliveryDistance, 0.05)
	assert.True(t, resp.CalculatedDeliveryFee.Equal(dec("4")))
}

func TestCreateOrder_PostCommitFailuresDoNotFailResponse(t *testing.T) {
	f := newFixture(t, false)
	f.events.err = errors.New("broker down")
	business := helperRestaurant()

	req := helperDeliveryRequest()
	req.DeliveryType = DeliveryTypePickup
	req.DeliveryAddress = ""
	req.DeliveryFee = decimal.Zero

	f.store.EXPECT().GetBusinessBySlug(gomock.Any(), "pizza-roma").Return(business, nil)
	f.store.EXPECT().GetProduct(gomock.Any(), "p-1").Return(helperProduct(business.ID), nil).Times(2)
	f.store.EXPECT().ListCustomers(gomock.Any(), business.ID).Return(nil, nil)
	f.store.EXPECT().CreateCustomer(gomock.Any(), gomock.Any()).Return(nil)
	f.store.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).Return(nil)
	f.store.EXPECT().DecrementProductStock(gomock.Any(), "p-1", 2).Return(model.StockChange{}, errors.New("deadlock"))

	resp, err := f.pipeline.CreateOrder(context.Background(), "pizza-roma", req)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.True(t, resp.CalculatedDeliveryFee.IsZero())
	assert.Empty(t, resp.DeliveryZone)
	assert.ElementsMatch(t, []string{"inventory.apply_order_sale", "events.order_created"}, f.reporter.operations)
}

func TestCreateOrder_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		business func() *model.Business
		mutate   func(r *CreateOrderRequest)
		setup    func(f *fixture, b *model.Business)
		wantErr  error
		wantMsg  string
	}{
		{
			name:     "бизнес закрыт",
			business: func() *model.Business { b := helperRestaurant(); b.IsTemporarilyClosed = true; b.ClosureReason = "holiday"; return b },
			wantErr:  apperr.ErrBusinessClosed,
		},
		{
			name:     "нет имени клиента",
			business: helperRestaurant,
			mutate:   func(r *CreateOrderRequest) { r.CustomerName = "  " },
			wantErr:  apperr.ErrValidation,
			wantMsg:  "customerName is required",
		},
		{
			name:     "пустой список товаров",
			business: helperRestaurant,
			mutate:   func(r *CreateOrderRequest) { r.Items = nil },
			wantErr:  apperr.ErrValidation,
			wantMsg:  "items is required",
		},
		{
			name:     "самовывоз выключен",
			business: func() *model.Business { b := helperRestaurant(); b.PickupEnabled = false; return b },
			mutate:   func(r *CreateOrderRequest) { r.DeliveryType = DeliveryTypePickup },
			wantErr:  apperr.ErrServiceDisabled,
		},
		{
			name:     "доставка выключена",
			business: func() *model.Business { b := helperRestaurant(); b.DeliveryEnabled = false; return b },
			wantErr:  apperr.ErrDeliveryDisabled,
		},
		{
			name:     "доставка без координат",
			business: helperRestaurant,
			mutate:   func(r *CreateOrderRequest) { r.Latitude = nil },
			wantErr:  apperr.ErrValidation,
			wantMsg:  "latitude and longitude are required for delivery",
		},
		{
			name:     "RETAIL без почтового тарифа",
			business: helperRetail,
			wantErr:  apperr.ErrValidation,
			wantMsg:  "postalPricingId is required for delivery",
		},
		{
			name:     "товар не найден",
			business: helperRestaurant,
			setup: func(f *fixture, _ *model.Business) {
				f.store.EXPECT().GetProduct(gomock.Any(), "p-1").Return(nil, fmt.Errorf("обертка: %w", database.ErrNotFound))
			},
			wantErr: apperr.ErrResourceNotFound,
			wantMsg: "product p-1 not found",
		},
		{
			name:     "товар другого бизнеса",
			business: helperRestaurant,
			setup: func(f *fixture, _ *model.Business) {
				f.store.EXPECT().GetProduct(gomock.Any(), "p-1").Return(helperProduct("other"), nil)
			},
			wantErr: apperr.ErrResourceNotFound,
		},
		{
			name:     "недостаточно остатка варианта",
			business: helperRestaurant,
			mutate:   func(r *CreateOrderRequest) { r.Items[0].VariantID = "v-1"; r.Items[0].Quantity = 3 },
			setup: func(f *fixture, b *model.Business) {
				f.store.EXPECT().GetProduct(gomock.Any(), "p-1").Return(helperProduct(b.ID), nil)
				f.store.EXPECT().GetVariant(gomock.Any(), "v-1").Return(&model.ProductVariant{ID: "v-1", ProductID: "p-1", Name: "Large", Stock: 1}, nil)
			},
			wantErr: apperr.ErrInsufficientStock,
			wantMsg: "insufficient stock for Margherita (Large): available 1, requested 3",
		},
		{
			name:     "вне зоны доставки",
			business: helperRestaurant,
			mutate:   func(r *CreateOrderRequest) { r.Latitude, r.Longitude = ptrF(41.40), ptrF(19.82) },
			setup: func(f *fixture, b *model.Business) {
				f.store.EXPECT().GetProduct(gomock.Any(), "p-1").Return(helperProduct(b.ID), nil)
			},
			wantErr: apperr.ErrOutOfRange,
		},
		{
			name:     "короткий телефон",
			business: helperRestaurant,
			mutate:   func(r *CreateOrderRequest) { r.CustomerPhone = "12345" },
			setup: func(f *fixture, b *model.Business) {
				f.store.EXPECT().GetProduct(gomock.Any(), "p-1").Return(helperProduct(b.ID), nil)
			},
			wantErr: apperr.ErrValidation,
			wantMsg: "customerPhone must contain at least 10 digits",
		},
		{
			name:     "конфликт номера заказа",
			business: helperRestaurant,
			setup: func(f *fixture, b *model.Business) {
				f.store.EXPECT().GetProduct(gomock.Any(), "p-1").Return(helperProduct(b.ID), nil)
				f.store.EXPECT().ListCustomers(gomock.Any(), b.ID).Return(nil, nil)
				f.store.EXPECT().CreateCustomer(gomock.Any(), gomock.Any()).Return(nil)
				f.store.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).Return(fmt.Errorf("вставка: %w", database.ErrConflict))
			},
			wantErr: apperr.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, false)
			b := tt.business()
			f.store.EXPECT().GetBusinessBySlug(gomock.Any(), b.Slug).Return(b, nil)
			if tt.setup != nil {
				tt.setup(f, b)
			}

			req := helperDeliveryRequest()
			if tt.mutate != nil {
				tt.mutate(req)
			}

			resp, err := f.pipeline.CreateOrder(context.Background(), b.Slug, req)
			require.Error(t, err)
			assert.Nil(t, resp)
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, apperr.From(err).Message())
			}
			assert.Empty(t, f.events.events)
		})
	}
}

func TestCreateOrder_UnknownStoreAndInternalErrors(t *testing.T) {
	f := newFixture(t, false)
	f.store.EXPECT().GetBusinessBySlug(gomock.Any(), "missing").Return(nil, database.ErrNotFound)

	_, err := f.pipeline.CreateOrder(context.Background(), "missing", helperDeliveryRequest())
	require.Error(t, err)
	assert.Equal(t, 404, apperr.From(err).HTTPCode())

	f.store.EXPECT().GetBusinessBySlug(gomock.Any(), "broken").Return(nil, errors.New("connection refused"))
	_, err = f.pipeline.CreateOrder(context.Background(), "broken", helperDeliveryRequest())
	require.Error(t, err)
	assert.Equal(t, 500, apperr.From(err).HTTPCode())
	assert.Equal(t, "internal server error", apperr.From(err).Message())
}

func TestQuoteDeliveryFee(t *testing.T) {
	f := newFixture(t, false)
	f.store.EXPECT().GetBusinessBySlug(gomock.Any(), "pizza-roma").Return(helperRestaurant(), nil)

	resp, err := f.pipeline.QuoteDeliveryFee(context.Background(), "pizza-roma", &QuoteRequest{
		CustomerLat: ptrF(41.35), CustomerLng: ptrF(19.80),
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.True(t, resp.DeliveryFee.Equal(dec("4")))
	assert.Equal(t, "Zone 2", resp.Zone)
	assert.InDelta(t, 2.78, resp.Distance, 0.05)
}

func TestQuoteDeliveryFee_Errors(t *testing.T) {
	f := newFixture(t, false)

	_, err := f.pipeline.QuoteDeliveryFee(context.Background(), "pizza-roma", &QuoteRequest{CustomerLat: ptrF(123)})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	f.store.EXPECT().GetBusinessBySlug(gomock.Any(), "missing").Return(nil, database.ErrNotFound)
	_, err = f.pipeline.QuoteDeliveryFee(context.Background(), "missing", &QuoteRequest{})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	closed := helperRestaurant()
	closed.IsTemporarilyClosed = true
	f.store.EXPECT().GetBusinessBySlug(gomock.Any(), "pizza-roma").Return(closed, nil)
	_, err = f.pipeline.QuoteDeliveryFee(context.Background(), "pizza-roma", &QuoteRequest{CustomerLat: ptrF(41.35), CustomerLng: ptrF(19.80)})
	assert.ErrorIs(t, err, apperr.ErrBusinessClosed)
}

func TestGetOrder_CacheAside(t *testing.T) {
	f := newFixture(t, false)
	business := helperRestaurant()
	order := &model.Order{ID: "o-9", BusinessID: business.ID, OrderNumber: "ORD-1"}

	f.store.EXPECT().GetBusinessBySlug(gomock.Any(), "pizza-roma").Return(business, nil).Times(2)
	f.store.EXPECT().GetOrderByNumber(gomock.Any(), business.ID, "ORD-1").Return(order, nil).Times(1)

	got, err := f.pipeline.GetOrder(context.Background(), "pizza-roma", "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, "o-9", got.ID)

	got, err = f.pipeline.GetOrder(context.Background(), "pizza-roma", "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, "o-9", got.ID)
}

func TestGetOrder_NotFound(t *testing.T) {
	f := newFixture(t, false)
	business := helperRestaurant()
	f.store.EXPECT().GetBusinessBySlug(gomock.Any(), "pizza-roma").Return(business, nil)
	f.store.EXPECT().GetOrderByNumber(gomock.Any(), business.ID, "ORD-404").Return(nil, database.ErrNotFound)

	_, err := f.pipeline.GetOrder(context.Background(), "pizza-roma", "ORD-404")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, "order ORD-404 not found", apperr.From(err).Message())
}
