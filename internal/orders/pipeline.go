package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/address"
	"storefront/internal/apperr"
	"storefront/internal/cache"
	"storefront/internal/customer"
	"storefront/internal/database"
	"storefront/internal/inventory"
	"storefront/internal/metrics"
	"storefront/internal/model"
	"storefront/internal/notify"
	"storefront/internal/phone"
	"storefront/internal/postcommit"
	"storefront/internal/pricing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Store - операции хранилища, которые нужны самому конвейеру.
type Store interface {
	GetBusinessBySlug(ctx context.Context, slug string) (*model.Business, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	GetVariant(ctx context.Context, id string) (*model.ProductVariant, error)
	CreateOrder(ctx context.Context, order *model.Order) error
	GetOrderByNumber(ctx context.Context, businessID, orderNumber string) (*model.Order, error)
}

// Deps - зависимости конвейера. Events может быть nil.
type Deps struct {
	Store      Store
	Pricing    *pricing.Resolver
	Customers  *customer.Resolver
	Ledger     *inventory.Ledger
	Formatter  *notify.Formatter
	Dispatcher *notify.Dispatcher
	Scheduler  postcommit.Scheduler
	Cache      cache.OrderCache
	Events     EventPublisher
	Numbers    *NumberGenerator
	Logger     *zap.Logger
}

// Pipeline - реализация Service.
type Pipeline struct {
	store      Store
	pricing    *pricing.Resolver
	customers  *customer.Resolver
	ledger     *inventory.Ledger
	formatter  *notify.Formatter
	dispatcher *notify.Dispatcher
	scheduler  postcommit.Scheduler
	cache      cache.OrderCache
	events     EventPublisher
	numbers    *NumberGenerator
	logger     *zap.Logger
	tracer     trace.Tracer
	now        func() time.Time
	newID      func() string
}

func NewPipeline(d Deps) *Pipeline {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	numbers := d.Numbers
	if numbers == nil {
		numbers = NewNumberGenerator()
	}
	return &Pipeline{
		store:      d.Store,
		pricing:    d.Pricing,
		customers:  d.Customers,
		ledger:     d.Ledger,
		formatter:  d.Formatter,
		dispatcher: d.Dispatcher,
		scheduler:  d.Scheduler,
		cache:      d.Cache,
		events:     d.Events,
		numbers:    numbers,
		logger:     logger.Named("orders"),
		tracer:     otel.Tracer("order-pipeline"),
		now:        time.Now,
		newID:      func() string { return uuid.New().String() },
	}
}

// CreateOrder проходит все шаги приема заказа. До сохранения любая ошибка отклоняет
// заказ целиком; после сохранения ошибки фоновых задач до клиента не доходят.
func (p *Pipeline) CreateOrder(ctx context.Context, storeSlug string, req *CreateOrderRequest) (*CreateOrderResponse, error) {
	ctx, span := p.tracer.Start(ctx, "Orders.CreateOrder", trace.WithAttributes(attribute.String("store.slug", storeSlug)))
	defer span.End()

	resp, err := p.createOrder(ctx, storeSlug, req)
	if err != nil {
		code := apperr.From(err).ErrorCode()
		metrics.OrdersRejected.WithLabelValues(code).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, code)
		return nil, err
	}

	span.SetAttributes(attribute.String("order.id", resp.OrderID), attribute.String("order.number", resp.OrderNumber))
	return resp, nil
}

func (p *Pipeline) createOrder(ctx context.Context, storeSlug string, req *CreateOrderRequest) (*CreateOrderResponse, error) {
	if req == nil {
		return nil, apperr.Validation("request body is empty")
	}

	business, err := p.loadBusiness(ctx, storeSlug)
	if err != nil {
		return nil, err
	}
	if business.IsTemporarilyClosed {
		return nil, apperr.BusinessClosed(business.ClosureReason, business.ClosureMessage)
	}

	if err := validateShape(req); err != nil {
		return nil, err
	}
	fulfillment := req.Fulfillment()
	if err := checkFulfillment(business, fulfillment, req); err != nil {
		return nil, err
	}

	lines, items, err := p.checkItems(ctx, business, req.Items)
	if err != nil {
		return nil, err
	}

	var quote pricing.Quote
	if fulfillment == model.FulfillmentDelivery {
		quote, err = p.pricing.Resolve(ctx, business, pricing.Request{
			CustomerLat:     req.Latitude,
			CustomerLng:     req.Longitude,
			PostalPricingID: req.PostalPricingID,
		})
		if err != nil {
			return nil, err
		}
		if err := pricing.CheckFee(quote.Fee, req.DeliveryFee); err != nil {
			return nil, err
		}
	}

	if !phone.IsValid(req.CustomerPhone) {
		return nil, apperr.Validation("customerPhone must contain at least %d digits", phone.MinDigits)
	}

	hints := address.Hints{City: req.City, CountryCode: req.CountryCode, PostalCode: req.PostalCode}
	cust, err := p.customers.Resolve(ctx, business, customer.Input{
		Name:            req.CustomerName,
		Phone:           req.CustomerPhone,
		Email:           req.CustomerEmail,
		Fulfillment:     fulfillment,
		DeliveryAddress: req.DeliveryAddress,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		Hints:           hints,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка определения клиента: %w", err)
	}

	order := p.buildOrder(business, cust, req, fulfillment, quote, items)
	if err := p.store.CreateOrder(ctx, order); err != nil {
		if errors.Is(err, database.ErrConflict) {
			return nil, apperr.Conflict("order %s already exists, please try again", order.OrderNumber)
		}
		return nil, fmt.Errorf("не удалось сохранить заказ: %w", err)
	}

	// Заказ сохранен: дальше клиент всегда получает успешный ответ.
	metrics.OrdersCreated.WithLabelValues(string(business.Type), string(fulfillment)).Inc()
	p.cache.Set(ctx, cache.Key(business.ID, order.OrderNumber), order)
	p.logger.Info("заказ создан",
		zap.String("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.String("business_id", business.ID),
		zap.String("customer_id", cust.ID),
	)

	summary := notify.Summary{
		Business:      business,
		Order:         order,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Lines:         lines,
		DeliveryLabel: quote.Zone,
		DistanceKm:    quote.DistanceKm,
	}
	if fulfillment == model.FulfillmentDelivery {
		parsed := address.Parse(req.DeliveryAddress, req.Latitude, req.Longitude, hints)
		summary.Address = &parsed
	}
	text := p.formatter.Format(summary)

	direct := p.dispatcher.DirectAvailable(business)
	p.afterCommit(ctx, business, order, req.CustomerEmail, text)

	resp := &CreateOrderResponse{
		Success:               true,
		OrderID:               order.ID,
		OrderNumber:           order.OrderNumber,
		CalculatedDeliveryFee: quote.Fee,
		DeliveryZone:          quote.Zone,
		DeliveryDistance:      quote.DistanceKm,
		DirectNotification:    direct,
	}
	switch {
	case direct:
		resp.Message = p.dispatcher.Confirmation(business)
	case business.WhatsAppNumber != "":
		resp.WhatsAppURL = notify.DeepLink(business.WhatsAppNumber, text)
	}
	return resp, nil
}

func (p *Pipeline) loadBusiness(ctx context.Context, slug string) (*model.Business, error) {
	business, err := p.store.GetBusinessBySlug(ctx, slug)
	if errors.Is(err, database.ErrNotFound) {
		return nil, apperr.NotFound("store %s not found", slug)
	}
	if err != nil {
		return nil, fmt.Errorf("не удалось загрузить бизнес %s: %w", slug, err)
	}
	return business, nil
}

// checkFulfillment проверяет, что способ получения включен и для доставки есть нужные поля.
func checkFulfillment(business *model.Business, fulfillment model.FulfillmentType, req *CreateOrderRequest) error {
	if !business.SupportsFulfillment(fulfillment) {
		if fulfillment == model.FulfillmentDelivery {
			return apperr.DeliveryDisabled()
		}
		return apperr.ServiceDisabled("%s is not available for this business", req.DeliveryType)
	}
	if fulfillment != model.FulfillmentDelivery {
		return nil
	}

	if strings.TrimSpace(req.DeliveryAddress) == "" {
		return apperr.Validation("deliveryAddress is required for delivery")
	}
	if business.IsRetail() {
		if strings.TrimSpace(req.PostalPricingID) == "" {
			return apperr.Validation("postalPricingId is required for delivery")
		}
		return nil
	}
	if req.Latitude == nil || req.Longitude == nil {
		return apperr.Validation("latitude and longitude are required for delivery")
	}
	return nil
}

// checkItems загружает товары и варианты и строго проверяет остатки до создания заказа.
// Гонка между проверкой и списанием допустима: журнал остатков не уходит ниже нуля.
func (p *Pipeline) checkItems(ctx context.Context, business *model.Business, reqs []ItemRequest) ([]notify.Line, []model.OrderItem, error) {
	lines := make([]notify.Line, 0, len(reqs))
	items := make([]model.OrderItem, 0, len(reqs))

	for _, it := range reqs {
		product, err := p.store.GetProduct(ctx, it.ProductID)
		if errors.Is(err, database.ErrNotFound) || (err == nil && product.BusinessID != business.ID) {
			return nil, nil, apperr.ResourceNotFound("product %s not found", it.ProductID)
		}
		if err != nil {
			return nil, nil, fmt.Errorf("не удалось загрузить товар %s: %w", it.ProductID, err)
		}

		line := notify.Line{
			Name:      product.Name,
			Modifiers: it.Modifiers,
			Quantity:  it.Quantity,
			UnitPrice: it.Price,
		}
		item := model.OrderItem{
			ProductID:     product.ID,
			Quantity:      it.Quantity,
			Price:         it.Price,
			OriginalPrice: it.OriginalPrice,
			Modifiers:     pq.StringArray(it.Modifiers),
		}
		stockName, available := product.Name, product.Stock

		if it.VariantID != "" {
			variant, err := p.store.GetVariant(ctx, it.VariantID)
			if errors.Is(err, database.ErrNotFound) || (err == nil && variant.ProductID != product.ID) {
				return nil, nil, apperr.ResourceNotFound("variant %s not found", it.VariantID)
			}
			if err != nil {
				return nil, nil, fmt.Errorf("не удалось загрузить вариант %s: %w", it.VariantID, err)
			}
			variantID := variant.ID
			item.VariantID = &variantID
			line.Variant = variant.Name
			stockName, available = product.Name+" ("+variant.Name+")", variant.Stock
		}

		if product.TrackInventory && it.Quantity > available {
			return nil, nil, apperr.InsufficientStock(stockName, available, it.Quantity)
		}

		lines = append(lines, line)
		items = append(items, item)
	}
	return lines, items, nil
}

func (p *Pipeline) buildOrder(business *model.Business, cust *model.Customer, req *CreateOrderRequest,
	fulfillment model.FulfillmentType, quote pricing.Quote, items []model.OrderItem) *model.Order {
	order := &model.Order{
		ID:            p.newID(),
		BusinessID:    business.ID,
		CustomerID:    cust.ID,
		OrderNumber:   p.numbers.Next(business.OrderNumberFormat),
		Status:        model.OrderStatusPending,
		Type:          fulfillment,
		Subtotal:      req.Subtotal,
		DeliveryFee:   quote.Fee,
		Tax:           req.Tax,
		Discount:      req.Discount,
		Total:         req.Total,
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		PaymentStatus: model.PaymentStatusPending,
		DeliveryTime:  req.DeliveryTime,
		CreatedAt:     p.now().UTC(),
		Items:         items,
	}

	if fulfillment == model.FulfillmentDelivery {
		addr := strings.TrimSpace(req.DeliveryAddress)
		order.DeliveryAddress = &addr
		order.DeliveryLatitude = req.Latitude
		order.DeliveryLongitude = req.Longitude
		if business.IsRetail() {
			postalID := req.PostalPricingID
			order.PostalPricingID = &postalID
		}
	}
	if notes := strings.TrimSpace(req.SpecialInstructions); notes != "" {
		order.SpecialInstructions = &notes
	}
	return order
}

// afterCommit ставит независимые фоновые задачи: списание остатков, уведомления, событие.
func (p *Pipeline) afterCommit(ctx context.Context, business *model.Business, order *model.Order, customerEmail, text string) {
	fields := []zap.Field{
		zap.String("order_id", order.ID),
		zap.String("business_id", business.ID),
	}

	tasks := []postcommit.Task{
		{
			Name: "inventory.apply_order_sale",
			Run: func(ctx context.Context) error {
				return p.ledger.ApplyOrderSale(ctx, order.ID, business.ID, order.Items)
			},
		},
		{
			Name: "notify.dispatch",
			Run: func(ctx context.Context) error {
				p.dispatcher.Dispatch(ctx, notify.Message{
					Business:      business,
					Order:         order,
					CustomerEmail: customerEmail,
					Text:          text,
				})
				return nil
			},
		},
	}
	if p.events != nil {
		tasks = append(tasks, postcommit.Task{
			Name: "events.order_created",
			Run: func(ctx context.Context) error {
				return p.events.PublishOrderEvent(ctx, NewOrderCreatedEvent(business, order))
			},
		})
	}

	p.scheduler.Schedule(ctx, fields, tasks...)
}

// QuoteDeliveryFee считает доставку для чекаута без побочных эффектов.
func (p *Pipeline) QuoteDeliveryFee(ctx context.Context, storeSlug string, req *QuoteRequest) (*QuoteResponse, error) {
	ctx, span := p.tracer.Start(ctx, "Orders.QuoteDeliveryFee", trace.WithAttributes(attribute.String("store.slug", storeSlug)))
	defer span.End()

	strategy := "none"
	quote, err := func() (pricing.Quote, error) {
		if req == nil {
			req = &QuoteRequest{}
		}
		if err := validateShape(req); err != nil {
			return pricing.Quote{}, err
		}
		business, err := p.loadBusiness(ctx, storeSlug)
		if err != nil {
			return pricing.Quote{}, err
		}
		strategy = p.pricing.StrategyFor(business).Name()
		return p.pricing.Resolve(ctx, business, pricing.Request{
			CustomerLat:     req.CustomerLat,
			CustomerLng:     req.CustomerLng,
			PostalPricingID: req.PostalPricingID,
		})
	}()
	if err != nil {
		code := apperr.From(err).ErrorCode()
		metrics.FeeQuotes.WithLabelValues(strategy, code).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, code)
		return nil, err
	}

	metrics.FeeQuotes.WithLabelValues(strategy, "ok").Inc()
	return &QuoteResponse{
		Success:     true,
		DeliveryFee: quote.Fee,
		Zone:        quote.Zone,
		Distance:    quote.DistanceKm,
	}, nil
}

// GetOrder отдает заказ по номеру: сначала из кэша, затем из БД с записью в кэш.
func (p *Pipeline) GetOrder(ctx context.Context, storeSlug, orderNumber string) (*model.Order, error) {
	ctx, span := p.tracer.Start(ctx, "Orders.GetOrder")
	defer span.End()

	business, err := p.loadBusiness(ctx, storeSlug)
	if err != nil {
		return nil, err
	}

	key := cache.Key(business.ID, orderNumber)
	if order, ok := p.cache.Get(ctx, key); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return order, nil
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	order, err := p.store.GetOrderByNumber(ctx, business.ID, orderNumber)
	if errors.Is(err, database.ErrNotFound) {
		return nil, apperr.NotFound("order %s not found", orderNumber)
	}
	if err != nil {
		return nil, fmt.Errorf("не удалось получить заказ %s: %w", orderNumber, err)
	}

	p.cache.Set(ctx, key, order)
	return order, nil
}
