// Package customer находит или создает клиента по заказу.
package customer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront/internal/address"
	"storefront/internal/model"
	"storefront/internal/phone"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Store - операции хранилища клиентов.
type Store interface {
	ListCustomers(ctx context.Context, businessID string) ([]model.Customer, error)
	GetCustomer(ctx context.Context, id string) (*model.Customer, error)
	CreateCustomer(ctx context.Context, customer *model.Customer) error
	UpdateCustomer(ctx context.Context, id string, update model.CustomerUpdate) error
}

// Input - данные клиента из заказа.
type Input struct {
	Name            string
	Phone           string
	Email           string
	Fulfillment     model.FulfillmentType
	DeliveryAddress string
	Latitude        *float64
	Longitude       *float64
	Hints           address.Hints
}

// hasDeliveryAddress сообщает, что заказ с доставкой и адрес указан.
func (in Input) hasDeliveryAddress() bool {
	return in.Fulfillment == model.FulfillmentDelivery && strings.TrimSpace(in.DeliveryAddress) != ""
}

func (in Input) parseAddress() model.Address {
	return address.Parse(in.DeliveryAddress, in.Latitude, in.Longitude, in.Hints)
}

type Resolver struct {
	store  Store
	logger *zap.Logger
	tracer trace.Tracer
	newID  func() string
	now    func() time.Time
}

func NewResolver(store Store, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		store:  store,
		logger: logger.Named("customer"),
		tracer: otel.Tracer("customer-resolver"),
		newID:  func() string { return uuid.New().String() },
		now:    time.Now,
	}
}

// Resolve ищет клиента бизнеса по нормализованному телефону. Новый клиент создается,
// существующий обновляется по правилам BuildUpdate и перечитывается из хранилища.
func (r *Resolver) Resolve(ctx context.Context, business *model.Business, in Input) (*model.Customer, error) {
	ctx, span := r.tracer.Start(ctx, "Customer.Resolve")
	defer span.End()

	customers, err := r.store.ListCustomers(ctx, business.ID)
	if err != nil {
		return nil, fmt.Errorf("не удалось загрузить клиентов: %w", err)
	}

	// Телефоны хранятся в том виде, в каком их ввели, поэтому индекс по равенству не подходит.
	for i := range customers {
		if phone.Match(customers[i].Phone, in.Phone) {
			span.SetAttributes(attribute.Bool("customer.existing", true))
			return r.refresh(ctx, &customers[i], in)
		}
	}

	span.SetAttributes(attribute.Bool("customer.existing", false))
	return r.create(ctx, business, in)
}

func (r *Resolver) create(ctx context.Context, business *model.Business, in Input) (*model.Customer, error) {
	now := r.now()
	c := &model.Customer{
		ID:         r.newID(),
		BusinessID: business.ID,
		Name:       strings.TrimSpace(in.Name),
		Phone:      strings.TrimSpace(in.Phone),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if email := strings.TrimSpace(in.Email); email != "" {
		c.Email = &email
	}
	if in.hasDeliveryAddress() {
		parsed := in.parseAddress()
		display := parsed.Display()
		c.AddressJSON = &parsed
		c.Address = &display
	}

	if err := r.store.CreateCustomer(ctx, c); err != nil {
		return nil, fmt.Errorf("не удалось создать клиента: %w", err)
	}
	r.logger.Info("создан новый клиент", zap.String("customer_id", c.ID), zap.String("business_id", business.ID))
	return c, nil
}

func (r *Resolver) refresh(ctx context.Context, existing *model.Customer, in Input) (*model.Customer, error) {
	update := BuildUpdate(existing, in)
	if update.IsEmpty() {
		return existing, nil
	}

	if err := r.store.UpdateCustomer(ctx, existing.ID, update); err != nil {
		return nil, fmt.Errorf("не удалось обновить клиента %s: %w", existing.ID, err)
	}

	updated, err := r.store.GetCustomer(ctx, existing.ID)
	if err != nil {
		return nil, fmt.Errorf("не удалось перечитать клиента %s: %w", existing.ID, err)
	}
	return updated, nil
}

// BuildUpdate доверяет последнему заказу, но не затирает хорошие данные худшими:
// имя и email меняются только на непустые отличающиеся значения, адрес - только
// если сохраненного нет, либо изменилась улица, либо оба города известны и различаются.
func BuildUpdate(existing *model.Customer, in Input) model.CustomerUpdate {
	var update model.CustomerUpdate

	if name := strings.TrimSpace(in.Name); name != "" && name != existing.Name {
		update.Name = &name
	}
	if email := strings.TrimSpace(in.Email); email != "" && (existing.Email == nil || *existing.Email != email) {
		update.Email = &email
	}

	if in.hasDeliveryAddress() {
		parsed := in.parseAddress()
		if shouldReplaceAddress(existing, parsed) {
			display := parsed.Display()
			update.Address = &display
			update.AddressJSON = &parsed
		}
	}

	return update
}

func shouldReplaceAddress(existing *model.Customer, parsed model.Address) bool {
	if existing.Address == nil || strings.TrimSpace(*existing.Address) == "" {
		return true
	}
	stored := existing.AddressJSON
	if stored == nil || strings.TrimSpace(stored.Street) == "" {
		return true
	}
	if !strings.EqualFold(strings.TrimSpace(parsed.Street), strings.TrimSpace(stored.Street)) {
		return true
	}
	oldCity, newCity := strings.TrimSpace(stored.City), strings.TrimSpace(parsed.City)
	return oldCity != "" && newCity != "" && !strings.EqualFold(oldCity, newCity)
}
