// Package inventory списывает остатки по оплаченным заказам и ведет журнал движений.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/metrics"
	"storefront/internal/model"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ActorSystem - автор записей журнала, созданных приемом заказов.
const ActorSystem = "SYSTEM"

// Store - операции хранилища, нужные журналу. Списание атомарное с нижней границей 0.
type Store interface {
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	DecrementProductStock(ctx context.Context, productID string, qty int) (model.StockChange, error)
	DecrementVariantStock(ctx context.Context, variantID string, qty int) (model.StockChange, error)
	CreateInventoryActivity(ctx context.Context, activity *model.InventoryActivity) error
}

// Ledger применяет продажи к складу.
type Ledger struct {
	store  Store
	logger *zap.Logger
	tracer trace.Tracer
	newID  func() string
	now    func() time.Time
}

// NewLedger создает журнал складских движений.
func NewLedger(store Store, logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{
		store:  store,
		logger: logger.Named("inventory"),
		tracer: otel.Tracer("inventory-ledger"),
		newID:  func() string { return ulid.Make().String() },
		now:    time.Now,
	}
}

// ApplyOrderSale списывает остатки по строкам заказа. Каждая строка обрабатывается
// независимо: ошибка одной строки не останавливает остальные и возвращается
// вместе с остальными после обработки всего заказа.
func (l *Ledger) ApplyOrderSale(ctx context.Context, orderID, businessID string, items []model.OrderItem) error {
	ctx, span := l.tracer.Start(ctx, "Inventory.ApplyOrderSale")
	defer span.End()

	var errs []error
	for _, item := range items {
		if err := l.applyLine(ctx, orderID, businessID, item); err != nil {
			l.logger.Error("ошибка списания остатка",
				zap.String("order_id", orderID),
				zap.String("product_id", item.ProductID),
				zap.Error(err))
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

func (l *Ledger) applyLine(ctx context.Context, orderID, businessID string, item model.OrderItem) error {
	product, err := l.store.GetProduct(ctx, item.ProductID)
	if err != nil {
		return fmt.Errorf("не удалось загрузить товар %s: %w", item.ProductID, err)
	}
	if !product.TrackInventory {
		return nil
	}

	var change model.StockChange
	if item.VariantID != nil && *item.VariantID != "" {
		change, err = l.store.DecrementVariantStock(ctx, *item.VariantID, item.Quantity)
	} else {
		change, err = l.store.DecrementProductStock(ctx, item.ProductID, item.Quantity)
	}
	if err != nil {
		return fmt.Errorf("не удалось списать остаток товара %s: %w", item.ProductID, err)
	}

	oversold := item.Quantity > change.OldStock
	reason := fmt.Sprintf("Order %s sale", orderID)
	if oversold {
		reason += " (Oversold)"
		metrics.InventoryOversold.Inc()
		l.logger.Warn("продано больше остатка",
			zap.String("order_id", orderID),
			zap.String("product_id", item.ProductID),
			zap.Int("stock", change.OldStock),
			zap.Int("requested", item.Quantity))
	}

	activity := &model.InventoryActivity{
		ID:         l.newID(),
		BusinessID: businessID,
		ProductID:  item.ProductID,
		VariantID:  item.VariantID,
		Type:       model.InventoryActivityOrderSale,
		Quantity:   -item.Quantity,
		OldStock:   change.OldStock,
		NewStock:   change.NewStock,
		Reason:     reason,
		ChangedBy:  ActorSystem,
		CreatedAt:  l.now(),
	}
	if err := l.store.CreateInventoryActivity(ctx, activity); err != nil {
		return fmt.Errorf("не удалось записать движение по товару %s: %w", item.ProductID, err)
	}
	metrics.InventoryActivities.Inc()

	return nil
}
