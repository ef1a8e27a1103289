package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID             string          `json:"id" db:"id"`
	BusinessID     string          `json:"businessId" db:"business_id"`
	Name           string          `json:"name" db:"name"`
	Price          decimal.Decimal `json:"price" db:"price"`
	Stock          int             `json:"stock" db:"stock"`
	TrackInventory bool            `json:"trackInventory" db:"track_inventory"`
}

type ProductVariant struct {
	ID        string          `json:"id" db:"id"`
	ProductID string          `json:"productId" db:"product_id"`
	Name      string          `json:"name" db:"name"`
	Price     decimal.Decimal `json:"price" db:"price"`
	Stock     int             `json:"stock" db:"stock"`
}

// InventoryActivityOrderSale - тип записи журнала для продажи по заказу.
const InventoryActivityOrderSale = "ORDER_SALE"

// InventoryActivity - неизменяемая запись журнала складских движений.
type InventoryActivity struct {
	ID         string    `json:"id" db:"id"`
	BusinessID string    `json:"businessId" db:"business_id"`
	ProductID  string    `json:"productId" db:"product_id"`
	VariantID  *string   `json:"variantId,omitempty" db:"variant_id"`
	Type       string    `json:"type" db:"type"`
	Quantity   int       `json:"quantity" db:"quantity"`
	OldStock   int       `json:"oldStock" db:"old_stock"`
	NewStock   int       `json:"newStock" db:"new_stock"`
	Reason     string    `json:"reason" db:"reason"`
	ChangedBy  string    `json:"changedBy" db:"changed_by"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// StockChange - результат атомарного списания: остаток до и после.
type StockChange struct {
	OldStock int `db:"old_stock"`
	NewStock int `db:"new_stock"`
}
