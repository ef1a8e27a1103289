package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/metrics"
	"storefront/internal/model"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

//go:generate mockgen -source=postgres.go -destination=./mocks/storage_mock.go -package=mocks Storage

var (
	// ErrNotFound - запись не найдена.
	ErrNotFound = errors.New("запись не найдена")
	// ErrConflict - нарушение ограничения уникальности.
	ErrConflict = errors.New("конфликт уникальности")
)

// pgUniqueViolation - SQLSTATE нарушения уникального индекса.
const pgUniqueViolation = "23505"

// Storage определяет интерфейс для работы с хранилищем магазина.
type Storage interface {
	GetBusinessBySlug(ctx context.Context, slug string) (*model.Business, error)
	GetPostalPricing(ctx context.Context, id string) (*model.PostalPricing, error)

	GetProduct(ctx context.Context, id string) (*model.Product, error)
	GetVariant(ctx context.Context, id string) (*model.ProductVariant, error)
	DecrementProductStock(ctx context.Context, productID string, qty int) (model.StockChange, error)
	DecrementVariantStock(ctx context.Context, variantID string, qty int) (model.StockChange, error)
	CreateInventoryActivity(ctx context.Context, activity *model.InventoryActivity) error

	ListCustomers(ctx context.Context, businessID string) ([]model.Customer, error)
	GetCustomer(ctx context.Context, id string) (*model.Customer, error)
	CreateCustomer(ctx context.Context, customer *model.Customer) error
	UpdateCustomer(ctx context.Context, id string, update model.CustomerUpdate) error

	CreateOrder(ctx context.Context, order *model.Order) error
	GetOrderByNumber(ctx context.Context, businessID, orderNumber string) (*model.Order, error)
	GetRecentOrders(ctx context.Context, limit int) ([]model.Order, error)

	Close() error
}

// postgresStorage обеспечивает взаимодействие с базой данных PostgreSQL.
type postgresStorage struct {
	db     *sqlx.DB
	tracer trace.Tracer
	logger *zap.Logger
}

// New создает подключение к БД, применяет миграции и возвращает
// экземпляр, реализующий интерфейс Storage.
func New(dbURL, migrationsPath string, logger *zap.Logger) (Storage, error) {
	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("не удалось подключиться к БД: %w", err)
	}

	if err := runMigrations(dbURL, migrationsPath, logger); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ошибка применения миграций: %w", err)
	}

	return &postgresStorage{
		db:     db,
		tracer: otel.Tracer("postgres-storage"),
		logger: logger.Named("postgres"),
	}, nil
}

// runMigrations выполняет миграции БД до последней версии.
func runMigrations(dbURL, migrationsPath string, logger *zap.Logger) error {
	logger.Info("поиск и применение миграций", zap.String("path", migrationsPath))

	m, err := migrate.New(fmt.Sprintf("file://%s", migrationsPath), dbURL)
	if err != nil {
		return fmt.Errorf("не удалось создать экземпляр миграции: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("не удалось выполнить миграции: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("не удалось получить версию миграции: %w", err)
	}
	if dirty {
		logger.Warn("БД в 'грязном' состоянии (dirty), рекомендуется проверка", zap.Uint("version", version))
	}

	logger.Info("миграции применены", zap.Uint("version", version))
	return nil
}

// classify приводит ошибки драйвера к ошибкам пакета и считает настоящие сбои в метрике.
func classify(operation string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
		return fmt.Errorf("%w: %s", ErrConflict, pqErr.Constraint)
	}
	metrics.DBErrors.WithLabelValues(operation).Inc()
	return err
}

const businessColumns = `
	id, slug, name, business_type, currency, language, website, phone, whatsapp_number, order_number_format,
	delivery_enabled, pickup_enabled, dine_in_enabled, is_temporarily_closed, closure_reason, closure_message,
	delivery_fee, delivery_radius, address, store_latitude, store_longitude, estimated_pickup_time,
	direct_notifications, email_notifications_enabled, notification_email, push_notifications_enabled, created_at`

// GetBusinessBySlug загружает бизнес вместе с активными зонами доставки по возрастанию дистанции.
func (s *postgresStorage) GetBusinessBySlug(ctx context.Context, slug string) (*model.Business, error) {
	ctx, span := s.tracer.Start(ctx, "DB.GetBusinessBySlug")
	defer span.End()
	span.SetAttributes(attribute.String("business.slug", slug))

	var business model.Business
	query := `SELECT` + businessColumns + ` FROM businesses WHERE slug = $1`
	if err := s.db.GetContext(ctx, &business, query, slug); err != nil {
		return nil, fmt.Errorf("не удалось получить бизнес %q: %w", slug, classify("get_business", err))
	}

	zonesQuery := `
        SELECT id, business_id, name, max_distance, fee, is_active
        FROM delivery_zones
        WHERE business_id = $1 AND is_active = TRUE
        ORDER BY max_distance ASC`
	if err := s.db.SelectContext(ctx, &business.Zones, zonesQuery, business.ID); err != nil {
		return nil, fmt.Errorf("не удалось получить зоны доставки: %w", classify("get_zones", err))
	}

	return &business, nil
}

// GetPostalPricing загружает тариф вместе с перевозчиком. Удаленные тарифы не возвращаются.
func (s *postgresStorage) GetPostalPricing(ctx context.Context, id string) (*model.PostalPricing, error) {
	ctx, span := s.tracer.Start(ctx, "DB.GetPostalPricing")
	defer span.End()

	var pricing model.PostalPricing
	query := `
        SELECT
            pp.id, pp.business_id, pp.postal_id, pp.price, pp.delivery_time, pp.deleted_at,
            p.id "postal.id", p.name "postal.name", p.names "postal.names"
        FROM postal_pricings pp
        JOIN postals p ON pp.postal_id = p.id
        WHERE pp.id = $1 AND pp.deleted_at IS NULL`
	if err := s.db.GetContext(ctx, &pricing, query, id); err != nil {
		return nil, fmt.Errorf("не удалось получить почтовый тариф %s: %w", id, classify("get_postal_pricing", err))
	}
	return &pricing, nil
}

func (s *postgresStorage) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	ctx, span := s.tracer.Start(ctx, "DB.GetProduct")
	defer span.End()

	var product model.Product
	query := `SELECT id, business_id, name, price, stock, track_inventory FROM products WHERE id = $1`
	if err := s.db.GetContext(ctx, &product, query, id); err != nil {
		return nil, fmt.Errorf("не удалось получить товар %s: %w", id, classify("get_product", err))
	}
	return &product, nil
}

func (s *postgresStorage) GetVariant(ctx context.Context, id string) (*model.ProductVariant, error) {
	ctx, span := s.tracer.Start(ctx, "DB.GetVariant")
	defer span.End()

	var variant model.ProductVariant
	query := `SELECT id, product_id, name, price, stock FROM product_variants WHERE id = $1`
	if err := s.db.GetContext(ctx, &variant, query, id); err != nil {
		return nil, fmt.Errorf("не удалось получить вариант %s: %w", id, classify("get_variant", err))
	}
	return &variant, nil
}

// Списание одним выражением: строка блокируется, остаток уменьшается не ниже нуля,
// а прежнее значение возвращается для журнала.
const (
	decrementProductQuery = `
        UPDATE products p SET stock = GREATEST(p.stock - $2, 0)
        FROM (SELECT id, stock FROM products WHERE id = $1 FOR UPDATE) old
        WHERE p.id = old.id
        RETURNING old.stock AS old_stock, p.stock AS new_stock`

	decrementVariantQuery = `
        UPDATE product_variants v SET stock = GREATEST(v.stock - $2, 0)
        FROM (SELECT id, stock FROM product_variants WHERE id = $1 FOR UPDATE) old
        WHERE v.id = old.id
        RETURNING old.stock AS old_stock, v.stock AS new_stock`
)

func (s *postgresStorage) DecrementProductStock(ctx context.Context, productID string, qty int) (model.StockChange, error) {
	ctx, span := s.tracer.Start(ctx, "DB.DecrementProductStock")
	defer span.End()

	var change model.StockChange
	if err := s.db.GetContext(ctx, &change, decrementProductQuery, productID, qty); err != nil {
		return change, fmt.Errorf("не удалось списать остаток товара %s: %w", productID, classify("decrement_product", err))
	}
	return change, nil
}

func (s *postgresStorage) DecrementVariantStock(ctx context.Context, variantID string, qty int) (model.StockChange, error) {
	ctx, span := s.tracer.Start(ctx, "DB.DecrementVariantStock")
	defer span.End()

	var change model.StockChange
	if err := s.db.GetContext(ctx, &change, decrementVariantQuery, variantID, qty); err != nil {
		return change, fmt.Errorf("не удалось списать остаток варианта %s: %w", variantID, classify("decrement_variant", err))
	}
	return change, nil
}

func (s *postgresStorage) CreateInventoryActivity(ctx context.Context, a *model.InventoryActivity) error {
	ctx, span := s.tracer.Start(ctx, "DB.CreateInventoryActivity")
	defer span.End()

	query := `
        INSERT INTO inventory_activities
            (id, business_id, product_id, variant_id, type, quantity, old_stock, new_stock, reason, changed_by, created_at)
        VALUES (:id, :business_id, :product_id, :variant_id, :type, :quantity, :old_stock, :new_stock, :reason, :changed_by, :created_at)`
	if _, err := s.db.NamedExecContext(ctx, query, a); err != nil {
		return fmt.Errorf("не удалось записать складское движение: %w", classify("create_inventory_activity", err))
	}
	return nil
}

const customerColumns = `id, business_id, name, phone, email, address, address_json, created_at, updated_at`

func (s *postgresStorage) ListCustomers(ctx context.Context, businessID string) ([]model.Customer, error) {
	ctx, span := s.tracer.Start(ctx, "DB.ListCustomers")
	defer span.End()

	var customers []model.Customer
	query := `SELECT ` + customerColumns + ` FROM customers WHERE business_id = $1 ORDER BY created_at`
	if err := s.db.SelectContext(ctx, &customers, query, businessID); err != nil {
		return nil, fmt.Errorf("не удалось получить клиентов: %w", classify("list_customers", err))
	}
	span.SetAttributes(attribute.Int("customers.count", len(customers)))
	return customers, nil
}

func (s *postgresStorage) GetCustomer(ctx context.Context, id string) (*model.Customer, error) {
	ctx, span := s.tracer.Start(ctx, "DB.GetCustomer")
	defer span.End()

	var customer model.Customer
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	if err := s.db.GetContext(ctx, &customer, query, id); err != nil {
		return nil, fmt.Errorf("не удалось получить клиента %s: %w", id, classify("get_customer", err))
	}
	return &customer, nil
}

func (s *postgresStorage) CreateCustomer(ctx context.Context, c *model.Customer) error {
	ctx, span := s.tracer.Start(ctx, "DB.CreateCustomer")
	defer span.End()

	if c.ID == "" {
		c.ID = uuid.New().String()
	}

	query := `
        INSERT INTO customers (id, business_id, name, phone, email, address, address_json, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err := s.db.ExecContext(ctx, query,
		c.ID, c.BusinessID, c.Name, c.Phone, c.Email, c.Address, c.AddressJSON, c.CreatedAt, c.UpdatedAt,
	); err != nil {
		return fmt.Errorf("не удалось создать клиента: %w", classify("create_customer", err))
	}
	return nil
}

// UpdateCustomer обновляет только заданные поля.
func (s *postgresStorage) UpdateCustomer(ctx context.Context, id string, u model.CustomerUpdate) error {
	ctx, span := s.tracer.Start(ctx, "DB.UpdateCustomer")
	defer span.End()

	if u.IsEmpty() {
		return nil
	}

	sets := make([]string, 0, 5)
	args := make([]interface{}, 0, 5)
	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if u.Name != nil {
		add("name", *u.Name)
	}
	if u.Email != nil {
		add("email", *u.Email)
	}
	if u.Address != nil {
		add("address", *u.Address)
	}
	if u.AddressJSON != nil {
		add("address_json", *u.AddressJSON)
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE customers SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("не удалось обновить клиента %s: %w", id, classify("update_customer", err))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("клиент %s: %w", id, ErrNotFound)
	}
	return nil
}

// CreateOrder сохраняет заказ и его позиции в одной транзакции.
func (s *postgresStorage) CreateOrder(ctx context.Context, order *model.Order) (err error) {
	ctx, span := s.tracer.Start(ctx, "DB.CreateOrder")
	defer span.End()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", classify("create_order", err))
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				s.logger.Error("ошибка отката транзакции", zap.Error(rbErr), zap.NamedError("cause", err))
			}
		}
	}()

	orderQuery := `
        INSERT INTO orders (
            id, business_id, customer_id, order_number, status, type, subtotal, delivery_fee, tax, discount, total,
            payment_method, payment_status, delivery_address, delivery_time, delivery_latitude, delivery_longitude,
            postal_pricing_id, special_instructions, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	if _, err = tx.ExecContext(ctx, orderQuery,
		order.ID, order.BusinessID, order.CustomerID, order.OrderNumber, order.Status, order.Type,
		order.Subtotal, order.DeliveryFee, order.Tax, order.Discount, order.Total,
		order.PaymentMethod, order.PaymentStatus, order.DeliveryAddress, order.DeliveryTime,
		order.DeliveryLatitude, order.DeliveryLongitude, order.PostalPricingID, order.SpecialInstructions, order.CreatedAt,
	); err != nil {
		return fmt.Errorf("ошибка сохранения заказа: %w", classify("create_order", err))
	}

	itemQuery := `
        INSERT INTO order_items (id, order_id, product_id, variant_id, quantity, price, original_price, modifiers)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for i := range order.Items {
		item := &order.Items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		item.OrderID = order.ID
		if item.Modifiers == nil {
			item.Modifiers = pq.StringArray{}
		}
		if _, err = tx.ExecContext(ctx, itemQuery,
			item.ID, item.OrderID, item.ProductID, item.VariantID, item.Quantity, item.Price, item.OriginalPrice, item.Modifiers,
		); err != nil {
			return fmt.Errorf("ошибка сохранения позиции заказа: %w", classify("create_order_item", err))
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("ошибка фиксации транзакции: %w", classify("create_order", err))
	}
	return nil
}

const orderColumns = `
	id, business_id, customer_id, order_number, status, type, subtotal, delivery_fee, tax, discount, total,
	payment_method, payment_status, delivery_address, delivery_time, delivery_latitude, delivery_longitude,
	postal_pricing_id, special_instructions, created_at`

const itemColumns = `id, order_id, product_id, variant_id, quantity, price, original_price, modifiers`

// GetOrderByNumber извлекает заказ бизнеса по номеру вместе с позициями.
func (s *postgresStorage) GetOrderByNumber(ctx context.Context, businessID, orderNumber string) (*model.Order, error) {
	ctx, span := s.tracer.Start(ctx, "DB.GetOrderByNumber")
	defer span.End()

	var order model.Order
	query := `SELECT` + orderColumns + ` FROM orders WHERE business_id = $1 AND order_number = $2`
	if err := s.db.GetContext(ctx, &order, query, businessID, orderNumber); err != nil {
		return nil, fmt.Errorf("не удалось получить заказ %s: %w", orderNumber, classify("get_order", err))
	}

	query = `SELECT ` + itemColumns + ` FROM order_items WHERE order_id = $1 ORDER BY id`
	if err := s.db.SelectContext(ctx, &order.Items, query, order.ID); err != nil {
		return nil, fmt.Errorf("не удалось получить позиции заказа: %w", classify("get_items", err))
	}

	return &order, nil
}

// GetRecentOrders возвращает последние заказы для прогрева кэша.
// Позиции загружаются вторым запросом, без N+1.
func (s *postgresStorage) GetRecentOrders(ctx context.Context, limit int) ([]model.Order, error) {
	ctx, span := s.tracer.Start(ctx, "DB.GetRecentOrders")
	defer span.End()

	var orders []model.Order
	query := `SELECT` + orderColumns + ` FROM orders ORDER BY created_at DESC LIMIT $1`
	if err := s.db.SelectContext(ctx, &orders, query, limit); err != nil {
		return nil, fmt.Errorf("ошибка получения последних заказов: %w", classify("get_recent_orders", err))
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]string, len(orders))
	byID := make(map[string]*model.Order, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		orders[i].Items = []model.OrderItem{}
		byID[orders[i].ID] = &orders[i]
	}

	var items []model.OrderItem
	query = `SELECT ` + itemColumns + ` FROM order_items WHERE order_id = ANY($1) ORDER BY id`
	if err := s.db.SelectContext(ctx, &items, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("ошибка получения позиций заказов: %w", classify("get_items", err))
	}

	for _, item := range items {
		if order, ok := byID[item.OrderID]; ok {
			order.Items = append(order.Items, item)
		}
	}

	return orders, nil
}

// Close закрывает соединение с БД.
func (s *postgresStorage) Close() error {
	return s.db.Close()
}
