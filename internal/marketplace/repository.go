package marketplace

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

const productColumns = `id, vendor_id, name, description, category, price, currency, stock, sku, status, is_active, created_at, updated_at`

const orderColumns = `id, customer_id, order_number, total, currency, status, shipping_address, created_at, updated_at`

const orderItemColumns = `id, order_id, product_id, quantity, price, subtotal, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateProduct(ctx context.Context, vendorID int, req CreateProductRequest) (*Product, error) {
	status := ProductDraft
	if req.Status != nil {
		status = *req.Status
	}

	p := &Product{}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO products (vendor_id, name, description, category, price, currency, stock, sku, status, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE)
		RETURNING `+productColumns,
		vendorID, req.Name, req.Description, req.Category, req.Price, req.Currency, req.Stock, req.SKU, status,
	).StructScan(p)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repository) GetProductByID(ctx context.Context, id int) (*Product, error) {
	p := &Product{}
	err := r.db.GetContext(ctx, p, `
		SELECT `+productColumns+`
		FROM products
		WHERE id = $1
	`, id)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repository) ListProducts(ctx context.Context, category string, activeOnly bool) ([]Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
	`
	where := []string{}
	args := []interface{}{}
	if activeOnly {
		where = append(where, "status = 'ACTIVE' AND is_active = TRUE")
	}
	if category != "" {
		args = append(args, category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC"

	products := []Product{}
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) ListProductsByVendor(ctx context.Context, vendorID int) ([]Product, error) {
	products := []Product{}
	err := r.db.SelectContext(ctx, &products, `
		SELECT `+productColumns+`
		FROM products
		WHERE vendor_id = $1
		ORDER BY created_at DESC
	`, vendorID)
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) UpdateProduct(ctx context.Context, id int, req UpdateProductRequest) (*Product, error) {
	set := []string{}
	args := []interface{}{}
	idx := 1
	add := func(col string, val interface{}) {
		set = append(set, fmt.Sprintf("%s = $%d", col, idx))
		args = append(args, val)
		idx++
	}

	if req.Name != nil {
		add("name", *req.Name)
	}
	if req.Description != nil {
		add("description", *req.Description)
	}
	if req.Category != nil {
		add("category", *req.Category)
	}
	if req.Price != nil {
		add("price", *req.Price)
	}
	if req.Stock != nil {
		add("stock", *req.Stock)
	}
	if req.SKU != nil {
		add("sku", *req.SKU)
	}
	if req.Status != nil {
		add("status", *req.Status)
	}
	if req.IsActive != nil {
		add("is_active", *req.IsActive)
	}

	set = append(set, "updated_at = NOW()")
	query := fmt.Sprintf(`UPDATE products SET %s WHERE id = $%d RETURNING `+productColumns,
		strings.Join(set, ", "), idx)
	args = append(args, id)

	p := &Product{}
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repository) ArchiveProduct(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET status = 'ARCHIVED', is_active = FALSE, updated_at = NOW()
		WHERE id = $1
	`, id)
	return err
}

// CreateOrder decrements stock, creates the order and its items in a single
// transaction. Each decrement is guarded by stock >= quantity so two
// concurrent orders can never oversell; the guarded UPDATE returns the
// current price, which is what the line subtotal and order total are billed
// at, regardless of what the caller saw when browsing.
func (r *repository) CreateOrder(ctx context.Context, customerID int, orderNumber, currency, shippingAddress string, items []OrderItemRequest) (*Order, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	total := 0.0
	prices := make([]float64, len(items))
	for i, item := range items {
		var price float64
		err := tx.QueryRowxContext(ctx, `
			UPDATE products
			SET stock = stock - $2, updated_at = NOW()
			WHERE id = $1 AND stock >= $2
			RETURNING price
		`, item.ProductID, item.Quantity).Scan(&price)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, fmt.Errorf("%w: product %d", ErrInsufficientStock, item.ProductID)
			}
			return nil, err
		}
		prices[i] = price
		total += price * float64(item.Quantity)
	}

	order := &Order{}
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO orders (customer_id, order_number, total, currency, status, shipping_address)
		VALUES ($1, $2, $3, $4, 'PENDING', $5)
		RETURNING `+orderColumns,
		customerID, orderNumber, total, currency, shippingAddress,
	).StructScan(order)
	if err != nil {
		return nil, err
	}

	for i, item := range items {
		oi := OrderItem{}
		err := tx.QueryRowxContext(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, price, subtotal)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING `+orderItemColumns,
			order.ID, item.ProductID, item.Quantity, prices[i], prices[i]*float64(item.Quantity),
		).StructScan(&oi)
		if err != nil {
			return nil, err
		}
		order.Items = append(order.Items, oi)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) GetOrderByID(ctx context.Context, id int) (*Order, error) {
	order := &Order{}
	err := r.db.GetContext(ctx, order, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = $1
	`, id)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) ListOrderItems(ctx context.Context, orderID int) ([]OrderItem, error) {
	items := []OrderItem{}
	err := r.db.SelectContext(ctx, &items, `
		SELECT `+orderItemColumns+`
		FROM order_items
		WHERE order_id = $1
		ORDER BY id ASC
	`, orderID)
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) ListOrdersByCustomer(ctx context.Context, customerID int) ([]Order, error) {
	orders := []Order{}
	err := r.db.SelectContext(ctx, &orders, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE customer_id = $1
		ORDER BY created_at DESC
	`, customerID)
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) OrderInvolvesVendor(ctx context.Context, orderID, vendorID int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS (
			SELECT 1
			FROM order_items oi
			JOIN products p ON p.id = oi.product_id
			WHERE oi.order_id = $1 AND p.vendor_id = $2
		)
	`, orderID, vendorID)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *repository) UpdateOrderStatus(ctx context.Context, id int, status OrderStatus) (*Order, error) {
	order := &Order{}
	err := r.db.QueryRowxContext(ctx, `
		UPDATE orders
		SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+orderColumns,
		id, status,
	).StructScan(order)
	if err != nil {
		return nil, err
	}
	return order, nil
}
