package marketplace

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
)

var productCols = []string{
	"id", "vendor_id", "name", "description", "category", "price", "currency",
	"stock", "sku", "status", "is_active", "created_at", "updated_at",
}

var orderCols = []string{
	"id", "customer_id", "order_number", "total", "currency", "status",
	"shipping_address", "created_at", "updated_at",
}

var orderItemCols = []string{
	"id", "order_id", "product_id", "quantity", "price", "subtotal", "created_at",
}

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	dbx := sqlx.NewDb(db, "sqlmock")
	return NewRepository(dbx), mock, func() { db.Close() }
}

func TestCreateProduct_Insert(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	now := time.Now()
	currency := "GHS"

	mock.ExpectQuery(`(?s)INSERT INTO products.*RETURNING`).
		WithArgs(1, "Shaker Bottle", "700ml", "accessories", 80.0, &currency, 5, (*string)(nil), ProductDraft).
		WillReturnRows(sqlmock.NewRows(productCols).
			AddRow(10, 1, "Shaker Bottle", "700ml", "accessories", 80.0, "GHS", 5, nil, "DRAFT", true, now, now))

	p, err := repo.CreateProduct(context.Background(), 1, CreateProductRequest{
		Name: "Shaker Bottle", Description: "700ml", Category: "accessories",
		Price: 80, Currency: &currency, Stock: 5,
	})

	assert.NoError(t, err)
	assert.Equal(t, ProductDraft, p.Status)
	assert.Nil(t, p.SKU)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListProducts_Filters(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	now := time.Now()

	mock.ExpectQuery(`(?s)SELECT .* FROM products\s+WHERE status = 'ACTIVE' AND is_active = TRUE AND category = \$1\s+ORDER BY created_at DESC`).
		WithArgs("supplements").
		WillReturnRows(sqlmock.NewRows(productCols).
			AddRow(10, 1, "Whey", "", "supplements", 250.0, "GHS", 12, "WP-01", "ACTIVE", true, now, now))

	products, err := repo.ListProducts(context.Background(), "supplements", true)

	assert.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, "WP-01", *products[0].SKU)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrder_Transaction(t *testing.T) {
	now := time.Now()

	t.Run("decrements stock and writes order and items in one tx", func(t *testing.T) {
		repo, mock, closeDB := newMockRepo(t)
		defer closeDB()

		mock.ExpectBegin()
		mock.ExpectQuery(`(?s)UPDATE products\s+SET stock = stock - \$2.*WHERE id = \$1 AND stock >= \$2\s+RETURNING price`).
			WithArgs(10, 2).
			WillReturnRows(sqlmock.NewRows([]string{"price"}).AddRow(80.0))
		mock.ExpectQuery(`(?s)UPDATE products\s+SET stock = stock - \$2.*WHERE id = \$1 AND stock >= \$2\s+RETURNING price`).
			WithArgs(11, 1).
			WillReturnRows(sqlmock.NewRows([]string{"price"}).AddRow(120.0))
		mock.ExpectQuery(`(?s)INSERT INTO orders.*'PENDING'`).
			WithArgs(1, "ORD-1735689600000-AABBCCDD", 280.0, "GHS", "12 Oxford St, Accra").
			WillReturnRows(sqlmock.NewRows(orderCols).
				AddRow(7, 1, "ORD-1735689600000-AABBCCDD", 280.0, "GHS", "PENDING", "12 Oxford St, Accra", now, now))
		mock.ExpectQuery(`(?s)INSERT INTO order_items`).
			WithArgs(7, 10, 2, 80.0, 160.0).
			WillReturnRows(sqlmock.NewRows(orderItemCols).AddRow(1, 7, 10, 2, 80.0, 160.0, now))
		mock.ExpectQuery(`(?s)INSERT INTO order_items`).
			WithArgs(7, 11, 1, 120.0, 120.0).
			WillReturnRows(sqlmock.NewRows(orderItemCols).AddRow(2, 7, 11, 1, 120.0, 120.0, now))
		mock.ExpectCommit()

		order, err := repo.CreateOrder(context.Background(), 1,
			"ORD-1735689600000-AABBCCDD", "GHS", "12 Oxford St, Accra",
			[]OrderItemRequest{{ProductID: 10, Quantity: 2}, {ProductID: 11, Quantity: 1}})

		assert.NoError(t, err)
		assert.Equal(t, 280.0, order.Total)
		assert.Len(t, order.Items, 2)
		assert.Equal(t, 160.0, order.Items[0].Subtotal)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when stock runs out mid-order", func(t *testing.T) {
		repo, mock, closeDB := newMockRepo(t)
		defer closeDB()

		mock.ExpectBegin()
		mock.ExpectQuery(`(?s)UPDATE products\s+SET stock = stock - \$2.*WHERE id = \$1 AND stock >= \$2\s+RETURNING price`).
			WithArgs(10, 2).
			WillReturnRows(sqlmock.NewRows([]string{"price"}).AddRow(80.0))
		// Second product no longer has enough stock; the guard matches no row.
		mock.ExpectQuery(`(?s)UPDATE products\s+SET stock = stock - \$2.*WHERE id = \$1 AND stock >= \$2\s+RETURNING price`).
			WithArgs(11, 5).
			WillReturnRows(sqlmock.NewRows([]string{"price"}))
		mock.ExpectRollback()

		_, err := repo.CreateOrder(context.Background(), 1,
			"ORD-1735689600000-AABBCCDD", "GHS", "12 Oxford St, Accra",
			[]OrderItemRequest{{ProductID: 10, Quantity: 2}, {ProductID: 11, Quantity: 5}})

		assert.ErrorIs(t, err, ErrInsufficientStock)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOrderInvolvesVendor(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	mock.ExpectQuery(`(?s)SELECT EXISTS.*FROM order_items oi\s+JOIN products p ON p.id = oi.product_id`).
		WithArgs(7, 2).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	involved, err := repo.OrderInvolvesVendor(context.Background(), 7, 2)

	assert.NoError(t, err)
	assert.True(t, involved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateOrderStatus_Row(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	now := time.Now()

	mock.ExpectQuery(`(?s)UPDATE orders\s+SET status = \$2, updated_at = NOW\(\)\s+WHERE id = \$1`).
		WithArgs(7, OrderShipped).
		WillReturnRows(sqlmock.NewRows(orderCols).
			AddRow(7, 1, "ORD-1735689600000-AABBCCDD", 280.0, "GHS", "SHIPPED", "12 Oxford St, Accra", now, now))

	order, err := repo.UpdateOrderStatus(context.Background(), 7, OrderShipped)

	assert.NoError(t, err)
	assert.Equal(t, OrderShipped, order.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
