package marketplace

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct{ mock.Mock }

func (m *MockRepository) CreateProduct(ctx context.Context, vendorID int, req CreateProductRequest) (*Product, error) {
	args := m.Called(ctx, vendorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockRepository) GetProductByID(ctx context.Context, id int) (*Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockRepository) ListProducts(ctx context.Context, category string, activeOnly bool) ([]Product, error) {
	args := m.Called(ctx, category, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Product), args.Error(1)
}

func (m *MockRepository) ListProductsByVendor(ctx context.Context, vendorID int) ([]Product, error) {
	args := m.Called(ctx, vendorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Product), args.Error(1)
}

func (m *MockRepository) UpdateProduct(ctx context.Context, id int, req UpdateProductRequest) (*Product, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockRepository) ArchiveProduct(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRepository) CreateOrder(ctx context.Context, customerID int, orderNumber, currency, shippingAddress string, items []OrderItemRequest) (*Order, error) {
	args := m.Called(ctx, customerID, orderNumber, currency, shippingAddress, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) GetOrderByID(ctx context.Context, id int) (*Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) ListOrderItems(ctx context.Context, orderID int) ([]OrderItem, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]OrderItem), args.Error(1)
}

func (m *MockRepository) ListOrdersByCustomer(ctx context.Context, customerID int) ([]Order, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Order), args.Error(1)
}

func (m *MockRepository) OrderInvolvesVendor(ctx context.Context, orderID, vendorID int) (bool, error) {
	args := m.Called(ctx, orderID, vendorID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) UpdateOrderStatus(ctx context.Context, id int, status OrderStatus) (*Order, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func activeProduct(id, vendorID, stock int, price float64) *Product {
	return &Product{
		ID:       id,
		VendorID: vendorID,
		Name:     "Shaker Bottle",
		Category: "accessories",
		Price:    price,
		Currency: "GHS",
		Stock:    stock,
		Status:   ProductActive,
		IsActive: true,
	}
}

var orderNumberPattern = regexp.MustCompile(`^ORD-\d+-[0-9A-F]{8}$`)

func TestGenerateOrderNumber(t *testing.T) {
	first := generateOrderNumber()
	second := generateOrderNumber()

	assert.Regexp(t, orderNumberPattern, first)
	assert.Regexp(t, orderNumberPattern, second)
	assert.NotEqual(t, first, second)
}

func TestCreateProduct(t *testing.T) {
	t.Run("defaults the currency", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("CreateProduct", mock.Anything, 1, mock.MatchedBy(func(req CreateProductRequest) bool {
			return req.Currency != nil && *req.Currency == "GHS"
		})).Return(activeProduct(10, 1, 5, 80), nil)

		svc := NewService(repo, "GHS")
		p, err := svc.CreateProduct(context.Background(), 1, CreateProductRequest{
			Name: "Shaker Bottle", Category: "accessories", Price: 80, Stock: 5,
		})

		assert.NoError(t, err)
		assert.Equal(t, 10, p.ID)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate sku maps to conflict", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("CreateProduct", mock.Anything, 1, mock.AnythingOfType("CreateProductRequest")).
			Return(nil, &pq.Error{Code: "23505", Constraint: "products_sku_key"})

		svc := NewService(repo, "GHS")
		_, err := svc.CreateProduct(context.Background(), 1, CreateProductRequest{
			Name: "Shaker Bottle", Category: "accessories", Price: 80,
		})

		assert.ErrorIs(t, err, ErrSKUTaken)
	})
}

func TestUpdateProduct_Ownership(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetProductByID", mock.Anything, 10).Return(activeProduct(10, 2, 5, 80), nil)

	svc := NewService(repo, "GHS")
	name := "Renamed"
	_, err := svc.UpdateProduct(context.Background(), 1, 10, UpdateProductRequest{Name: &name})

	assert.ErrorIs(t, err, ErrNotProductOwner)
	repo.AssertNotCalled(t, "UpdateProduct", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateOrder(t *testing.T) {
	t.Run("places an order for purchasable products", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetProductByID", mock.Anything, 10).Return(activeProduct(10, 2, 5, 80), nil)
		repo.On("GetProductByID", mock.Anything, 11).Return(activeProduct(11, 2, 3, 120), nil)
		repo.On("CreateOrder", mock.Anything, 1,
			mock.MatchedBy(func(num string) bool { return orderNumberPattern.MatchString(num) }),
			"GHS", "12 Oxford St, Accra",
			[]OrderItemRequest{{ProductID: 10, Quantity: 2}, {ProductID: 11, Quantity: 1}}).
			Return(&Order{ID: 7, CustomerID: 1, Total: 280, Status: OrderPending}, nil)

		svc := NewService(repo, "GHS")
		order, err := svc.CreateOrder(context.Background(), 1, CreateOrderRequest{
			Items: []OrderItemRequest{
				{ProductID: 10, Quantity: 2},
				{ProductID: 11, Quantity: 1},
			},
			ShippingAddress: "12 Oxford St, Accra",
		})

		assert.NoError(t, err)
		assert.Equal(t, 280.0, order.Total)
		repo.AssertExpectations(t)
	})

	t.Run("rejects draft products", func(t *testing.T) {
		draft := activeProduct(10, 2, 5, 80)
		draft.Status = ProductDraft

		repo := new(MockRepository)
		repo.On("GetProductByID", mock.Anything, 10).Return(draft, nil)

		svc := NewService(repo, "GHS")
		_, err := svc.CreateOrder(context.Background(), 1, CreateOrderRequest{
			Items:           []OrderItemRequest{{ProductID: 10, Quantity: 1}},
			ShippingAddress: "12 Oxford St, Accra",
		})

		assert.ErrorIs(t, err, ErrProductUnavailable)
		repo.AssertNotCalled(t, "CreateOrder",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects quantities above stock before touching the db", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetProductByID", mock.Anything, 10).Return(activeProduct(10, 2, 1, 80), nil)

		svc := NewService(repo, "GHS")
		_, err := svc.CreateOrder(context.Background(), 1, CreateOrderRequest{
			Items:           []OrderItemRequest{{ProductID: 10, Quantity: 2}},
			ShippingAddress: "12 Oxford St, Accra",
		})

		assert.ErrorIs(t, err, ErrInsufficientStock)
	})

	t.Run("unknown product", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetProductByID", mock.Anything, 99).Return(nil, sql.ErrNoRows)

		svc := NewService(repo, "GHS")
		_, err := svc.CreateOrder(context.Background(), 1, CreateOrderRequest{
			Items:           []OrderItemRequest{{ProductID: 99, Quantity: 1}},
			ShippingAddress: "12 Oxford St, Accra",
		})

		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestGetOrder(t *testing.T) {
	t.Run("customer sees own order with items", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetOrderByID", mock.Anything, 7).Return(&Order{ID: 7, CustomerID: 1}, nil)
		repo.On("ListOrderItems", mock.Anything, 7).Return([]OrderItem{
			{ID: 1, OrderID: 7, ProductID: 10, Quantity: 2, Price: 80, Subtotal: 160},
		}, nil)

		svc := NewService(repo, "GHS")
		order, err := svc.GetOrder(context.Background(), 1, 7)

		assert.NoError(t, err)
		assert.Len(t, order.Items, 1)
	})

	t.Run("vendor with a product in the order sees it", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetOrderByID", mock.Anything, 7).Return(&Order{ID: 7, CustomerID: 1}, nil)
		repo.On("OrderInvolvesVendor", mock.Anything, 7, 2).Return(true, nil)
		repo.On("ListOrderItems", mock.Anything, 7).Return([]OrderItem{}, nil)

		svc := NewService(repo, "GHS")
		_, err := svc.GetOrder(context.Background(), 2, 7)

		assert.NoError(t, err)
	})

	t.Run("stranger is denied", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetOrderByID", mock.Anything, 7).Return(&Order{ID: 7, CustomerID: 1}, nil)
		repo.On("OrderInvolvesVendor", mock.Anything, 7, 3).Return(false, nil)

		svc := NewService(repo, "GHS")
		_, err := svc.GetOrder(context.Background(), 3, 7)

		assert.ErrorIs(t, err, ErrOrderAccessDenied)
	})
}

func TestUpdateOrderStatus(t *testing.T) {
	t.Run("involved vendor ships the order", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetOrderByID", mock.Anything, 7).Return(&Order{ID: 7, CustomerID: 1, Status: OrderPaid}, nil)
		repo.On("OrderInvolvesVendor", mock.Anything, 7, 2).Return(true, nil)
		repo.On("UpdateOrderStatus", mock.Anything, 7, OrderShipped).
			Return(&Order{ID: 7, Status: OrderShipped}, nil)

		svc := NewService(repo, "GHS")
		order, err := svc.UpdateOrderStatus(context.Background(), 2, 7, OrderShipped)

		assert.NoError(t, err)
		assert.Equal(t, OrderShipped, order.Status)
	})

	t.Run("customer cannot drive fulfilment", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetOrderByID", mock.Anything, 7).Return(&Order{ID: 7, CustomerID: 1}, nil)
		repo.On("OrderInvolvesVendor", mock.Anything, 7, 1).Return(false, nil)

		svc := NewService(repo, "GHS")
		_, err := svc.UpdateOrderStatus(context.Background(), 1, 7, OrderDelivered)

		assert.ErrorIs(t, err, ErrOrderAccessDenied)
		repo.AssertNotCalled(t, "UpdateOrderStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown order", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetOrderByID", mock.Anything, 99).Return(nil, sql.ErrNoRows)

		svc := NewService(repo, "GHS")
		_, err := svc.UpdateOrderStatus(context.Background(), 2, 99, OrderShipped)

		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}
