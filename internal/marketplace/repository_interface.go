package marketplace

import "context"

type Repository interface {
	CreateProduct(ctx context.Context, vendorID int, req CreateProductRequest) (*Product, error)
	GetProductByID(ctx context.Context, id int) (*Product, error)
	ListProducts(ctx context.Context, category string, activeOnly bool) ([]Product, error)
	ListProductsByVendor(ctx context.Context, vendorID int) ([]Product, error)
	UpdateProduct(ctx context.Context, id int, req UpdateProductRequest) (*Product, error)
	ArchiveProduct(ctx context.Context, id int) error

	CreateOrder(ctx context.Context, customerID int, orderNumber, currency, shippingAddress string, items []OrderItemRequest) (*Order, error)
	GetOrderByID(ctx context.Context, id int) (*Order, error)
	ListOrderItems(ctx context.Context, orderID int) ([]OrderItem, error)
	ListOrdersByCustomer(ctx context.Context, customerID int) ([]Order, error)
	OrderInvolvesVendor(ctx context.Context, orderID, vendorID int) (bool, error)
	UpdateOrderStatus(ctx context.Context, id int, status OrderStatus) (*Order, error)
}
