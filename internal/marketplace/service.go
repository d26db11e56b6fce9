package marketplace

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/FitnessGH/fitness-gh-backend/internal/db"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrProductUnavailable = errors.New("product is not available for purchase")
	ErrNotProductOwner    = errors.New("product belongs to another vendor")
	ErrSKUTaken           = errors.New("a product with this SKU already exists")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderAccessDenied  = errors.New("no access to this order")
)

type Service interface {
	CreateProduct(ctx context.Context, vendorID int, req CreateProductRequest) (*Product, error)
	GetProduct(ctx context.Context, id int) (*Product, error)
	ListProducts(ctx context.Context, category string) ([]Product, error)
	ListVendorProducts(ctx context.Context, vendorID int) ([]Product, error)
	UpdateProduct(ctx context.Context, vendorID, productID int, req UpdateProductRequest) (*Product, error)
	ArchiveProduct(ctx context.Context, vendorID, productID int) error

	CreateOrder(ctx context.Context, customerID int, req CreateOrderRequest) (*Order, error)
	GetOrder(ctx context.Context, callerID, orderID int) (*Order, error)
	ListMyOrders(ctx context.Context, customerID int) ([]Order, error)
	UpdateOrderStatus(ctx context.Context, callerID, orderID int, status OrderStatus) (*Order, error)
}

type service struct {
	repo            Repository
	defaultCurrency string
}

func NewService(repo Repository, defaultCurrency string) Service {
	return &service{repo: repo, defaultCurrency: defaultCurrency}
}

func (s *service) CreateProduct(ctx context.Context, vendorID int, req CreateProductRequest) (*Product, error) {
	if req.Currency == nil {
		currency := s.defaultCurrency
		req.Currency = &currency
	}

	p, err := s.repo.CreateProduct(ctx, vendorID, req)
	if err != nil {
		if db.IsUniqueViolation(err, "products_sku_key") {
			return nil, ErrSKUTaken
		}
		return nil, err
	}
	return p, nil
}

func (s *service) GetProduct(ctx context.Context, id int) (*Product, error) {
	p, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *service) ListProducts(ctx context.Context, category string) ([]Product, error) {
	return s.repo.ListProducts(ctx, category, true)
}

func (s *service) ListVendorProducts(ctx context.Context, vendorID int) ([]Product, error) {
	return s.repo.ListProductsByVendor(ctx, vendorID)
}

func (s *service) UpdateProduct(ctx context.Context, vendorID, productID int, req UpdateProductRequest) (*Product, error) {
	if _, err := s.ownedProduct(ctx, vendorID, productID); err != nil {
		return nil, err
	}

	p, err := s.repo.UpdateProduct(ctx, productID, req)
	if err != nil {
		if db.IsUniqueViolation(err, "products_sku_key") {
			return nil, ErrSKUTaken
		}
		return nil, err
	}
	return p, nil
}

func (s *service) ArchiveProduct(ctx context.Context, vendorID, productID int) error {
	if _, err := s.ownedProduct(ctx, vendorID, productID); err != nil {
		return err
	}
	return s.repo.ArchiveProduct(ctx, productID)
}

func (s *service) ownedProduct(ctx context.Context, vendorID, productID int) (*Product, error) {
	p, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.VendorID != vendorID {
		return nil, ErrNotProductOwner
	}
	return p, nil
}

// CreateOrder verifies every product is purchasable, then hands the whole
// order to the repository as one transaction. The final price check and
// stock decrement happen inside that transaction, so a concurrent order
// draining the stock surfaces as ErrInsufficientStock rather than a
// negative stock count.
func (s *service) CreateOrder(ctx context.Context, customerID int, req CreateOrderRequest) (*Order, error) {
	for _, item := range req.Items {
		p, err := s.GetProduct(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if p.Status != ProductActive || !p.IsActive {
			return nil, fmt.Errorf("%w: product %d", ErrProductUnavailable, p.ID)
		}
		if p.Stock < item.Quantity {
			return nil, fmt.Errorf("%w: product %d", ErrInsufficientStock, p.ID)
		}
	}

	return s.repo.CreateOrder(ctx, customerID, generateOrderNumber(), s.defaultCurrency, req.ShippingAddress, req.Items)
}

func (s *service) GetOrder(ctx context.Context, callerID, orderID int) (*Order, error) {
	order, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if order.CustomerID != callerID {
		involved, err := s.repo.OrderInvolvesVendor(ctx, orderID, callerID)
		if err != nil {
			return nil, err
		}
		if !involved {
			return nil, ErrOrderAccessDenied
		}
	}

	items, err := s.repo.ListOrderItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

func (s *service) ListMyOrders(ctx context.Context, customerID int) ([]Order, error) {
	return s.repo.ListOrdersByCustomer(ctx, customerID)
}

// UpdateOrderStatus is a vendor operation; only a vendor with at least one
// product in the order may move it through the fulfilment states.
func (s *service) UpdateOrderStatus(ctx context.Context, callerID, orderID int, status OrderStatus) (*Order, error) {
	if _, err := s.repo.GetOrderByID(ctx, orderID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	involved, err := s.repo.OrderInvolvesVendor(ctx, orderID, callerID)
	if err != nil {
		return nil, err
	}
	if !involved {
		return nil, ErrOrderAccessDenied
	}

	return s.repo.UpdateOrderStatus(ctx, orderID, status)
}

// generateOrderNumber returns a human-quotable order number of the form
// ORD-<epoch millis>-<8 hex chars>.
func generateOrderNumber() string {
	buf := make([]byte, 4)
	_, _ = rand.Read(buf)
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), strings.ToUpper(hex.EncodeToString(buf)))
}
