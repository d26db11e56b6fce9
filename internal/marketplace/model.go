package marketplace

import "time"

type ProductStatus string

const (
	ProductDraft    ProductStatus = "DRAFT"
	ProductActive   ProductStatus = "ACTIVE"
	ProductArchived ProductStatus = "ARCHIVED"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderPaid      OrderStatus = "PAID"
	OrderShipped   OrderStatus = "SHIPPED"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderCancelled OrderStatus = "CANCELLED"
)

type Product struct {
	ID          int           `json:"id" db:"id"`
	VendorID    int           `json:"vendor_id" db:"vendor_id"`
	Name        string        `json:"name" db:"name"`
	Description string        `json:"description" db:"description"`
	Category    string        `json:"category" db:"category"`
	Price       float64       `json:"price" db:"price"`
	Currency    string        `json:"currency" db:"currency"`
	Stock       int           `json:"stock" db:"stock"`
	SKU         *string       `json:"sku,omitempty" db:"sku"`
	Status      ProductStatus `json:"status" db:"status"`
	IsActive    bool          `json:"is_active" db:"is_active"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`
}

type Order struct {
	ID              int         `json:"id" db:"id"`
	CustomerID      int         `json:"customer_id" db:"customer_id"`
	OrderNumber     string      `json:"order_number" db:"order_number"`
	Total           float64     `json:"total" db:"total"`
	Currency        string      `json:"currency" db:"currency"`
	Status          OrderStatus `json:"status" db:"status"`
	ShippingAddress string      `json:"shipping_address" db:"shipping_address"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at" db:"updated_at"`

	Items []OrderItem `json:"items,omitempty" db:"-"`
}

type OrderItem struct {
	ID        int       `json:"id" db:"id"`
	OrderID   int       `json:"order_id" db:"order_id"`
	ProductID int       `json:"product_id" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Price     float64   `json:"price" db:"price"`
	Subtotal  float64   `json:"subtotal" db:"subtotal"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type CreateProductRequest struct {
	Name        string         `json:"name" binding:"required,min=2,max=200"`
	Description string         `json:"description"`
	Category    string         `json:"category" binding:"required"`
	Price       float64        `json:"price" binding:"required,gt=0"`
	Currency    *string        `json:"currency" binding:"omitempty,len=3"`
	Stock       int            `json:"stock" binding:"gte=0"`
	SKU         *string        `json:"sku"`
	Status      *ProductStatus `json:"status" binding:"omitempty,oneof=DRAFT ACTIVE"`
}

type UpdateProductRequest struct {
	Name        *string        `json:"name" binding:"omitempty,min=2,max=200"`
	Description *string        `json:"description"`
	Category    *string        `json:"category"`
	Price       *float64       `json:"price" binding:"omitempty,gt=0"`
	Stock       *int           `json:"stock" binding:"omitempty,gte=0"`
	SKU         *string        `json:"sku"`
	Status      *ProductStatus `json:"status" binding:"omitempty,oneof=DRAFT ACTIVE ARCHIVED"`
	IsActive    *bool          `json:"is_active"`
}

type OrderItemRequest struct {
	ProductID int `json:"product_id" binding:"required"`
	Quantity  int `json:"quantity" binding:"required,gt=0"`
}

type CreateOrderRequest struct {
	Items           []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	ShippingAddress string             `json:"shipping_address" binding:"required"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" binding:"required,oneof=PENDING PAID SHIPPED DELIVERED CANCELLED"`
}
