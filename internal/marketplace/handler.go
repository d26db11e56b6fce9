package marketplace

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/FitnessGH/fitness-gh-backend/internal/api"
	"github.com/FitnessGH/fitness-gh-backend/internal/auth"
	"github.com/FitnessGH/fitness-gh-backend/internal/logger"
	"github.com/FitnessGH/fitness-gh-backend/internal/metrics"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// ListProducts godoc
// @Summary      List products
// @Description  Public catalog of active products, optionally filtered by category.
// @Tags         marketplace
// @Produce      json
// @Param        category  query     string  false  "Category filter"
// @Success      200       {object}  api.Envelope
// @Router       /products [get]
func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.svc.ListProducts(c.Request.Context(), c.Query("category"))
	if err != nil {
		logger.Error("list products failed", "error", err)
		api.Fail(c, http.StatusInternalServerError, "Failed to list products")
		return
	}

	api.OK(c, http.StatusOK, "", products)
}

// GetProduct godoc
// @Summary      Get product by id
// @Tags         marketplace
// @Produce      json
// @Param        id   path      int  true  "Product ID"
// @Success      200  {object}  api.Envelope
// @Failure      404  {object}  api.ErrorEnvelope
// @Router       /products/{id} [get]
func (h *Handler) GetProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid product id")
		return
	}

	p, err := h.svc.GetProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			api.Fail(c, http.StatusNotFound, ErrProductNotFound.Error())
			return
		}
		logger.Error("get product failed", "error", err)
		api.Fail(c, http.StatusInternalServerError, "Failed to fetch product")
		return
	}

	api.OK(c, http.StatusOK, "", p)
}

// CreateProduct godoc
// @Summary      Create product
// @Description  The authenticated profile becomes the vendor.
// @Tags         marketplace
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateProductRequest  true  "Product data"
// @Success      201      {object}  api.Envelope
// @Failure      409      {object}  api.ErrorEnvelope
// @Router       /products [post]
func (h *Handler) CreateProduct(c *gin.Context) {
	profileID, ok := auth.GetProfileID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.svc.CreateProduct(c.Request.Context(), profileID, req)
	if err != nil {
		if errors.Is(err, ErrSKUTaken) {
			api.Fail(c, http.StatusConflict, ErrSKUTaken.Error())
			return
		}
		logger.Error("create product failed", "error", err)
		api.Fail(c, http.StatusInternalServerError, "Failed to create product")
		return
	}

	api.OK(c, http.StatusCreated, "Product created", p)
}

// GetMyProducts godoc
// @Summary      List products of the authenticated vendor
// @Tags         marketplace
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.Envelope
// @Router       /products/my [get]
func (h *Handler) GetMyProducts(c *gin.Context) {
	profileID, ok := auth.GetProfileID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	products, err := h.svc.ListVendorProducts(c.Request.Context(), profileID)
	if err != nil {
		logger.Error("list vendor products failed", "error", err)
		api.Fail(c, http.StatusInternalServerError, "Failed to list products")
		return
	}

	api.OK(c, http.StatusOK, "", products)
}

// UpdateProduct godoc
// @Summary      Update product
// @Description  Vendors may only update their own products.
// @Tags         marketplace
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      int                   true  "Product ID"
// @Param        request  body      UpdateProductRequest  true  "Fields to update"
// @Success      200      {object}  api.Envelope
// @Failure      403      {object}  api.ErrorEnvelope
// @Failure      404      {object}  api.ErrorEnvelope
// @Router       /products/{id} [put]
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid product id")
		return
	}

	profileID, ok := auth.GetProfileID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.svc.UpdateProduct(c.Request.Context(), profileID, id, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrProductNotFound):
			api.Fail(c, http.StatusNotFound, ErrProductNotFound.Error())
		case errors.Is(err, ErrNotProductOwner):
			api.Fail(c, http.StatusForbidden, ErrNotProductOwner.Error())
		case errors.Is(err, ErrSKUTaken):
			api.Fail(c, http.StatusConflict, ErrSKUTaken.Error())
		default:
			logger.Error("update product failed", "error", err)
			api.Fail(c, http.StatusInternalServerError, "Failed to update product")
		}
		return
	}

	api.OK(c, http.StatusOK, "Product updated", p)
}

// DeleteProduct godoc
// @Summary      Archive product
// @Description  Archived products disappear from the catalog but stay referenced by past orders.
// @Tags         marketplace
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Product ID"
// @Success      200  {object}  api.Envelope
// @Failure      403  {object}  api.ErrorEnvelope
// @Failure      404  {object}  api.ErrorEnvelope
// @Router       /products/{id} [delete]
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid product id")
		return
	}

	profileID, ok := auth.GetProfileID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	if err := h.svc.ArchiveProduct(c.Request.Context(), profileID, id); err != nil {
		switch {
		case errors.Is(err, ErrProductNotFound):
			api.Fail(c, http.StatusNotFound, ErrProductNotFound.Error())
		case errors.Is(err, ErrNotProductOwner):
			api.Fail(c, http.StatusForbidden, ErrNotProductOwner.Error())
		default:
			logger.Error("archive product failed", "error", err)
			api.Fail(c, http.StatusInternalServerError, "Failed to archive product")
		}
		return
	}

	api.OK(c, http.StatusOK, "Product archived", nil)
}

// CreateOrder godoc
// @Summary      Place an order
// @Description  Creates a PENDING order, billing current prices and decrementing stock atomically.
// @Tags         marketplace
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateOrderRequest  true  "Order data"
// @Success      201      {object}  api.Envelope
// @Failure      404      {object}  api.ErrorEnvelope
// @Failure      409      {object}  api.ErrorEnvelope
// @Router       /orders [post]
func (h *Handler) CreateOrder(c *gin.Context) {
	profileID, ok := auth.GetProfileID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	order, err := h.svc.CreateOrder(c.Request.Context(), profileID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrProductNotFound):
			api.Fail(c, http.StatusNotFound, ErrProductNotFound.Error())
		case errors.Is(err, ErrProductUnavailable):
			api.Fail(c, http.StatusConflict, err.Error())
		case errors.Is(err, ErrInsufficientStock):
			api.Fail(c, http.StatusConflict, err.Error())
		default:
			logger.Error("create order failed", "error", err)
			api.Fail(c, http.StatusInternalServerError, "Failed to create order")
		}
		return
	}

	metrics.RecordOrderCreated()
	api.OK(c, http.StatusCreated, "Order created", order)
}

// GetMyOrders godoc
// @Summary      List orders of the authenticated customer
// @Tags         marketplace
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.Envelope
// @Router       /orders/my [get]
func (h *Handler) GetMyOrders(c *gin.Context) {
	profileID, ok := auth.GetProfileID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	orders, err := h.svc.ListMyOrders(c.Request.Context(), profileID)
	if err != nil {
		logger.Error("list own orders failed", "error", err)
		api.Fail(c, http.StatusInternalServerError, "Failed to list orders")
		return
	}

	api.OK(c, http.StatusOK, "", orders)
}

// GetOrder godoc
// @Summary      Get order by id
// @Description  Visible to the customer and to vendors with a product in the order.
// @Tags         marketplace
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Order ID"
// @Success      200  {object}  api.Envelope
// @Failure      403  {object}  api.ErrorEnvelope
// @Failure      404  {object}  api.ErrorEnvelope
// @Router       /orders/{id} [get]
func (h *Handler) GetOrder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid order id")
		return
	}

	profileID, ok := auth.GetProfileID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	order, err := h.svc.GetOrder(c.Request.Context(), profileID, id)
	if err != nil {
		switch {
		case errors.Is(err, ErrOrderNotFound):
			api.Fail(c, http.StatusNotFound, ErrOrderNotFound.Error())
		case errors.Is(err, ErrOrderAccessDenied):
			api.Fail(c, http.StatusForbidden, ErrOrderAccessDenied.Error())
		default:
			logger.Error("get order failed", "error", err)
			api.Fail(c, http.StatusInternalServerError, "Failed to fetch order")
		}
		return
	}

	api.OK(c, http.StatusOK, "", order)
}

// UpdateOrderStatus godoc
// @Summary      Update order status
// @Description  Vendor fulfilment flow; only vendors with a product in the order may change it.
// @Tags         marketplace
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      int                       true  "Order ID"
// @Param        request  body      UpdateOrderStatusRequest  true  "New status"
// @Success      200      {object}  api.Envelope
// @Failure      403      {object}  api.ErrorEnvelope
// @Failure      404      {object}  api.ErrorEnvelope
// @Router       /orders/{id}/status [patch]
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid order id")
		return
	}

	profileID, ok := auth.GetProfileID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	order, err := h.svc.UpdateOrderStatus(c.Request.Context(), profileID, id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, ErrOrderNotFound):
			api.Fail(c, http.StatusNotFound, ErrOrderNotFound.Error())
		case errors.Is(err, ErrOrderAccessDenied):
			api.Fail(c, http.StatusForbidden, ErrOrderAccessDenied.Error())
		default:
			logger.Error("update order status failed", "error", err)
			api.Fail(c, http.StatusInternalServerError, "Failed to update order")
		}
		return
	}

	api.OK(c, http.StatusOK, "Order updated", order)
}
