package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ichi1107/bento-order-system/internal/middleware"
	"github.com/ichi1107/bento-order-system/internal/model"
	"github.com/ichi1107/bento-order-system/internal/service"
	"github.com/ichi1107/bento-order-system/pkg/pagination"
	"github.com/ichi1107/bento-order-system/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	customer := router.Group("/api/customer/orders", middleware.RequireAccountType(model.AccountTypeCustomer))
	{
		customer.POST("", h.CreateOrder)
		customer.GET("", h.ListMyOrders)
		customer.GET("/:id", h.GetMyOrder)
		customer.PUT("/:id/cancel", h.CancelOrder)
	}

	store := router.Group("/api/store/orders",
		middleware.RequireStoreRole(model.RoleOwner, model.RoleManager, model.RoleStaff))
	{
		store.GET("", h.ListStoreOrders)
		store.PUT("/:id/status", h.UpdateOrderStatus)
	}
}

// CreateOrder handles POST /api/customer/orders
// @Summary      Place an order
// @Description  Orders one menu item; the total price is snapshotted at order time
// @Tags         customer
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateOrderRequest  true  "Order Payload"
// @Success      201      {object}  response.Response{data=service.OrderResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/customer/orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, order))
}

// ListMyOrders handles GET /api/customer/orders
// @Summary      List own orders
// @Tags         customer
// @Produce      json
// @Security     BearerAuth
// @Param        status    query  string  false  "Status filter"
// @Param        page      query  int     false  "Page number"
// @Param        per_page  query  int     false  "Items per page (max 100)"
// @Success      200  {object}  response.Response{data=service.OrderListResponse}
// @Failure      401  {object}  response.Response
// @Router       /api/customer/orders [get]
func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	params := pagination.Parse(c)

	orders, err := h.orderService.ListMyOrders(c.Request.Context(), middleware.CurrentUser(c),
		c.Query("status"), params.Offset, params.Limit)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, orders))
}

// GetMyOrder handles GET /api/customer/orders/:id
// @Summary      Get an own order
// @Tags         customer
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  response.Response{data=service.OrderResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/customer/orders/{id} [get]
func (h *OrderHandler) GetMyOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, service.ErrOrderNotFound.Error()))
		return
	}

	order, err := h.orderService.GetMyOrder(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// CancelOrder handles PUT /api/customer/orders/:id/cancel
// @Summary      Cancel an own order
// @Description  Only pending orders can be cancelled by the purchaser
// @Tags         customer
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  response.Response{data=service.OrderResponse}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/customer/orders/{id}/cancel [put]
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, service.ErrOrderNotFound.Error()))
		return
	}

	order, err := h.orderService.CancelOrder(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// ListStoreOrders handles GET /api/store/orders
// @Summary      List the store's orders
// @Description  Filterable by status, date range and purchaser or menu search
// @Tags         store-orders
// @Produce      json
// @Security     BearerAuth
// @Param        status      query  []string  false  "Status filter (repeated or comma-separated)"
// @Param        start_date  query  string    false  "Start date (YYYY-MM-DD)"
// @Param        end_date    query  string    false  "End date (YYYY-MM-DD, inclusive)"
// @Param        search      query  string    false  "Purchaser or menu name substring"
// @Param        sort        query  string    false  "Sort order"  Enums(newest, oldest, price_high, price_low)
// @Param        page        query  int       false  "Page number"
// @Param        per_page    query  int       false  "Items per page (max 1000)"
// @Success      200  {object}  response.Response{data=service.OrderListResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/store/orders [get]
func (h *OrderHandler) ListStoreOrders(c *gin.Context) {
	params := pagination.ParseWithMax(c, pagination.MaxStoreLimit)

	filter := service.StoreOrderFilter{
		Search: c.Query("search"),
		Sort:   c.DefaultQuery("sort", "newest"),
	}
	for _, raw := range c.QueryArray("status") {
		for _, status := range strings.Split(raw, ",") {
			status = strings.TrimSpace(status)
			if status == "" {
				continue
			}
			if !model.IsValidStatus(status) {
				c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid status: "+status))
				return
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}
	if v := c.Query("start_date"); v != "" {
		start, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid start_date format, expected YYYY-MM-DD"))
			return
		}
		filter.StartDate = &start
	}
	if v := c.Query("end_date"); v != "" {
		end, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid end_date format, expected YYYY-MM-DD"))
			return
		}
		// Inclusive to the end of the day.
		end = end.Add(24*time.Hour - time.Microsecond)
		filter.EndDate = &end
	}

	orders, err := h.orderService.ListStoreOrders(c.Request.Context(), middleware.CurrentUser(c),
		filter, params.Offset, params.Limit)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, orders))
}

// UpdateOrderStatus handles PUT /api/store/orders/:id/status
// @Summary      Update an order's status
// @Description  Moves the order along pending, ready, completed or cancelled
// @Tags         store-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                            true  "Order ID"
// @Param        payload  body      service.UpdateOrderStatusRequest  true  "New Status"
// @Success      200      {object}  response.Response{data=service.OrderResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/store/orders/{id}/status [put]
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, service.ErrOrderNotFound.Error()))
		return
	}

	var req service.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	order, err := h.orderService.UpdateOrderStatus(c.Request.Context(), middleware.CurrentUser(c), id, req.Status)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

func respondOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound), errors.Is(err, service.ErrMenuNotFound):
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
	case errors.Is(err, service.ErrCancelNotAllowed),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrNoStore):
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
	}
}
