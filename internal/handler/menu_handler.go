package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ichi1107/bento-order-system/internal/middleware"
	"github.com/ichi1107/bento-order-system/internal/model"
	"github.com/ichi1107/bento-order-system/internal/service"
	"github.com/ichi1107/bento-order-system/pkg/pagination"
	"github.com/ichi1107/bento-order-system/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MenuHandler struct {
	menuService service.MenuService
}

func NewMenuHandler(menuService service.MenuService) *MenuHandler {
	return &MenuHandler{menuService: menuService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *MenuHandler) RegisterRoutes(router *gin.RouterGroup) {
	customer := router.Group("/api/customer/menus", middleware.RequireAccountType(model.AccountTypeCustomer))
	{
		customer.GET("", h.ListCustomerMenus)
		customer.GET("/:id", h.GetCustomerMenu)
	}

	store := router.Group("/api/store/menus")
	{
		store.GET("", middleware.RequireStoreRole(model.RoleOwner, model.RoleManager, model.RoleStaff), h.ListStoreMenus)
		store.POST("", middleware.RequireStoreRole(model.RoleOwner, model.RoleManager), h.CreateMenu)
		store.PUT("/:id", middleware.RequireStoreRole(model.RoleOwner, model.RoleManager), h.UpdateMenu)
		store.DELETE("/:id", middleware.RequireStoreRole(model.RoleOwner), h.DeleteMenu)
	}
}

// parseMenuFilter extracts the shared listing filters from query parameters.
func parseMenuFilter(c *gin.Context) service.MenuListFilter {
	var filter service.MenuListFilter
	if v := c.Query("is_available"); v != "" {
		if available, err := strconv.ParseBool(v); err == nil {
			filter.IsAvailable = &available
		}
	}
	if v := c.Query("price_min"); v != "" {
		if price, err := strconv.Atoi(v); err == nil {
			filter.PriceMin = &price
		}
	}
	if v := c.Query("price_max"); v != "" {
		if price, err := strconv.Atoi(v); err == nil {
			filter.PriceMax = &price
		}
	}
	filter.Search = c.Query("search")
	return filter
}

// ListCustomerMenus handles GET /api/customer/menus
// @Summary      Browse available menus
// @Description  Lists menus across stores, restricted to available items
// @Tags         customer
// @Produce      json
// @Security     BearerAuth
// @Param        is_available  query  bool    false  "Availability filter"
// @Param        price_min     query  int     false  "Minimum price"
// @Param        price_max     query  int     false  "Maximum price"
// @Param        search        query  string  false  "Name substring"
// @Param        page          query  int     false  "Page number"
// @Param        per_page      query  int     false  "Items per page (max 100)"
// @Success      200  {object}  response.Response{data=service.MenuListResponse}
// @Failure      401  {object}  response.Response
// @Router       /api/customer/menus [get]
func (h *MenuHandler) ListCustomerMenus(c *gin.Context) {
	params := pagination.Parse(c)
	filter := parseMenuFilter(c)

	menus, err := h.menuService.ListCustomerMenus(c.Request.Context(), filter, params.Offset, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, menus))
}

// GetCustomerMenu handles GET /api/customer/menus/:id
// @Summary      Get an available menu
// @Tags         customer
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Menu ID"
// @Success      200  {object}  response.Response{data=model.Menu}
// @Failure      404  {object}  response.Response
// @Router       /api/customer/menus/{id} [get]
func (h *MenuHandler) GetCustomerMenu(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, service.ErrMenuNotFound.Error()))
		return
	}

	menu, err := h.menuService.GetCustomerMenu(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, menu))
}

// ListStoreMenus handles GET /api/store/menus
// @Summary      List the store's menus
// @Tags         store-menus
// @Produce      json
// @Security     BearerAuth
// @Param        is_available  query  bool    false  "Availability filter"
// @Param        search        query  string  false  "Name substring"
// @Param        page          query  int     false  "Page number"
// @Param        per_page      query  int     false  "Items per page (max 100)"
// @Success      200  {object}  response.Response{data=service.MenuListResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/store/menus [get]
func (h *MenuHandler) ListStoreMenus(c *gin.Context) {
	params := pagination.Parse(c)
	filter := parseMenuFilter(c)

	menus, err := h.menuService.ListStoreMenus(c.Request.Context(), middleware.CurrentUser(c), filter, params.Offset, params.Limit)
	if err != nil {
		respondMenuError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, menus))
}

// CreateMenu handles POST /api/store/menus
// @Summary      Create a menu
// @Tags         store-menus
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateMenuRequest  true  "Menu Payload"
// @Success      201      {object}  response.Response{data=model.Menu}
// @Failure      400      {object}  response.Response
// @Router       /api/store/menus [post]
func (h *MenuHandler) CreateMenu(c *gin.Context) {
	var req service.CreateMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	menu, err := h.menuService.CreateMenu(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		respondMenuError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, menu))
}

// UpdateMenu handles PUT /api/store/menus/:id
// @Summary      Update a menu
// @Tags         store-menus
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                     true  "Menu ID"
// @Param        payload  body      service.UpdateMenuRequest  true  "Fields to update"
// @Success      200      {object}  response.Response{data=model.Menu}
// @Failure      404      {object}  response.Response
// @Router       /api/store/menus/{id} [put]
func (h *MenuHandler) UpdateMenu(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, service.ErrMenuNotFound.Error()))
		return
	}

	var req service.UpdateMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	menu, err := h.menuService.UpdateMenu(c.Request.Context(), middleware.CurrentUser(c), id, req)
	if err != nil {
		respondMenuError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, menu))
}

// DeleteMenu handles DELETE /api/store/menus/:id
// @Summary      Delete a menu
// @Description  Disables the menu instead of deleting when orders reference it
// @Tags         store-menus
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Menu ID"
// @Success      200  {object}  response.Response{data=service.DeleteMenuResult}
// @Failure      404  {object}  response.Response
// @Router       /api/store/menus/{id} [delete]
func (h *MenuHandler) DeleteMenu(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, service.ErrMenuNotFound.Error()))
		return
	}

	result, err := h.menuService.DeleteMenu(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		respondMenuError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

func respondMenuError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMenuNotFound):
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
	case errors.Is(err, service.ErrNoStore):
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
	}
}
