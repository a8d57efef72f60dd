package handler

import (
	"errors"
	"net/http"

	"github.com/ichi1107/bento-order-system/internal/middleware"
	"github.com/ichi1107/bento-order-system/internal/model"
	"github.com/ichi1107/bento-order-system/internal/service"
	"github.com/ichi1107/bento-order-system/pkg/response"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
}

func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	dashboard := router.Group("/api/store/dashboard",
		middleware.RequireStoreRole(model.RoleOwner, model.RoleManager, model.RoleStaff))
	{
		dashboard.GET("", h.GetDashboard)
		dashboard.GET("/weekly-sales", h.GetWeeklySales)
	}

	router.GET("/api/store/reports/sales",
		middleware.RequireStoreRole(model.RoleOwner, model.RoleManager), h.GetSalesReport)
}

// GetDashboard handles GET /api/store/dashboard
// @Summary      Get today's dashboard summary
// @Description  Order counts by status, revenue, top menus and the hourly histogram for today
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=model.OrderSummary}
// @Failure      400  {object}  response.Response
// @Router       /api/store/dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	summary, err := h.dashboardService.GetDashboard(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondDashboardError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}

// GetWeeklySales handles GET /api/store/dashboard/weekly-sales
// @Summary      Get the last seven days of revenue
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=model.WeeklySales}
// @Failure      400  {object}  response.Response
// @Router       /api/store/dashboard/weekly-sales [get]
func (h *DashboardHandler) GetWeeklySales(c *gin.Context) {
	sales, err := h.dashboardService.GetWeeklySales(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondDashboardError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, sales))
}

// GetSalesReport handles GET /api/store/reports/sales
// @Summary      Get a sales report
// @Description  Per-day breakdown and per-menu ranking over the requested period
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        period      query  string  false  "Report period"  Enums(daily, weekly, monthly)
// @Param        start_date  query  string  false  "Start date (YYYY-MM-DD)"
// @Param        end_date    query  string  false  "End date (YYYY-MM-DD)"
// @Success      200  {object}  response.Response{data=model.SalesReport}
// @Failure      400  {object}  response.Response
// @Router       /api/store/reports/sales [get]
func (h *DashboardHandler) GetSalesReport(c *gin.Context) {
	report, err := h.dashboardService.GetSalesReport(c.Request.Context(), middleware.CurrentUser(c),
		c.DefaultQuery("period", service.PeriodDaily), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		respondDashboardError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

func respondDashboardError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoStore), errors.Is(err, service.ErrInvalidDateFormat):
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
	}
}
