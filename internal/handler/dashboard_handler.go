package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"cmrpai/internal/errors"
	"cmrpai/internal/service"
	"cmrpai/internal/view"
)

// DashboardHandler serves the KPI dashboard.
type DashboardHandler struct {
	dashboardService service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Dashboard renders the KPI page.
func (h *DashboardHandler) Dashboard(c echo.Context) error {
	stats, err := h.dashboardService.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return renderPage(c, http.StatusOK, view.PageDashboard, "Dashboard", stats)
}

// Stats godoc
// @Summary Dashboard KPIs
// @Description Active minors, attentions this month and in the trailing 365 days, plus a 12 point series (30 day buckets, oldest first).
// @Tags dashboard
// @Produce json
// @Success 200 {object} service.DashboardStats
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /dashboard [get]
func (h *DashboardHandler) Stats(c echo.Context) error {
	stats, err := h.dashboardService.Stats(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
	}
	return c.JSON(http.StatusOK, stats)
}
