package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
}

func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	dashboard := router.Group("/api/dashboard", middleware.RequireAuth())
	{
		dashboard.GET("/summary", h.GetSummary)
	}
}

// GetSummary returns aggregate counts and totals for the current user
// @Summary      Dashboard summary
// @Description  Total, sent and paid invoice counts plus the summed amount across all of the user's invoices regardless of status
// @Tags         dashboard
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.DashboardSummary}
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	summary, err := h.dashboardService.GetSummary(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}
