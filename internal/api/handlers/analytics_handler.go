package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zenithcrm/crm-backend/internal/api/middleware"
	"github.com/zenithcrm/crm-backend/internal/service"
)

// ============================================
// Analytics Handler
// ============================================

type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
}

func (h *AnalyticsHandler) DayWise(c *gin.Context) {
	actor, ok := middleware.RequireActor(c)
	if !ok {
		return
	}

	buckets, err := h.analyticsService.DayWise(c.Request.Context(), actor, userOnlyFlag(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, buckets)
}

func (h *AnalyticsHandler) MonthWise(c *gin.Context) {
	actor, ok := middleware.RequireActor(c)
	if !ok {
		return
	}

	buckets, err := h.analyticsService.MonthWise(c.Request.Context(), actor, userOnlyFlag(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, buckets)
}

func (h *AnalyticsHandler) TopSubmitters(c *gin.Context) {
	actor, ok := middleware.RequireActor(c)
	if !ok {
		return
	}

	submitters, err := h.analyticsService.TopSubmitters(c.Request.Context(), actor, userOnlyFlag(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, submitters)
}

func userOnlyFlag(c *gin.Context) bool {
	return c.Query("userOnly") == "true"
}
