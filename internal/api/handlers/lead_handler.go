package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zenithcrm/crm-backend/internal/api/middleware"
	"github.com/zenithcrm/crm-backend/internal/models"
	"github.com/zenithcrm/crm-backend/internal/service"
)

// ============================================
// Lead Handler
// ============================================

type LeadHandler struct {
	leadService service.LeadService
}

func (h *LeadHandler) List(c *gin.Context) {
	actor, ok := middleware.RequireActor(c)
	if !ok {
		return
	}

	var q models.LeadListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}

	query := service.LeadListQuery{
		Page:        q.Page,
		PageSize:    q.PageSize,
		Search:      q.Search,
		SortField:   q.SortField,
		SortOrder:   q.SortOrder,
		Scope:       q.Scope,
		OwnerFilter: q.Owner,
		Status:      q.Status,
	}
	if t, err := parseDate(q.DateFrom); err == nil && t != nil {
		query.DateFrom = t
	}
	if t, err := parseDate(q.DateTo); err == nil && t != nil {
		end := t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		query.DateTo = &end
	}

	page, err := h.leadService.List(c.Request.Context(), actor, query)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]models.LeadResponse, len(page.Items))
	for i, l := range page.Items {
		items[i] = toLeadResponse(l)
	}
	c.JSON(http.StatusOK, models.LeadListResponse{
		Items: items,
		Pagination: models.Pagination{
			Page:       page.Page,
			PageSize:   page.PageSize,
			Total:      page.Total,
			TotalPages: page.TotalPages,
			HasNext:    page.HasNext,
			HasPrev:    page.HasPrev,
		},
	})
}

func (h *LeadHandler) Get(c *gin.Context) {
	actor, ok := middleware.RequireActor(c)
	if !ok {
		return
	}

	lead, err := h.leadService.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toLeadResponse(lead))
}

func (h *LeadHandler) Create(c *gin.Context) {
	actor, ok := middleware.RequireActor(c)
	if !ok {
		return
	}

	var req models.LeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	lead, err := h.leadService.Create(c.Request.Context(), actor, leadInputFromRequest(req))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toLeadResponse(lead))
}

func (h *LeadHandler) Update(c *gin.Context) {
	actor, ok := middleware.RequireActor(c)
	if !ok {
		return
	}

	var req models.LeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	lead, err := h.leadService.Update(c.Request.Context(), actor, c.Param("id"), leadInputFromRequest(req))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toLeadResponse(lead))
}

func (h *LeadHandler) Delete(c *gin.Context) {
	actor, ok := middleware.RequireActor(c)
	if !ok {
		return
	}

	if err := h.leadService.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Lead deleted"})
}

func leadInputFromRequest(req models.LeadRequest) service.LeadInput {
	return service.LeadInput{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Company:      req.Company,
		Notes:        req.Notes,
		Status:       req.Status,
		FollowUpDate: req.FollowUpDate,
	}
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
