package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/zenithcrm/crm-backend/internal/api/middleware"
	"github.com/zenithcrm/crm-backend/internal/models"
	"github.com/zenithcrm/crm-backend/internal/service"
)

// ============================================
// Assignment Handler
// ============================================

type AssignmentHandler struct {
	assignmentService service.AssignmentService
}

// BulkAssign hands a batch of calling data to one user.
func (h *AssignmentHandler) BulkAssign(c *gin.Context) {
	actor, ok := middleware.RequireActor(c)
	if !ok {
		return
	}

	var req models.BulkAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	rows := make([]service.AssignRow, len(req.Rows))
	for i, r := range req.Rows {
		rows[i] = service.AssignRow{Name: r.Name, Phone: r.Phone, Email: r.Email, Status: r.Status}
	}

	inserted, err := h.assignmentService.BulkAssign(c.Request.Context(), actor, req.AssigneeID, rows)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"inserted": inserted})
}

func (h *AssignmentHandler) UpdateStatus(c *gin.Context) {
	actor, ok := middleware.RequireActor(c)
	if !ok {
		return
	}

	var req models.UpdateRecordStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	rec, err := h.assignmentService.UpdateStatus(c.Request.Context(), actor, c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRecordResponse(rec))
}

// MyCampaigns lists the caller's received assignments grouped by
// (assigner, day).
func (h *AssignmentHandler) MyCampaigns(c *gin.Context) {
	actor, ok := middleware.RequireActor(c)
	if !ok {
		return
	}

	page, pageSize := pageParams(c)
	result, err := h.assignmentService.MyCampaigns(c.Request.Context(), actor, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCampaignListResponse(result))
}

// History lists assignment batches grouped by (assigner, assignee, day).
func (h *AssignmentHandler) History(c *gin.Context) {
	actor, ok := middleware.RequireActor(c)
	if !ok {
		return
	}

	page, pageSize := pageParams(c)
	personalOnly := c.Query("personal") == "true"

	result, err := h.assignmentService.AssignmentHistory(c.Request.Context(), actor, page, pageSize, personalOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCampaignListResponse(result))
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "10"))
	return page, pageSize
}
