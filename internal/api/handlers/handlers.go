package handlers

import (
	"github.com/zenithcrm/crm-backend/internal/models"
	"github.com/zenithcrm/crm-backend/internal/repository"
	"github.com/zenithcrm/crm-backend/internal/service"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	Auth       *AuthHandler
	User       *UserHandler
	Lead       *LeadHandler
	Assignment *AssignmentHandler
	Analytics  *AnalyticsHandler
}

// NewHandlers creates all handlers
func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Auth:       &AuthHandler{authService: services.Auth},
		User:       &UserHandler{userService: services.User},
		Lead:       &LeadHandler{leadService: services.Lead},
		Assignment: &AssignmentHandler{assignmentService: services.Assignment},
		Analytics:  &AnalyticsHandler{analyticsService: services.Analytics},
	}
}

// ============================================
// Response Mappers
// ============================================

func toUserResponse(u *repository.User) models.UserResponse {
	return models.UserResponse{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		Role:            u.Role,
		Status:          u.Status,
		AssignedUserIDs: u.AssignedUserIDs,
		CreatedAt:       u.CreatedAt,
	}
}

func toLeadResponse(l *repository.Lead) models.LeadResponse {
	return models.LeadResponse{
		ID:           l.ID,
		OwnerID:      l.OwnerID,
		Name:         l.Name,
		Email:        l.Email,
		Phone:        l.Phone,
		Company:      l.Company,
		Notes:        l.Notes,
		Status:       l.Status,
		FollowUpDate: l.FollowUpDate,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}

func toRecordResponse(r *repository.AssignedRecord) models.AssignedRecordResponse {
	return models.AssignedRecordResponse{
		ID:         r.ID,
		AssignerID: r.AssignerID,
		AssigneeID: r.AssigneeID,
		Name:       r.Name,
		Phone:      r.Phone,
		Email:      r.Email,
		Status:     r.Status,
		CreatedAt:  r.CreatedAt,
	}
}

func toCampaignGroupResponse(g *service.CampaignGroup) models.CampaignGroupResponse {
	resp := models.CampaignGroupResponse{
		ID: g.Key,
		Assigner: models.CampaignIdentity{
			ID: g.AssignerID, Name: g.AssignerName, Email: g.AssignerEmail,
		},
		Assignee: models.CampaignIdentity{
			ID: g.AssigneeID, Name: g.AssigneeName, Email: g.AssigneeEmail,
		},
		RecordCount: g.RecordCount,
		CreatedAt:   g.CreatedAt,
	}
	if len(g.Records) > 0 {
		resp.Records = make([]models.AssignedRecordResponse, len(g.Records))
		for i, r := range g.Records {
			resp.Records[i] = toRecordResponse(r)
		}
	} else {
		resp.MemberIDs = g.MemberIDs
	}
	return resp
}

func toCampaignListResponse(page *service.CampaignPage) models.CampaignListResponse {
	groups := make([]models.CampaignGroupResponse, len(page.Groups))
	for i, g := range page.Groups {
		groups[i] = toCampaignGroupResponse(g)
	}
	return models.CampaignListResponse{
		Groups: groups,
		Pagination: models.CampaignPagination{
			Page:       page.Page,
			PageSize:   page.PageSize,
			Total:      page.Total,
			TotalPages: page.TotalPages,
		},
	}
}
